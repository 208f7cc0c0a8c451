package safe

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Run calls f and turns a panic into an error log instead of a crash.
func Run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered from panic",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())))
		}
	}()
	f()
}
