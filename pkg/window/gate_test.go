package window_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/peer-api/pkg/window"
)

func TestStateAt(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want window.State
	}{
		{"before start", start.Add(-time.Microsecond), window.NotStarted},
		{"at start", start, window.Open},
		{"inside", start.Add(48 * time.Hour), window.Open},
		{"at end", end, window.Open},
		{"after end", end.Add(time.Microsecond), window.Closed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, window.StateAt(c.now, start, end))
			assert.Equal(t, c.want == window.Open, window.IsOpen(c.now, start, end))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not_started", window.NotStarted.String())
	assert.Equal(t, "open", window.Open.String())
	assert.Equal(t, "closed", window.Closed.String())
}
