package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/peer-api/pkg/register"
)

type testKey struct{}

func TestResolveFuncHandlers(t *testing.T) {
	var got []int
	register.RegisterFunc(testKey{}, register.Handler[*[]int](func(v *[]int) { *v = append(*v, 1) }))
	register.RegisterFunc(testKey{}, register.Handler[*[]int](func(v *[]int) { *v = append(*v, 2) }))
	register.RegisterFunc(testKey{}, register.Handler[string](func(string) {}))

	handlers := register.ResolveFuncHandlers[*[]int](testKey{})
	assert.Len(t, handlers, 2)
	for _, h := range handlers {
		h(&got)
	}
	assert.Equal(t, []int{1, 2}, got)
}
