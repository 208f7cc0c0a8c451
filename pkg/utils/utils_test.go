package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenSpecID(t *testing.T) {
	SetupIDWorker(1)

	a, b := GenSpecID(), GenSpecID()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, GenSpecIDStr())
}
