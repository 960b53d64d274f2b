package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", h)

	assert.NoError(t, VerifyPassword("hunter2", h))
	assert.Error(t, VerifyPassword("hunter3", h))
}
