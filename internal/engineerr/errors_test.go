package engineerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesConstructedCode(t *testing.T) {
	err := New(NotFound, "order 42 is not resting")
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, InvalidArgument))
}

func TestIsRejectsPlainErrors(t *testing.T) {
	assert.False(t, Is(errors.New("boom"), NotFound))
}

func TestWrapPreservesCauseAndCode(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ClientWriteFailure, "broadcast write failed")

	assert.True(t, Is(err, ClientWriteFailure))
	assert.Same(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "CLIENT_WRITE_FAILURE")
}

func TestNewHasNoCause(t *testing.T) {
	err := New(InvalidArgument, "price and quantity must be positive")
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "[INVALID_ARGUMENT] price and quantity must be positive", err.Error())
}
