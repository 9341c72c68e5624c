package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, CodeNotFound, CodeOf(NewNotFound("board")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))

	wrapped := fmt.Errorf("modify: %w", NewForbidden("not owner"))
	assert.Equal(t, CodeForbidden, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeForbidden))
	assert.False(t, IsCode(nil, CodeForbidden))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, "CONFLICT: nickname taken", NewConflict("nickname taken").Error())
}
