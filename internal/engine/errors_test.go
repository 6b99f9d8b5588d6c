package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayushgw/graphql-basics/internal/model"
)

func TestError_Format(t *testing.T) {
	err := NotFoundError(model.KindPost, "p1")
	assert.Equal(t, "NOT_FOUND: post not found (post=p1)", err.Error())

	err = ConflictError("a@x.com")
	assert.Equal(t, `CONFLICT: email "a@x.com" is already taken`, err.Error())
}

func TestError_Helpers(t *testing.T) {
	wrapped := fmt.Errorf("resolver: %w", ValidationError(model.KindUser, "u1", "author does not exist"))

	assert.True(t, IsValidation(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.Equal(t, ErrCodeValidation, CodeOf(wrapped))

	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
