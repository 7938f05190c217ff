package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err      error
		kind     ErrorKind
		sentinel error
	}{
		{NewValidationError(MsgTitleEmpty), KindValidation, ErrValidation},
		{NewNotFoundError(MsgTodoNotFound), KindNotFound, ErrNotFound},
		{NewImmutableError(MsgTodoCompleted), KindImmutable, ErrImmutable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err))
		assert.True(t, errors.Is(tt.err, tt.sentinel))

		wrapped := fmt.Errorf("op: %w", tt.err)
		assert.Equal(t, tt.kind, KindOf(wrapped))
		assert.True(t, errors.Is(wrapped, tt.sentinel))
	}

	assert.False(t, errors.Is(NewValidationError("x"), ErrNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "Title cannot be empty", NewValidationError(MsgTitleEmpty).Error())
}

func TestTodo_Clone(t *testing.T) {
	orig := Todo{ID: "1", Title: "t", Description: StringPtr("d")}
	c := orig.Clone()
	*c.Description = "changed"
	assert.Equal(t, "d", *orig.Description)

	assert.Nil(t, Todo{}.Clone().Description)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "immutable", KindImmutable.String())
	assert.Equal(t, "internal", KindInternal.String())
}
