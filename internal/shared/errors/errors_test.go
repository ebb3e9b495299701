package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "not_found: user not found", NewNotFoundError("user not found").Error())
	assert.Equal(t, "validation_error: invalid language (xx)", NewValidationError("invalid language", "xx").Error())
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("register user: %w", NewNotFoundError("user not found"))

	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("Error 1062: Duplicate entry '1' for key 'user_id'")))
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: profiles.user_id")))
	assert.False(t, IsDuplicateError(fmt.Errorf("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
