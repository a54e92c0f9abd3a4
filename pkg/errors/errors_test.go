package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorMapsUnknownToInternal(t *testing.T) {
	appErr := FromError(errors.New("socket closed"))
	require.NotNil(t, appErr)
	assert.Equal(t, NameInternal, appErr.Name)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr.Unwrap(), "socket closed")
}

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := Clone(ErrConflict, "already pending")
	appErr := FromError(wrapped)
	assert.Same(t, wrapped, appErr)
	assert.Nil(t, FromError(nil))
}

func TestCloneMatchesSentinel(t *testing.T) {
	clone := Clone(ErrNotFound, "no pending request")
	assert.True(t, errors.Is(clone, ErrNotFound))
	assert.False(t, errors.Is(clone, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestNewValidationCopiesDetails(t *testing.T) {
	details := []Detail{{Field: "studentId", Message: "Student ID is invalid"}}
	appErr := NewValidation(details)
	details[0].Message = "mutated"

	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, NameValidation, appErr.Name)
	assert.Equal(t, "Student ID is invalid", appErr.Details[0].Message)
	assert.Empty(t, ErrValidation.Details)
	assert.True(t, IsStatus(appErr, http.StatusUnprocessableEntity))
}
