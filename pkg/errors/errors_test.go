package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewNotFound("appointment", nil).StatusCode())
	assert.Equal(t, http.StatusBadRequest, NewValidation("bad").StatusCode())
	assert.Equal(t, http.StatusConflict, NewPrecondition("already responded").StatusCode())
	assert.Equal(t, http.StatusFailedDependency, NewDependency("secondary write failed", nil).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorized("who are you").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, NewInternal(nil).StatusCode())
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NewPrecondition("appointment is cancelled"))
	assert.True(t, IsPrecondition(err))
	assert.False(t, IsValidation(err))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewDependency("assignment failed", cause)
	assert.Contains(t, err.Error(), "assignment failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}
