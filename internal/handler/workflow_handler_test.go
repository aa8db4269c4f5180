package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"backend/internal/workflow"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{workflow.ErrNotFound, http.StatusNotFound},
		{workflow.ErrAlreadyInitialized, http.StatusConflict},
		{workflow.ErrConcurrentModification, http.StatusConflict},
		{workflow.ErrOutOfSequence, http.StatusUnprocessableEntity},
		{workflow.ErrUnassigned, http.StatusUnprocessableEntity},
		{workflow.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{workflow.ErrEmployeeInactive, http.StatusUnprocessableEntity},
		{workflow.ErrStorageFailure, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFromError(tt.err); got != tt.want {
			t.Errorf("statusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStatusFromErrorUnwrapsServiceErrors(t *testing.T) {
	// Services wrap sentinels with context; the mapping must see through it.
	wrapped := fmt.Errorf("%w: step 3 cannot start before step 2 is completed", workflow.ErrOutOfSequence)
	if got := statusFromError(wrapped); got != http.StatusUnprocessableEntity {
		t.Errorf("statusFromError(wrapped) = %d, want %d", got, http.StatusUnprocessableEntity)
	}
}
