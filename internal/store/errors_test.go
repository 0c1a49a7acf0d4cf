package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"generic_not_found", ErrNotFound, true},
		{"task_not_found", ErrTaskNotFound, true},
		{"wrapped_task_not_found", fmt.Errorf("lookup failed: %w", ErrTaskNotFound), true},
		{"invalid_id", ErrInvalidID, false},
		{"invalid_entity", ErrInvalidEntity, false},
		{"unrelated", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFoundError(tt.err))
		})
	}
}

func TestErrTaskNotFoundWrapsErrNotFound(t *testing.T) {
	assert.ErrorIs(t, ErrTaskNotFound, ErrNotFound)
}
