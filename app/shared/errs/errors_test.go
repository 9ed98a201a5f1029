package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{
			name: "Is matches by code regardless of message",
			test: func(t *testing.T) {
				err := NotFound("giveaway %d not found", 42)
				assert.True(t, errors.Is(err, NotFound("")))
				assert.False(t, errors.Is(err, AlreadyClosed("")))
			},
		},
		{
			name: "Is matches through wrapping",
			test: func(t *testing.T) {
				err := fmt.Errorf("handling command: %w", NoActiveTimer("no timer for user"))
				assert.True(t, errors.Is(err, NoActiveTimer("")))
				assert.Equal(t, CodeNoActiveTimer, CodeOf(err))
			},
		},
		{
			name: "Collaborator keeps the cause",
			test: func(t *testing.T) {
				cause := errors.New("HTTP 502")
				err := Collaborator("posting announcement", cause)
				assert.ErrorIs(t, err, cause)
				assert.True(t, HasCode(err, CodeCollaboratorError))
				assert.Contains(t, err.Error(), "posting announcement")
				assert.Contains(t, err.Error(), "HTTP 502")
			},
		},
		{
			name: "CodeOf on plain errors is empty",
			test: func(t *testing.T) {
				assert.Equal(t, Code(""), CodeOf(errors.New("boom")))
				assert.False(t, HasCode(nil, CodeNotFound))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}
