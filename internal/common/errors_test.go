package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("run `finapp auth gmail` again", ErrReauthRequired)

	assert.ErrorIs(t, err, ErrReauthRequired)
	assert.Equal(t, "run `finapp auth gmail` again: re-authentication required", err.Error())
	assert.Equal(t, "run `finapp auth gmail` again", UserMessage(fmt.Errorf("fetch: %w", err)))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "only message", (&UserError{UserMessage: "only message"}).Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: fmt.Errorf("list: %w", ErrRateLimit), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "transient", err: Transient(errors.New("503")), want: true},
		{name: "permanent", err: Permanent(errors.New("400")), want: false},
		{name: "reauth", err: fmt.Errorf("get: %w", ErrReauthRequired), want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
