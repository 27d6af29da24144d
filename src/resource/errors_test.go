package resource

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concourse-slack-notifier/src/message"
	"concourse-slack-notifier/src/transport"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantHint    string
	}{
		{
			name:        "message file missing",
			err:         fmt.Errorf("%w: out/msg.txt", message.ErrMessageFileMissing),
			wantMessage: "Message file not found",
			wantHint:    "relative to the build directory",
		},
		{
			name:        "invalid CA",
			err:         fmt.Errorf("concourse client: %w", transport.ErrInvalidCACert),
			wantMessage: "Invalid CA certificate",
			wantHint:    "PEM",
		},
		{
			name:        "missing source",
			err:         ErrMissingSource,
			wantMessage: "Resource is not configured",
			wantHint:    "source.url",
		},
		{
			name:        "missing url",
			err:         ErrMissingURL,
			wantMessage: "Resource is not configured",
			wantHint:    "source.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)

			var userErr *UserError
			require.ErrorAs(t, wrapped, &userErr)
			assert.Equal(t, tt.wantMessage, userErr.Message)
			assert.Contains(t, userErr.Hint, tt.wantHint)
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestWrapError_Passthrough(t *testing.T) {
	assert.NoError(t, WrapError(nil))

	err := errors.New("something else")
	assert.Same(t, err, WrapError(err))
}

func TestUserError_Error(t *testing.T) {
	tests := []struct {
		name    string
		userErr *UserError
		want    string
	}{
		{
			name:    "message only",
			userErr: &UserError{Message: "Something went wrong"},
			want:    "Something went wrong",
		},
		{
			name:    "message with hint",
			userErr: &UserError{Message: "Something went wrong", Hint: "Try this"},
			want:    "Something went wrong\n\nHint: Try this",
		},
		{
			name:    "message with hint and error",
			userErr: &UserError{Message: "Something went wrong", Hint: "Try this", Err: errors.New("original")},
			want:    "Something went wrong\n\nHint: Try this\n\nDetails: original",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.userErr.Error())
		})
	}
}

func TestWrapError_AlreadyWrapped(t *testing.T) {
	once := WrapError(ErrMissingURL)
	twice := WrapError(once)

	assert.Same(t, once, twice)
}
