package resource

import (
	"errors"
	"fmt"

	"concourse-slack-notifier/src/message"
	"concourse-slack-notifier/src/transport"
)

var (
	ErrMissingSource = errors.New("missing resource configuration")
	ErrMissingURL    = errors.New("missing webhook url in resource configuration")
)

// UserError wraps errors with messages meant for pipeline authors.
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts known configuration errors to user-friendly messages.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return err
	}

	if errors.Is(err, message.ErrMessageFileMissing) {
		return &UserError{
			Message: "Message file not found",
			Hint:    "message_file is relative to the build directory, e.g. \"my-output/message.txt\".\nUnset fail_if_message_file_missing to send a placeholder instead.",
			Err:     err,
		}
	}

	if errors.Is(err, transport.ErrInvalidCACert) {
		return &UserError{
			Message: "Invalid CA certificate",
			Hint:    "ca_cert must contain at least one PEM encoded certificate.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrMissingSource) || errors.Is(err, ErrMissingURL) {
		return &UserError{
			Message: "Resource is not configured",
			Hint:    "Set source.url to the Slack incoming webhook URL.",
			Err:     err,
		}
	}

	return err
}
