package envelope

import (
	"fmt"

	"github.com/storacha/go-ingress/core/result/failure"
)

// InvalidMessageError is returned when a request envelope is structurally
// malformed.
type InvalidMessageError struct {
	failure.NamedWithStackTrace
	reason string
	cause  error
}

func NewInvalidMessageError(reason string) InvalidMessageError {
	return InvalidMessageError{failure.NamedWithCurrentStackTrace("InvalidMessageError"), reason, nil}
}

func (ime InvalidMessageError) Reason() string {
	return ime.reason
}

func (ime InvalidMessageError) Error() string {
	if ime.cause != nil {
		return fmt.Sprintf("invalid message: %s: %s", ime.reason, ime.cause)
	}
	return fmt.Sprintf("invalid message: %s", ime.reason)
}

func (ime InvalidMessageError) Unwrap() error {
	return ime.cause
}

func invalidMessage(reason string, cause error) InvalidMessageError {
	return InvalidMessageError{failure.NamedWithCurrentStackTrace("InvalidMessageError"), reason, cause}
}
