package identity

import (
	"fmt"

	"github.com/storacha/go-ingress/core/result/failure"
)

// SenderNotFoundError is returned when an identity cannot resolve the
// principal it sends as.
type SenderNotFoundError struct {
	failure.NamedWithStackTrace
	cause error
}

func NewSenderNotFoundError(cause error) SenderNotFoundError {
	return SenderNotFoundError{failure.NamedWithCurrentStackTrace("SenderNotFoundError"), cause}
}

func (snf SenderNotFoundError) Error() string {
	return fmt.Sprintf("sender not found: %s", snf.cause)
}

func (snf SenderNotFoundError) Unwrap() error {
	return snf.cause
}

// SigningError is returned when an identity fails to sign a request.
type SigningError struct {
	failure.NamedWithStackTrace
	cause error
}

func NewSigningError(cause error) SigningError {
	return SigningError{failure.NamedWithCurrentStackTrace("SigningError"), cause}
}

func (se SigningError) Error() string {
	return fmt.Sprintf("signing failed: %s", se.cause)
}

func (se SigningError) Unwrap() error {
	return se.cause
}
