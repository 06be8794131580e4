package verify

import (
	"fmt"

	"github.com/storacha/go-ingress/core/result/failure"
	"github.com/storacha/go-ingress/principal"
)

// SignatureVerificationError is returned when the validator rejects a
// signed message. The rejection is available through errors.As.
type SignatureVerificationError struct {
	failure.NamedWithStackTrace
	cause error
}

func NewSignatureVerificationError(cause error) SignatureVerificationError {
	return SignatureVerificationError{failure.NamedWithCurrentStackTrace("SignatureVerificationError"), cause}
}

func (sve SignatureVerificationError) Error() string {
	return fmt.Sprintf("signature verification failed: %s", sve.cause)
}

func (sve SignatureVerificationError) Unwrap() error {
	return sve.cause
}

// IdentityMismatchError is returned when a message was signed by a principal
// other than the expected one.
type IdentityMismatchError struct {
	failure.NamedWithStackTrace
	expected principal.Principal
	actual   principal.Principal
}

func NewIdentityMismatchError(expected, actual principal.Principal) IdentityMismatchError {
	return IdentityMismatchError{failure.NamedWithCurrentStackTrace("IdentityMismatchError"), expected, actual}
}

func (ime IdentityMismatchError) Expected() principal.Principal {
	return ime.expected
}

func (ime IdentityMismatchError) Actual() principal.Principal {
	return ime.actual
}

func (ime IdentityMismatchError) Error() string {
	return fmt.Sprintf("message signed by %s, expected %s", ime.actual, ime.expected)
}
