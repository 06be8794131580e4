package validator

import (
	"fmt"
	"time"

	"github.com/storacha/go-ingress/core/result/failure"
	"github.com/storacha/go-ingress/principal"
)

// Rejection is an error returned when a request fails validation.
//
// The unexported method limits the implementations to this package.
type Rejection interface {
	error
	failure.Named
	isRejection()
}

type ExpiredError struct {
	failure.NamedWithStackTrace
	expiry time.Time
	now    time.Time
}

func NewExpiredError(expiry, now time.Time) ExpiredError {
	return ExpiredError{failure.NamedWithCurrentStackTrace("ExpiredError"), expiry, now}
}

func (ee ExpiredError) ExpiresAt() time.Time {
	return ee.expiry
}

func (ee ExpiredError) Error() string {
	return fmt.Sprintf("Request expired at %s, current time is %s", ee.expiry.UTC().Format(time.RFC3339Nano), ee.now.UTC().Format(time.RFC3339Nano))
}

func (ExpiredError) isRejection() {}

type ExpiryTooFarError struct {
	failure.NamedWithStackTrace
	expiry time.Time
	limit  time.Time
}

func NewExpiryTooFarError(expiry, limit time.Time) ExpiryTooFarError {
	return ExpiryTooFarError{failure.NamedWithCurrentStackTrace("ExpiryTooFarError"), expiry, limit}
}

func (etf ExpiryTooFarError) Error() string {
	return fmt.Sprintf("Request expiry %s is later than %s", etf.expiry.UTC().Format(time.RFC3339Nano), etf.limit.UTC().Format(time.RFC3339Nano))
}

func (ExpiryTooFarError) isRejection() {}

type InvalidSignatureError struct {
	failure.NamedWithStackTrace
	subject string
}

func NewInvalidSignatureError(subject string) InvalidSignatureError {
	return InvalidSignatureError{failure.NamedWithCurrentStackTrace("InvalidSignatureError"), subject}
}

func (ise InvalidSignatureError) Error() string {
	return fmt.Sprintf("Invalid signature on %s", ise.subject)
}

func (InvalidSignatureError) isRejection() {}

type SenderMismatchError struct {
	failure.NamedWithStackTrace
	sender  principal.Principal
	derived principal.Principal
}

func NewSenderMismatchError(sender, derived principal.Principal) SenderMismatchError {
	return SenderMismatchError{failure.NamedWithCurrentStackTrace("SenderMismatchError"), sender, derived}
}

func (sme SenderMismatchError) Error() string {
	return fmt.Sprintf("Sender %s does not match the sender public key, which belongs to %s", sme.sender, sme.derived)
}

func (SenderMismatchError) isRejection() {}

type MissingSignatureError struct {
	failure.NamedWithStackTrace
	sender principal.Principal
}

func NewMissingSignatureError(sender principal.Principal) MissingSignatureError {
	return MissingSignatureError{failure.NamedWithCurrentStackTrace("MissingSignatureError"), sender}
}

func (mse MissingSignatureError) Error() string {
	return fmt.Sprintf("Request from %s is not signed", mse.sender)
}

func (MissingSignatureError) isRejection() {}

type AnonymousSignatureError struct {
	failure.NamedWithStackTrace
}

func NewAnonymousSignatureError() AnonymousSignatureError {
	return AnonymousSignatureError{failure.NamedWithCurrentStackTrace("AnonymousSignatureError")}
}

func (AnonymousSignatureError) Error() string {
	return "Anonymous request must not carry a public key, signature or delegations"
}

func (AnonymousSignatureError) isRejection() {}

type DelegationExpiredError struct {
	failure.NamedWithStackTrace
	index  int
	expiry time.Time
}

func NewDelegationExpiredError(index int, expiry time.Time) DelegationExpiredError {
	return DelegationExpiredError{failure.NamedWithCurrentStackTrace("DelegationExpiredError"), index, expiry}
}

func (dee DelegationExpiredError) Error() string {
	return fmt.Sprintf("Delegation %d has expired on %s", dee.index, dee.expiry.UTC().Format(time.RFC3339Nano))
}

func (DelegationExpiredError) isRejection() {}

type DelegationTargetError struct {
	failure.NamedWithStackTrace
	index  int
	target principal.Principal
}

func NewDelegationTargetError(index int, target principal.Principal) DelegationTargetError {
	return DelegationTargetError{failure.NamedWithCurrentStackTrace("DelegationTargetError"), index, target}
}

func (dte DelegationTargetError) Error() string {
	return fmt.Sprintf("Delegation %d does not allow calls to %s", dte.index, dte.target)
}

func (DelegationTargetError) isRejection() {}

type TooManyTargetsError struct {
	failure.NamedWithStackTrace
	index int
	count int
	limit int
}

func NewTooManyTargetsError(index, count, limit int) TooManyTargetsError {
	return TooManyTargetsError{failure.NamedWithCurrentStackTrace("TooManyTargetsError"), index, count, limit}
}

func (tmt TooManyTargetsError) Error() string {
	return fmt.Sprintf("Delegation %d has %d targets, maximum is %d", tmt.index, tmt.count, tmt.limit)
}

func (TooManyTargetsError) isRejection() {}

type DelegationCycleError struct {
	failure.NamedWithStackTrace
	index int
}

func NewDelegationCycleError(index int) DelegationCycleError {
	return DelegationCycleError{failure.NamedWithCurrentStackTrace("DelegationCycleError"), index}
}

func (dce DelegationCycleError) Error() string {
	return fmt.Sprintf("Delegation %d delegates to a key already in the chain", dce.index)
}

func (DelegationCycleError) isRejection() {}

type TooManyDelegationsError struct {
	failure.NamedWithStackTrace
	count int
	limit int
}

func NewTooManyDelegationsError(count, limit int) TooManyDelegationsError {
	return TooManyDelegationsError{failure.NamedWithCurrentStackTrace("TooManyDelegationsError"), count, limit}
}

func (tmd TooManyDelegationsError) Error() string {
	return fmt.Sprintf("Delegation chain has %d delegations, maximum is %d", tmd.count, tmd.limit)
}

func (TooManyDelegationsError) isRejection() {}

type UnsupportedKeyError struct {
	failure.NamedWithStackTrace
	cause error
}

func NewUnsupportedKeyError(cause error) UnsupportedKeyError {
	return UnsupportedKeyError{failure.NamedWithCurrentStackTrace("UnsupportedKeyError"), cause}
}

func (uke UnsupportedKeyError) Error() string {
	return fmt.Sprintf("Unsupported public key: %s", uke.cause)
}

func (uke UnsupportedKeyError) Unwrap() error {
	return uke.cause
}

func (UnsupportedKeyError) isRejection() {}
