package delegation

import (
	"fmt"
	"time"

	"github.com/storacha/go-ingress/principal"
)

// DefaultTTL is the lifetime of a delegation issued without an explicit
// expiration.
const DefaultTTL = 30 * time.Minute

// Option is an option configuring a delegation.
type Option func(cfg *delegationConfig) error

type delegationConfig struct {
	exp     *time.Time
	targets []principal.Principal
	now     func() time.Time
}

// WithExpiration configures the absolute expiration time of the delegation.
func WithExpiration(exp time.Time) Option {
	return func(cfg *delegationConfig) error {
		if exp.UnixNano() < 0 {
			return fmt.Errorf("expiration before the Unix epoch: %s", exp)
		}
		cfg.exp = &exp
		return nil
	}
}

// WithTargets restricts the delegation to the passed resources. Calling it
// with no targets produces a delegation that allows no target at all.
func WithTargets(targets ...principal.Principal) Option {
	return func(cfg *delegationConfig) error {
		cfg.targets = append(make([]principal.Principal, 0, len(targets)), targets...)
		return nil
	}
}

// WithClock configures the source of the current time, used to compute the
// default expiration.
func WithClock(now func() time.Time) Option {
	return func(cfg *delegationConfig) error {
		cfg.now = now
		return nil
	}
}

// Delegate creates a delegation from issuer to the holder of the DER encoded
// public key pubkey and signs it. If expiration is not set it defaults to
// [DefaultTTL] from now.
func Delegate(issuer principal.Signer, pubkey []byte, options ...Option) (SignedDelegation, error) {
	cfg := delegationConfig{now: time.Now}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return SignedDelegation{}, err
		}
	}

	exp := cfg.now().Add(DefaultTTL)
	if cfg.exp != nil {
		exp = *cfg.exp
	}

	dlg := Delegation{
		PubKey:     pubkey,
		Expiration: uint64(exp.UnixNano()),
		Targets:    cfg.targets,
	}

	msg, err := dlg.SignableBytes()
	if err != nil {
		return SignedDelegation{}, fmt.Errorf("encoding delegation: %w", err)
	}

	sig, err := issuer.Sign(msg)
	if err != nil {
		return SignedDelegation{}, fmt.Errorf("signing delegation: %w", err)
	}

	return SignedDelegation{Delegation: dlg, Signature: sig}, nil
}

// Verify checks the signature of the delegation against the delegator's key.
func Verify(sd SignedDelegation, delegator principal.Verifier) (bool, error) {
	msg, err := sd.Delegation.SignableBytes()
	if err != nil {
		return false, err
	}
	return delegator.Verify(msg, sd.Signature), nil
}
