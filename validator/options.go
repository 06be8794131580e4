package validator

import (
	"fmt"
	"time"
)

// Option is an option configuring an ingress validator.
type Option func(cfg *validatorConfig) error

type validatorConfig struct {
	now            func() time.Time
	maxExpiry      time.Duration
	drift          time.Duration
	maxDelegations int
	maxTargets     int
	parser         KeyParser
}

// WithClock configures the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(cfg *validatorConfig) error {
		if now == nil {
			return fmt.Errorf("nil clock")
		}
		cfg.now = now
		return nil
	}
}

// WithMaxIngressExpiry configures how far in the future an ingress expiry
// may be.
func WithMaxIngressExpiry(d time.Duration) Option {
	return func(cfg *validatorConfig) error {
		if d <= 0 {
			return fmt.Errorf("max ingress expiry must be positive: %s", d)
		}
		cfg.maxExpiry = d
		return nil
	}
}

// WithPermittedDrift configures the tolerated clock skew of senders.
func WithPermittedDrift(d time.Duration) Option {
	return func(cfg *validatorConfig) error {
		if d < 0 {
			return fmt.Errorf("permitted drift must not be negative: %s", d)
		}
		cfg.drift = d
		return nil
	}
}

// WithMaxDelegations configures the maximum length of a delegation chain.
func WithMaxDelegations(n int) Option {
	return func(cfg *validatorConfig) error {
		if n < 0 {
			return fmt.Errorf("max delegations must not be negative: %d", n)
		}
		cfg.maxDelegations = n
		return nil
	}
}

// WithMaxTargets configures the maximum number of targets per delegation.
func WithMaxTargets(n int) Option {
	return func(cfg *validatorConfig) error {
		if n < 0 {
			return fmt.Errorf("max targets must not be negative: %d", n)
		}
		cfg.maxTargets = n
		return nil
	}
}

// WithKeyParser configures how DER public keys are turned into verifiers.
func WithKeyParser(parser KeyParser) Option {
	return func(cfg *validatorConfig) error {
		if parser == nil {
			return fmt.Errorf("nil key parser")
		}
		cfg.parser = parser
		return nil
	}
}
