// Package validator checks the authentication of parsed ingress requests:
// expiry, sender signature and delegation chain.
package validator

import (
	"context"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/core/envelope"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/principal/verifier"
)

var log = logging.Logger("ingress/validator")

const (
	// DefaultMaxIngressExpiry is how far in the future an ingress expiry may
	// be by default.
	DefaultMaxIngressExpiry = 5 * time.Minute
	// DefaultPermittedDrift is the tolerated clock skew of senders.
	DefaultPermittedDrift = 30 * time.Second
	// DefaultMaxDelegations is the maximum length of a delegation chain.
	DefaultMaxDelegations = 20
	// DefaultMaxTargets is the maximum number of targets of a delegation.
	DefaultMaxTargets = 1000
)

// Validator validates a parsed request. A nil error means the request is
// authentic.
type Validator interface {
	Validate(ctx context.Context, req envelope.Request) error
}

// ValidatorFunc adapts a function to a [Validator].
type ValidatorFunc func(ctx context.Context, req envelope.Request) error

func (vf ValidatorFunc) Validate(ctx context.Context, req envelope.Request) error {
	return vf(ctx, req)
}

// KeyParser turns a DER encoded public key into a verifier.
type KeyParser interface {
	ParseKey(der []byte) (principal.Verifier, error)
}

// KeyParserFunc adapts a function to a [KeyParser].
type KeyParserFunc func(der []byte) (principal.Verifier, error)

func (kpf KeyParserFunc) ParseKey(der []byte) (principal.Verifier, error) {
	return kpf(der)
}

// IngressValidator validates call requests against the current time.
type IngressValidator struct {
	now            func() time.Time
	maxExpiry      time.Duration
	drift          time.Duration
	maxDelegations int
	maxTargets     int
	parser         KeyParser
}

var _ Validator = (*IngressValidator)(nil)

// NewIngressValidator creates a validator supporting Ed25519 and ECDSA P-256
// keys.
func NewIngressValidator(options ...Option) (*IngressValidator, error) {
	cfg := validatorConfig{
		now:            time.Now,
		maxExpiry:      DefaultMaxIngressExpiry,
		drift:          DefaultPermittedDrift,
		maxDelegations: DefaultMaxDelegations,
		maxTargets:     DefaultMaxTargets,
		parser:         KeyParserFunc(verifier.Decode),
	}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &IngressValidator{
		now:            cfg.now,
		maxExpiry:      cfg.maxExpiry,
		drift:          cfg.drift,
		maxDelegations: cfg.maxDelegations,
		maxTargets:     cfg.maxTargets,
		parser:         cfg.parser,
	}, nil
}

// Validate checks that the request has not expired, that the sender
// signature is valid for the sender and that every delegation in the chain
// is valid for the request target.
func (v *IngressValidator) Validate(ctx context.Context, req envelope.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := v.validate(req)
	if err != nil {
		log.Debugw("rejected request", "id", req.ID(), "sender", req.Sender(), "error", err)
	}
	return err
}

func (v *IngressValidator) validate(req envelope.Request) error {
	now := v.now()
	if err := ValidateExpiry(req.ExpiresAt(), now, v.maxExpiry+v.drift); err != nil {
		return err
	}

	sender := req.Sender()
	pubkey := req.SenderPubKey()
	if sender.IsAnonymous() {
		if pubkey != nil || req.SenderSig() != nil || req.Delegations() != nil {
			return NewAnonymousSignatureError()
		}
		return nil
	}
	if pubkey == nil {
		return NewMissingSignatureError(sender)
	}
	if derived := principal.SelfAuthenticating(pubkey); derived != sender {
		return NewSenderMismatchError(sender, derived)
	}

	key, err := v.ValidateDelegations(pubkey, req.Delegations(), req.CanisterID(), now)
	if err != nil {
		return err
	}

	vfr, err := v.parser.ParseKey(key)
	if err != nil {
		return NewUnsupportedKeyError(err)
	}
	if !vfr.Verify(req.SignableBytes(), req.SenderSig()) {
		return NewInvalidSignatureError(fmt.Sprintf("request %s", req.ID()))
	}
	return nil
}

// ValidateExpiry checks that expiry is neither in the past nor further than
// window from now.
func ValidateExpiry(expiry, now time.Time, window time.Duration) error {
	if expiry.Before(now) {
		return NewExpiredError(expiry, now)
	}
	if limit := now.Add(window); expiry.After(limit) {
		return NewExpiryTooFarError(expiry, limit)
	}
	return nil
}

// ValidateDelegations walks a delegation chain starting at the sender's
// public key and returns the key that must sign the request. Every
// delegation must be signed by the key before it, be valid at now and allow
// calls to target.
func (v *IngressValidator) ValidateDelegations(pubkey []byte, chain []delegation.SignedDelegation, target principal.Principal, now time.Time) ([]byte, error) {
	if len(chain) > v.maxDelegations {
		return nil, NewTooManyDelegationsError(len(chain), v.maxDelegations)
	}

	seen := map[string]struct{}{string(pubkey): {}}
	key := pubkey
	for i, sd := range chain {
		dlg := sd.Delegation
		if dlg.IsExpired(now) {
			return nil, NewDelegationExpiredError(i, dlg.ExpiresAt())
		}
		if len(dlg.Targets) > v.maxTargets {
			return nil, NewTooManyTargetsError(i, len(dlg.Targets), v.maxTargets)
		}
		if !dlg.Allows(target) {
			return nil, NewDelegationTargetError(i, target)
		}

		vfr, err := v.parser.ParseKey(key)
		if err != nil {
			return nil, NewUnsupportedKeyError(err)
		}
		ok, err := delegation.Verify(sd, vfr)
		if err != nil || !ok {
			return nil, NewInvalidSignatureError(fmt.Sprintf("delegation %d", i))
		}

		if _, ok := seen[string(dlg.PubKey)]; ok {
			return nil, NewDelegationCycleError(i)
		}
		seen[string(dlg.PubKey)] = struct{}{}
		key = dlg.PubKey
	}
	return key, nil
}
