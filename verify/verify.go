// Package verify checks that a signature authorizes a message.
package verify

import (
	"context"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-ingress/core/envelope"
	"github.com/storacha/go-ingress/core/message"
	"github.com/storacha/go-ingress/core/signature"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/validator"
)

var log = logging.Logger("ingress/verify")

// Option is an option configuring verification.
type Option func(cfg *verifyConfig) error

type verifyConfig struct {
	validator validator.Validator
	cache     Cache
}

// WithValidator configures the validator that checks the rebuilt request.
// The default is an [validator.IngressValidator] with default settings.
func WithValidator(v validator.Validator) Option {
	return func(cfg *verifyConfig) error {
		if v == nil {
			return fmt.Errorf("nil validator")
		}
		cfg.validator = v
		return nil
	}
}

// WithCache configures a cache of verified requests. A request found in the
// cache is not validated again.
func WithCache(c Cache) Option {
	return func(cfg *verifyConfig) error {
		cfg.cache = c
		return nil
	}
}

// Verify checks that sig authorizes msg. The sender and ingress expiry
// recorded in the signature replace those of the message.
func Verify(ctx context.Context, sig signature.Signature, msg message.Message, options ...Option) error {
	return verify(ctx, sig, nil, msg, options)
}

// VerifyIdentity is like [Verify] but additionally requires the signature to
// have been produced for expected. A mismatch fails with an
// [IdentityMismatchError] without running the validator.
func VerifyIdentity(ctx context.Context, sig signature.Signature, expected principal.Principal, msg message.Message, options ...Option) error {
	return verify(ctx, sig, &expected, msg, options)
}

func verify(ctx context.Context, sig signature.Signature, expected *principal.Principal, msg message.Message, options []Option) error {
	cfg := verifyConfig{}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return err
		}
	}
	if cfg.validator == nil {
		v, err := validator.NewIngressValidator()
		if err != nil {
			return err
		}
		cfg.validator = v
	}

	env, err := envelope.New(msg, sig)
	if err != nil {
		return err
	}
	req, err := envelope.Parse(env)
	if err != nil {
		return err
	}

	if expected != nil && req.Sender() != *expected {
		log.Debugw("identity mismatch", "id", req.ID(), "expected", *expected, "actual", req.Sender())
		return NewIdentityMismatchError(*expected, req.Sender())
	}

	var key string
	if cfg.cache != nil {
		link, err := sig.Link()
		if err != nil {
			return err
		}
		key = fmt.Sprintf("%s/%s", req.ID(), link)
		ok, err := cfg.cache.Has(ctx, key)
		if err != nil {
			log.Warnw("reading verification cache", "error", err)
		} else if ok {
			return nil
		}
	}

	if err := cfg.validator.Validate(ctx, req); err != nil {
		return NewSignatureVerificationError(err)
	}

	if cfg.cache != nil {
		if err := cfg.cache.Put(ctx, key, validUntil(req)); err != nil {
			log.Warnw("writing verification cache", "error", err)
		}
	}
	return nil
}

// validUntil is the earliest of the request expiry and the expiries of its
// delegations.
func validUntil(req envelope.Request) time.Time {
	exp := req.ExpiresAt()
	for _, sd := range req.Delegations() {
		if at := sd.Delegation.ExpiresAt(); at.Before(exp) {
			exp = at
		}
	}
	return exp
}
