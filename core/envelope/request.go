package envelope

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/core/requestid"
	"github.com/storacha/go-ingress/principal"
)

// Request is a structurally valid envelope together with its request ID.
// Its signatures have not been checked.
type Request struct {
	envelope Envelope
	id       requestid.RequestID
}

// Parse checks the structure of an envelope and computes its request ID. It
// fails with an [InvalidMessageError].
func Parse(e Envelope) (Request, error) {
	c := e.Content
	if c.RequestType != RequestTypeCall {
		return Request{}, NewInvalidMessageError(fmt.Sprintf("unsupported request type %q", c.RequestType))
	}
	if c.IngressExpiry > math.MaxInt64 {
		return Request{}, NewInvalidMessageError("ingress expiry out of range")
	}
	if len(c.Nonce) > MaxNonceSize {
		return Request{}, NewInvalidMessageError(fmt.Sprintf("nonce is %d bytes, maximum is %d", len(c.Nonce), MaxNonceSize))
	}
	if (e.SenderPubKey == nil) != (e.SenderSig == nil) {
		return Request{}, NewInvalidMessageError("sender_pubkey and sender_sig must be present together")
	}
	if e.SenderDelegation != nil && e.SenderPubKey == nil {
		return Request{}, NewInvalidMessageError("sender_delegation requires sender_pubkey")
	}
	for i, sd := range e.SenderDelegation {
		if len(sd.Delegation.PubKey) == 0 {
			return Request{}, NewInvalidMessageError(fmt.Sprintf("delegation %d has no public key", i))
		}
		if sd.Delegation.Expiration > math.MaxInt64 {
			return Request{}, NewInvalidMessageError(fmt.Sprintf("delegation %d expiration out of range", i))
		}
	}
	id, err := c.RequestID()
	if err != nil {
		return Request{}, err
	}
	return Request{envelope: e, id: id}, nil
}

// ID is the request ID of the content.
func (r Request) ID() requestid.RequestID {
	return r.id
}

// SignableBytes returns the bytes the sender signature must cover.
func (r Request) SignableBytes() []byte {
	return SignableBytes(r.id)
}

func (r Request) Sender() principal.Principal {
	return r.envelope.Content.Sender
}

func (r Request) CanisterID() principal.Principal {
	return r.envelope.Content.CanisterID
}

func (r Request) MethodName() string {
	return r.envelope.Content.MethodName
}

func (r Request) Arg() []byte {
	return bytes.Clone(r.envelope.Content.Arg)
}

func (r Request) Nonce() []byte {
	return bytes.Clone(r.envelope.Content.Nonce)
}

// IngressExpiry is the expiry as a duration since the Unix epoch.
func (r Request) IngressExpiry() time.Duration {
	return time.Duration(r.envelope.Content.IngressExpiry)
}

func (r Request) ExpiresAt() time.Time {
	return r.envelope.Content.ExpiresAt()
}

// SenderPubKey is the DER public key of the sender, or nil for anonymous
// requests.
func (r Request) SenderPubKey() []byte {
	return bytes.Clone(r.envelope.SenderPubKey)
}

func (r Request) SenderSig() []byte {
	return bytes.Clone(r.envelope.SenderSig)
}

// Delegations returns the delegation chain, root delegator first, or nil.
func (r Request) Delegations() []delegation.SignedDelegation {
	return delegation.Clone(r.envelope.SenderDelegation)
}

// Envelope returns a copy of the parsed envelope.
func (r Request) Envelope() Envelope {
	e := r.envelope
	e.Content.Arg = bytes.Clone(e.Content.Arg)
	e.Content.Nonce = bytes.Clone(e.Content.Nonce)
	e.SenderPubKey = bytes.Clone(e.SenderPubKey)
	e.SenderSig = bytes.Clone(e.SenderSig)
	e.SenderDelegation = delegation.Clone(e.SenderDelegation)
	return e
}
