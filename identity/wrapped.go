package identity

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/core/envelope"
	"github.com/storacha/go-ingress/core/message"
	"github.com/storacha/go-ingress/core/signature"
	"github.com/storacha/go-ingress/principal"
)

var log = logging.Logger("ingress/identity")

// Wrapped signs messages with an identity. The delegation chain is read once
// when the identity is wrapped. A Wrapped is safe for concurrent use.
type Wrapped struct {
	identity Identity
	chain    []delegation.SignedDelegation
}

// Wrap wraps an identity. An empty delegation chain is recorded as absent.
func Wrap(id Identity) *Wrapped {
	chain := delegation.Clone(id.DelegationChain())
	if len(chain) == 0 {
		chain = nil
	}
	return &Wrapped{identity: id, chain: chain}
}

func (w *Wrapped) Identity() Identity {
	return w.identity
}

// Sender resolves the principal of the wrapped identity.
func (w *Wrapped) Sender() (principal.Principal, error) {
	sender, err := w.identity.Sender()
	if err != nil {
		return principal.Principal{}, NewSenderNotFoundError(err)
	}
	return sender, nil
}

// DelegationChain returns a copy of the chain attached to every signature.
func (w *Wrapped) DelegationChain() []delegation.SignedDelegation {
	return delegation.Clone(w.chain)
}

// SignMessage signs msg as the wrapped identity. The sender of the message
// is replaced with the identity's principal before the request ID is
// computed.
func (w *Wrapped) SignMessage(msg message.Message) (signature.Signature, error) {
	sender, err := w.Sender()
	if err != nil {
		log.Debugw("resolving sender", "error", err)
		return signature.Signature{}, err
	}
	msg = msg.WithSender(sender)

	content, err := envelope.NewContent(msg)
	if err != nil {
		return signature.Signature{}, err
	}
	payload, err := content.SignableBytes()
	if err != nil {
		return signature.Signature{}, err
	}

	sig, pubkey, err := w.identity.Sign(payload)
	if err != nil {
		log.Debugw("signing request", "sender", sender, "error", err)
		return signature.Signature{}, NewSigningError(err)
	}

	return signature.Signature{
		Sig:           sig,
		PublicKey:     pubkey,
		Delegations:   delegation.Clone(w.chain),
		Sender:        sender,
		IngressExpiry: msg.IngressExpiry(),
	}, nil
}
