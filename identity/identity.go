// Package identity signs messages on behalf of a sender, attaching the
// delegation chain that authorizes the signing key.
package identity

import (
	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/principal"
)

// Identity is a signing capability.
type Identity interface {
	// Sender returns the principal requests are sent as.
	Sender() (principal.Principal, error)
	// Sign signs msg and returns the signature together with the DER public
	// key it verifies against. Both are nil for anonymous identities.
	Sign(msg []byte) (sig []byte, pubkey []byte, err error)
	// DelegationChain returns the delegations from the sender's key to the
	// signing key, root delegator first.
	DelegationChain() []delegation.SignedDelegation
}

type basic struct {
	signer principal.Signer
}

func (b basic) Sender() (principal.Principal, error) {
	return b.signer.Principal(), nil
}

func (b basic) Sign(msg []byte) ([]byte, []byte, error) {
	sig, err := b.signer.Sign(msg)
	if err != nil {
		return nil, nil, err
	}
	return sig, b.signer.Verifier().Encode(), nil
}

func (b basic) DelegationChain() []delegation.SignedDelegation {
	return nil
}

// Basic creates an identity that signs with the passed key and sends as its
// self-authenticating principal.
func Basic(signer principal.Signer) Identity {
	return basic{signer}
}
