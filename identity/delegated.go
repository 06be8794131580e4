package identity

import (
	"bytes"
	"fmt"

	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/principal/verifier"
)

type delegated struct {
	root  []byte
	inner Identity
	chain []delegation.SignedDelegation
}

func (d delegated) Sender() (principal.Principal, error) {
	return principal.SelfAuthenticating(d.root), nil
}

func (d delegated) Sign(msg []byte) ([]byte, []byte, error) {
	sig, _, err := d.inner.Sign(msg)
	if err != nil {
		return nil, nil, err
	}
	return sig, bytes.Clone(d.root), nil
}

func (d delegated) DelegationChain() []delegation.SignedDelegation {
	chain := delegation.Clone(d.chain)
	return append(chain, d.inner.DelegationChain()...)
}

// Delegated creates an identity that sends as the holder of the DER encoded
// root public key while signing with inner. The chain must lead from the
// root key to the key of inner, root delegator first. Every link is checked
// at construction.
func Delegated(root []byte, inner Identity, chain []delegation.SignedDelegation) (Identity, error) {
	key := root
	for i, sd := range chain {
		v, err := verifier.Decode(key)
		if err != nil {
			return nil, fmt.Errorf("decoding key of delegator %d: %w", i, err)
		}
		ok, err := delegation.Verify(sd, v)
		if err != nil {
			return nil, fmt.Errorf("verifying delegation %d: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("delegation %d is not signed by the previous key", i)
		}
		key = sd.Delegation.PubKey
	}
	return delegated{bytes.Clone(root), inner, delegation.Clone(chain)}, nil
}

