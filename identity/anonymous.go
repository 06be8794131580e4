package identity

import (
	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/principal"
)

type anonymous struct{}

func (anonymous) Sender() (principal.Principal, error) {
	return principal.Anonymous, nil
}

func (anonymous) Sign(msg []byte) ([]byte, []byte, error) {
	return nil, nil, nil
}

func (anonymous) DelegationChain() []delegation.SignedDelegation {
	return nil
}

// Anonymous creates an identity that produces absent signatures and sends as
// the anonymous principal.
func Anonymous() Identity {
	return anonymous{}
}
