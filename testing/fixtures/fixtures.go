package fixtures

import (
	"crypto/sha256"

	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/principal/ed25519/signer"
)

func seeded(name string) principal.Signer {
	seed := sha256.Sum256([]byte(name))
	s, err := signer.FromSeed(seed[:])
	if err != nil {
		panic(err)
	}
	return s
}

var Alice = seeded("alice")

var Bob = seeded("bob")

var Mallory = seeded("mallory")

var Service = seeded("service")

// Canister is an opaque target resource.
var Canister = must(principal.FromBytes([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x00, 0x01, 0x01, 0x01}))

// OtherCanister is a second opaque target resource.
var OtherCanister = must(principal.FromBytes([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x00, 0x02, 0x01, 0x01}))

func must(p principal.Principal, err error) principal.Principal {
	if err != nil {
		panic(err)
	}
	return p
}
