package verifier

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/x509"
	"fmt"

	"github.com/storacha/go-ingress/principal"
	edverifier "github.com/storacha/go-ingress/principal/ed25519/verifier"
	p256verifier "github.com/storacha/go-ingress/principal/p256/verifier"
)

// Decode parses a DER encoded SubjectPublicKeyInfo into a verifier of the
// matching key type.
func Decode(der []byte) (principal.Verifier, error) {
	if edverifier.IsDER(der) {
		return edverifier.Decode(der)
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	switch key := pub.(type) {
	case ed25519.PublicKey:
		return edverifier.FromRaw(key)
	case *ecdsa.PublicKey:
		if key.Curve != elliptic.P256() {
			return nil, fmt.Errorf("unsupported ECDSA curve: %s", key.Curve.Params().Name)
		}
		return p256verifier.FromPublicKey(key)
	default:
		return nil, fmt.Errorf("unsupported public key type: %T", pub)
	}
}
