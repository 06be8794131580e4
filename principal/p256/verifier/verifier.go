package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
	"math/big"

	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-ingress/principal"
)

const Code = uint64(multicodec.P256Pub)
const Name = "P-256"

// SignatureSize is the size of a raw r || s signature.
const SignatureSize = 64

// Decode a DER encoded SubjectPublicKeyInfo.
func Decode(der []byte) (principal.Verifier, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	ecpub, ok := pub.(*ecdsa.PublicKey)
	if !ok || ecpub.Curve != elliptic.P256() {
		return nil, fmt.Errorf("not a %s public key: %T", Name, pub)
	}
	return FromPublicKey(ecpub)
}

// FromPublicKey creates a verifier from an ECDSA P-256 public key.
func FromPublicKey(pub *ecdsa.PublicKey) (principal.Verifier, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("encoding public key: %w", err)
	}
	return p256verifier{der: der, pubKey: pub}, nil
}

type p256verifier struct {
	der    []byte
	pubKey *ecdsa.PublicKey
}

func (v p256verifier) Code() uint64 {
	return Code
}

func (v p256verifier) Verify(msg []byte, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	digest := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(sig[:SignatureSize/2])
	s := new(big.Int).SetBytes(sig[SignatureSize/2:])
	return ecdsa.Verify(v.pubKey, digest[:], r, s)
}

func (v p256verifier) Principal() principal.Principal {
	return principal.SelfAuthenticating(v.der)
}

func (v p256verifier) Encode() []byte {
	return v.der
}

// Raw returns the uncompressed SEC 1 point.
func (v p256verifier) Raw() []byte {
	pub, err := v.pubKey.ECDH()
	if err != nil {
		return nil
	}
	return pub.Bytes()
}
