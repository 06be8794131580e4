package verifier

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"fmt"

	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-ingress/principal"
)

const Code = uint64(multicodec.Ed25519Pub)
const Name = "Ed25519"

const keySize = ed25519.PublicKeySize

// derPrefix is the SubjectPublicKeyInfo header of an Ed25519 key
// (OID 1.3.101.112).
var derPrefix = []byte{0x30, 0x2a, 0x30, 0x05, 0x06, 0x03, 0x2b, 0x65, 0x70, 0x03, 0x21, 0x00}

// Decode a DER encoded SubjectPublicKeyInfo.
func Decode(der []byte) (principal.Verifier, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	edpub, ok := pub.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an %s public key: %T", Name, pub)
	}
	return FromRaw(edpub)
}

// FromRaw creates a verifier from a raw 32 byte public key.
func FromRaw(b []byte) (principal.Verifier, error) {
	if len(b) != keySize {
		return nil, fmt.Errorf("invalid length: %d wanted: %d", len(b), keySize)
	}
	v := make(Ed25519Verifier, keySize)
	copy(v, b)
	return v, nil
}

// IsDER reports whether der looks like an Ed25519 SubjectPublicKeyInfo.
func IsDER(der []byte) bool {
	return len(der) == len(derPrefix)+keySize && bytes.HasPrefix(der, derPrefix)
}

type Ed25519Verifier []byte

func (v Ed25519Verifier) Code() uint64 {
	return Code
}

func (v Ed25519Verifier) Verify(msg []byte, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(v), msg, sig)
}

func (v Ed25519Verifier) Principal() principal.Principal {
	return principal.SelfAuthenticating(v.Encode())
}

func (v Ed25519Verifier) Encode() []byte {
	der := make([]byte, 0, len(derPrefix)+keySize)
	der = append(der, derPrefix...)
	return append(der, v...)
}

func (v Ed25519Verifier) Raw() []byte {
	return v
}
