package signer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/principal/ed25519/verifier"
)

const Code = uint64(multicodec.Ed25519Priv)
const Name = verifier.Name

var privateTagSize = varint.UvarintSize(Code)
var publicTagSize = varint.UvarintSize(verifier.Code)

const keySize = 32

var size = privateTagSize + keySize + publicTagSize + keySize
var pubKeyOffset = privateTagSize + keySize

func Generate() (principal.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating Ed25519 key: %w", err)
	}
	return FromSeed(priv.Seed())
}

// FromSeed deterministically derives a signer from a 32 byte seed.
func FromSeed(seed []byte) (principal.Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length: %d wanted: %d", len(seed), ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	s := make(Ed25519Signer, size)
	varint.PutUvarint(s, Code)
	copy(s[privateTagSize:], seed)
	varint.PutUvarint(s[pubKeyOffset:], verifier.Code)
	copy(s[pubKeyOffset+publicTagSize:], pub)
	return s, nil
}

// Parse a multibase encoded signer, as produced by [Format].
func Parse(str string) (principal.Signer, error) {
	_, bytes, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Decode(bytes)
}

// Format encodes the signer as a base64 multibase string.
func Format(signer principal.Signer) (string, error) {
	return multibase.Encode(multibase.Base64pad, signer.Encode())
}

func Decode(b []byte) (principal.Signer, error) {
	if len(b) != size {
		return nil, fmt.Errorf("invalid length: %d wanted: %d", len(b), size)
	}

	prc, err := varint.ReadUvarint(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("reading private key codec: %w", err)
	}
	if prc != Code {
		return nil, fmt.Errorf("invalid private key codec: %d", prc)
	}

	puc, err := varint.ReadUvarint(bytes.NewReader(b[pubKeyOffset:]))
	if err != nil {
		return nil, fmt.Errorf("reading public key codec: %w", err)
	}
	if puc != verifier.Code {
		return nil, fmt.Errorf("invalid public key codec: %d", puc)
	}

	s, err := FromSeed(b[privateTagSize:pubKeyOffset])
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(s.Encode(), b) {
		return nil, fmt.Errorf("public key does not match private key")
	}
	return s, nil
}

type Ed25519Signer []byte

func (s Ed25519Signer) Code() uint64 {
	return Code
}

func (s Ed25519Signer) Verifier() principal.Verifier {
	return verifier.Ed25519Verifier(s[pubKeyOffset+publicTagSize:])
}

func (s Ed25519Signer) Principal() principal.Principal {
	return s.Verifier().Principal()
}

func (s Ed25519Signer) Encode() []byte {
	return s
}

// Raw returns the private key in the form used by crypto/ed25519.
func (s Ed25519Signer) Raw() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(s[privateTagSize:pubKeyOffset])
}

func (s Ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.Raw(), msg), nil
}
