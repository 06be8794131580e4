package signer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/principal/multiformat"
	"github.com/storacha/go-ingress/principal/p256/verifier"
)

const Code = uint64(multicodec.P256Priv)
const Name = verifier.Name

func Generate() (principal.Signer, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating %s key: %w", Name, err)
	}
	return FromPrivateKey(priv)
}

// FromPrivateKey creates a signer from an ECDSA P-256 private key.
func FromPrivateKey(priv *ecdsa.PrivateKey) (principal.Signer, error) {
	if priv.Curve != elliptic.P256() {
		return nil, fmt.Errorf("not a %s private key", Name)
	}
	der, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("encoding private key: %w", err)
	}
	verif, err := verifier.FromPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return p256signer{bytes: multiformat.TagWith(Code, der), privKey: priv, verifier: verif}, nil
}

func Parse(str string) (principal.Signer, error) {
	_, bytes, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Decode(bytes)
}

func Format(signer principal.Signer) (string, error) {
	return multibase.Encode(multibase.Base64pad, signer.Encode())
}

func Decode(b []byte) (principal.Signer, error) {
	utb, err := multiformat.UntagWith(Code, b, 0)
	if err != nil {
		return nil, err
	}
	priv, err := x509.ParseECPrivateKey(utb)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return FromPrivateKey(priv)
}

type p256signer struct {
	bytes    []byte
	privKey  *ecdsa.PrivateKey
	verifier principal.Verifier
}

func (s p256signer) Code() uint64 {
	return Code
}

func (s p256signer) Verifier() principal.Verifier {
	return s.verifier
}

func (s p256signer) Principal() principal.Principal {
	return s.verifier.Principal()
}

func (s p256signer) Encode() []byte {
	return s.bytes
}

// Sign produces a raw r || s signature over the SHA-256 digest of msg.
func (s p256signer) Sign(msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	r, ss, err := ecdsa.Sign(rand.Reader, s.privKey, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing: %w", err)
	}
	sig := make([]byte, verifier.SignatureSize)
	r.FillBytes(sig[:verifier.SignatureSize/2])
	ss.FillBytes(sig[verifier.SignatureSize/2:])
	return sig, nil
}
