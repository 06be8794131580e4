package signer

import (
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/storacha/go-ingress/principal"
	ed25519 "github.com/storacha/go-ingress/principal/ed25519/signer"
	"github.com/storacha/go-ingress/principal/multiformat"
	p256 "github.com/storacha/go-ingress/principal/p256/signer"
)

// Decode decodes a multiformat encoded signer back to the appropriate
// implementation (Ed25519 or P-256) based on the codec prefix.
func Decode(encoded []byte) (principal.Signer, error) {
	code, _, err := multiformat.Untag(encoded)
	if err != nil {
		return nil, fmt.Errorf("reading signer codec: %w", err)
	}

	switch code {
	case ed25519.Code:
		return ed25519.Decode(encoded)
	case p256.Code:
		return p256.Decode(encoded)
	default:
		return nil, fmt.Errorf("unsupported signer codec: 0x%x", code)
	}
}

// Parse decodes a multibase encoded signer of any supported key type.
func Parse(str string) (principal.Signer, error) {
	_, bytes, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Decode(bytes)
}
