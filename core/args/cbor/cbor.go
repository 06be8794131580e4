// Package cbor encodes call arguments as a deterministic CBOR array.
package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var Codec = mustCodec()

func mustCodec() codec {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Errorf("creating CBOR encoder: %w", err))
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Errorf("creating CBOR decoder: %w", err))
	}
	return codec{enc, dec}
}

// Encode serializes the arguments as a CBOR array. Zero arguments encode to
// an empty array.
func (c codec) Encode(args ...any) ([]byte, error) {
	if args == nil {
		args = []any{}
	}
	b, err := c.enc.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding arguments: %w", err)
	}
	return b, nil
}

// Decode deserializes a CBOR array into the passed pointers. The number of
// pointers must match the number of encoded arguments.
func (c codec) Decode(payload []byte, args ...any) error {
	var raw []cbor.RawMessage
	if err := c.dec.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	if len(raw) != len(args) {
		return fmt.Errorf("decoding arguments: got %d values, want %d", len(raw), len(args))
	}
	for i, r := range raw {
		if err := c.dec.Unmarshal(r, args[i]); err != nil {
			return fmt.Errorf("decoding argument %d: %w", i, err)
		}
	}
	return nil
}
