package envelope

import (
	"bytes"

	"github.com/storacha/go-ingress/core/envelope/datamodel"
	"github.com/storacha/go-ingress/core/ipld/codec/cbor"
)

// SelfDescribeTag is the CBOR self-describe tag (55799) written in front of
// every encoded envelope.
var SelfDescribeTag = []byte{0xd9, 0xd9, 0xf7}

// Encode encodes an envelope as CBOR prefixed with the self-describe tag.
func Encode(e Envelope) ([]byte, error) {
	m := e.Model()
	b, err := cbor.Encode(&m, datamodel.EnvelopeType())
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, SelfDescribeTag...), b...), nil
}

// Decode decodes a CBOR encoded envelope. The self-describe tag is optional.
func Decode(b []byte) (Envelope, error) {
	var m datamodel.EnvelopeModel
	if err := cbor.Decode(bytes.TrimPrefix(b, SelfDescribeTag), &m, datamodel.EnvelopeType()); err != nil {
		return Envelope{}, invalidMessage("malformed envelope", err)
	}
	return FromModel(m)
}
