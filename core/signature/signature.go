// Package signature holds the canonical signed-request proof produced by an
// identity and consumed by verification.
package signature

import (
	"bytes"
	"fmt"
	"time"

	"github.com/storacha/go-ingress/core/delegation"
	ddm "github.com/storacha/go-ingress/core/delegation/datamodel"
	"github.com/storacha/go-ingress/core/ipld"
	"github.com/storacha/go-ingress/core/ipld/block"
	"github.com/storacha/go-ingress/core/ipld/codec/cbor"
	"github.com/storacha/go-ingress/core/ipld/codec/json"
	"github.com/storacha/go-ingress/core/ipld/hash/sha256"
	"github.com/storacha/go-ingress/core/signature/datamodel"
	"github.com/storacha/go-ingress/principal"
)

// Signature is the proof that a sender authorized a message. Sig and
// PublicKey are nil for anonymous senders. A nil Delegations means the
// signing key is the sender's own key; an empty non-nil chain is kept
// distinct in the serialized form.
type Signature struct {
	Sig           []byte
	PublicKey     []byte
	Delegations   []delegation.SignedDelegation
	Sender        principal.Principal
	IngressExpiry time.Duration
}

func (s Signature) Equal(other Signature) bool {
	if !equalOptional(s.Sig, other.Sig) || !equalOptional(s.PublicKey, other.PublicKey) {
		return false
	}
	if s.Sender != other.Sender || s.IngressExpiry != other.IngressExpiry {
		return false
	}
	if (s.Delegations == nil) != (other.Delegations == nil) || len(s.Delegations) != len(other.Delegations) {
		return false
	}
	for i := range s.Delegations {
		if !s.Delegations[i].Equal(other.Delegations[i]) {
			return false
		}
	}
	return true
}

func equalOptional(a, b []byte) bool {
	return (a == nil) == (b == nil) && bytes.Equal(a, b)
}

// Link returns the content address of the dag-cbor encoded signature.
func (s Signature) Link() (ipld.Link, error) {
	m := s.Model()
	blk, err := block.Encode(&m, datamodel.SignatureType(), cbor.Codec, sha256.Hasher)
	if err != nil {
		return nil, err
	}
	return blk.Link(), nil
}

func (s Signature) Model() datamodel.SignatureModel {
	m := datamodel.SignatureModel{
		Sender:        s.Sender.Bytes(),
		IngressExpiry: int64(s.IngressExpiry),
	}
	if s.Sig != nil {
		sig := s.Sig
		m.Sig = &sig
	}
	if s.PublicKey != nil {
		pk := s.PublicKey
		m.PublicKey = &pk
	}
	if s.Delegations != nil {
		dlgs := make([]ddm.SignedDelegationModel, 0, len(s.Delegations))
		for _, sd := range s.Delegations {
			dlgs = append(dlgs, sd.Model())
		}
		m.Delegations = &dlgs
	}
	return m
}

func FromModel(m datamodel.SignatureModel) (Signature, error) {
	sender, err := principal.FromBytes(m.Sender)
	if err != nil {
		return Signature{}, fmt.Errorf("decoding sender: %w", err)
	}
	s := Signature{Sender: sender, IngressExpiry: time.Duration(m.IngressExpiry)}
	if m.Sig != nil {
		s.Sig = append([]byte{}, (*m.Sig)...)
	}
	if m.PublicKey != nil {
		s.PublicKey = append([]byte{}, (*m.PublicKey)...)
	}
	if m.Delegations != nil {
		s.Delegations = make([]delegation.SignedDelegation, 0, len(*m.Delegations))
		for _, dm := range *m.Delegations {
			sd, err := delegation.FromSignedModel(dm)
			if err != nil {
				return Signature{}, err
			}
			s.Delegations = append(s.Delegations, sd)
		}
	}
	return s, nil
}

// Encode encodes a signature as dag-cbor.
func Encode(s Signature) ([]byte, error) {
	m := s.Model()
	return cbor.Encode(&m, datamodel.SignatureType())
}

// Decode decodes a dag-cbor encoded signature.
func Decode(b []byte) (Signature, error) {
	var m datamodel.SignatureModel
	if err := cbor.Decode(b, &m, datamodel.SignatureType()); err != nil {
		return Signature{}, fmt.Errorf("decoding signature: %w", err)
	}
	return FromModel(m)
}

// EncodeJSON encodes a signature as dag-json.
func EncodeJSON(s Signature) ([]byte, error) {
	m := s.Model()
	return json.Encode(&m, datamodel.SignatureType())
}

// DecodeJSON decodes a dag-json encoded signature.
func DecodeJSON(b []byte) (Signature, error) {
	var m datamodel.SignatureModel
	if err := json.Decode(b, &m, datamodel.SignatureType()); err != nil {
		return Signature{}, fmt.Errorf("decoding signature: %w", err)
	}
	return FromModel(m)
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return EncodeJSON(s)
}

func (s *Signature) UnmarshalJSON(b []byte) error {
	out, err := DecodeJSON(b)
	if err != nil {
		return err
	}
	*s = out
	return nil
}
