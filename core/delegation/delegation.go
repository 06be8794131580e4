package delegation

import (
	"bytes"
	"fmt"
	"time"

	"github.com/storacha/go-ingress/core/delegation/datamodel"
	"github.com/storacha/go-ingress/core/ipld"
	"github.com/storacha/go-ingress/core/ipld/codec/cbor"
	"github.com/storacha/go-ingress/core/ipld/codec/json"
	"github.com/storacha/go-ingress/core/requestid"
	"github.com/storacha/go-ingress/principal"
)

// DomainSeparator prefixes the hash of a delegation when it is signed.
var DomainSeparator = []byte("\x1Aic-request-auth-delegation")

// Delegation states that the holder of PubKey may act on behalf of the
// delegator until Expiration, optionally only towards Targets.
type Delegation struct {
	// PubKey is the DER encoded public key of the delegate.
	PubKey []byte
	// Expiration in nanoseconds since the Unix epoch.
	Expiration uint64
	// Targets restricts the resources the delegate may call. A nil slice
	// means unrestricted, an empty slice allows no target at all.
	Targets []principal.Principal
}

// SignedDelegation is a [Delegation] with the delegator's signature over it.
type SignedDelegation struct {
	Delegation Delegation
	Signature  []byte
}

// ExpiresAt returns the expiration as a time.
func (d Delegation) ExpiresAt() time.Time {
	return time.Unix(0, int64(d.Expiration))
}

// IsExpired reports whether the delegation is no longer valid at now.
func (d Delegation) IsExpired(now time.Time) bool {
	return d.ExpiresAt().Before(now)
}

// Allows reports whether the delegation permits calls to target.
func (d Delegation) Allows(target principal.Principal) bool {
	if d.Targets == nil {
		return true
	}
	for _, t := range d.Targets {
		if t == target {
			return true
		}
	}
	return false
}

func (d Delegation) Equal(other Delegation) bool {
	if !bytes.Equal(d.PubKey, other.PubKey) || d.Expiration != other.Expiration {
		return false
	}
	if (d.Targets == nil) != (other.Targets == nil) || len(d.Targets) != len(other.Targets) {
		return false
	}
	for i := range d.Targets {
		if d.Targets[i] != other.Targets[i] {
			return false
		}
	}
	return true
}

// Hash is the representation-independent hash of the delegation.
func (d Delegation) Hash() ([]byte, error) {
	model := d.Model()
	nd, err := ipld.WrapWithRecovery(&model, datamodel.DelegationType())
	if err != nil {
		return nil, fmt.Errorf("wrapping delegation: %w", err)
	}
	return requestid.Hash(nd)
}

// SignableBytes returns the bytes a delegator signs to issue the delegation.
func (d Delegation) SignableBytes() ([]byte, error) {
	h, err := d.Hash()
	if err != nil {
		return nil, err
	}
	msg := make([]byte, 0, len(DomainSeparator)+len(h))
	msg = append(msg, DomainSeparator...)
	return append(msg, h...), nil
}

func (d Delegation) Model() datamodel.DelegationModel {
	m := datamodel.DelegationModel{
		Pubkey:     d.PubKey,
		Expiration: d.Expiration,
	}
	if d.Targets != nil {
		targets := make([][]byte, 0, len(d.Targets))
		for _, t := range d.Targets {
			targets = append(targets, t.Bytes())
		}
		m.Targets = &targets
	}
	return m
}

func (sd SignedDelegation) Equal(other SignedDelegation) bool {
	return sd.Delegation.Equal(other.Delegation) && bytes.Equal(sd.Signature, other.Signature)
}

func (sd SignedDelegation) Model() datamodel.SignedDelegationModel {
	return datamodel.SignedDelegationModel{
		Delegation: sd.Delegation.Model(),
		Signature:  sd.Signature,
	}
}

func FromModel(m datamodel.DelegationModel) (Delegation, error) {
	d := Delegation{PubKey: m.Pubkey, Expiration: m.Expiration}
	if m.Targets != nil {
		d.Targets = make([]principal.Principal, 0, len(*m.Targets))
		for _, b := range *m.Targets {
			t, err := principal.FromBytes(b)
			if err != nil {
				return Delegation{}, fmt.Errorf("decoding delegation target: %w", err)
			}
			d.Targets = append(d.Targets, t)
		}
	}
	return d, nil
}

func FromSignedModel(m datamodel.SignedDelegationModel) (SignedDelegation, error) {
	d, err := FromModel(m.Delegation)
	if err != nil {
		return SignedDelegation{}, err
	}
	return SignedDelegation{Delegation: d, Signature: m.Signature}, nil
}

// Clone returns a deep copy of a delegation chain. A nil chain stays nil.
func Clone(chain []SignedDelegation) []SignedDelegation {
	if chain == nil {
		return nil
	}
	out := make([]SignedDelegation, 0, len(chain))
	for _, sd := range chain {
		d := sd.Delegation
		c := SignedDelegation{
			Delegation: Delegation{
				PubKey:     bytes.Clone(d.PubKey),
				Expiration: d.Expiration,
			},
			Signature: bytes.Clone(sd.Signature),
		}
		if d.Targets != nil {
			c.Delegation.Targets = append(make([]principal.Principal, 0, len(d.Targets)), d.Targets...)
		}
		out = append(out, c)
	}
	return out
}

// Encode encodes a delegation as dag-cbor.
func Encode(d Delegation) ([]byte, error) {
	m := d.Model()
	return cbor.Encode(&m, datamodel.DelegationType())
}

// Decode decodes a dag-cbor encoded delegation.
func Decode(b []byte) (Delegation, error) {
	var m datamodel.DelegationModel
	if err := cbor.Decode(b, &m, datamodel.DelegationType()); err != nil {
		return Delegation{}, fmt.Errorf("decoding delegation: %w", err)
	}
	return FromModel(m)
}

// EncodeSigned encodes a signed delegation as dag-cbor.
func EncodeSigned(sd SignedDelegation) ([]byte, error) {
	m := sd.Model()
	return cbor.Encode(&m, datamodel.SignedDelegationType())
}

// DecodeSigned decodes a dag-cbor encoded signed delegation.
func DecodeSigned(b []byte) (SignedDelegation, error) {
	var m datamodel.SignedDelegationModel
	if err := cbor.Decode(b, &m, datamodel.SignedDelegationType()); err != nil {
		return SignedDelegation{}, fmt.Errorf("decoding signed delegation: %w", err)
	}
	return FromSignedModel(m)
}

func (d Delegation) MarshalJSON() ([]byte, error) {
	m := d.Model()
	return json.Encode(&m, datamodel.DelegationType())
}

func (d *Delegation) UnmarshalJSON(b []byte) error {
	var m datamodel.DelegationModel
	if err := json.Decode(b, &m, datamodel.DelegationType()); err != nil {
		return fmt.Errorf("decoding delegation: %w", err)
	}
	out, err := FromModel(m)
	if err != nil {
		return err
	}
	*d = out
	return nil
}

func (sd SignedDelegation) MarshalJSON() ([]byte, error) {
	m := sd.Model()
	return json.Encode(&m, datamodel.SignedDelegationType())
}

func (sd *SignedDelegation) UnmarshalJSON(b []byte) error {
	var m datamodel.SignedDelegationModel
	if err := json.Decode(b, &m, datamodel.SignedDelegationType()); err != nil {
		return fmt.Errorf("decoding signed delegation: %w", err)
	}
	out, err := FromSignedModel(m)
	if err != nil {
		return err
	}
	*sd = out
	return nil
}
