// Package envelope builds the canonical request envelope that binds a
// message to its signature, and computes the request ID that is signed.
package envelope

import (
	"bytes"
	"time"

	"github.com/storacha/go-ingress/core/delegation"
	ddm "github.com/storacha/go-ingress/core/delegation/datamodel"
	"github.com/storacha/go-ingress/core/envelope/datamodel"
	"github.com/storacha/go-ingress/core/ipld"
	"github.com/storacha/go-ingress/core/message"
	"github.com/storacha/go-ingress/core/requestid"
	"github.com/storacha/go-ingress/core/signature"
	"github.com/storacha/go-ingress/principal"
)

// RequestTypeCall is the request type of an update call.
const RequestTypeCall = "call"

// MaxNonceSize is the maximum length of a nonce in bytes.
const MaxNonceSize = 32

// DomainSeparator prefixes the request ID when a request is signed.
var DomainSeparator = []byte("\x0Aic-request")

// Content is the signed part of a request.
type Content struct {
	RequestType   string
	CanisterID    principal.Principal
	MethodName    string
	Arg           []byte
	Sender        principal.Principal
	IngressExpiry uint64
	// Nonce is nil when absent.
	Nonce []byte
}

// Envelope carries the content with the sender's authentication.
type Envelope struct {
	Content          Content
	SenderPubKey     []byte
	SenderSig        []byte
	SenderDelegation []delegation.SignedDelegation
}

// NewContent builds the content of a call from a message. It fails with an
// [InvalidMessageError] if the ingress expiry is negative.
func NewContent(msg message.Message) (Content, error) {
	expiry := msg.IngressExpiry()
	if expiry < 0 {
		return Content{}, NewInvalidMessageError("negative ingress expiry")
	}
	return Content{
		RequestType:   RequestTypeCall,
		CanisterID:    msg.Target(),
		MethodName:    msg.MethodName(),
		Arg:           msg.Args(),
		Sender:        msg.Sender(),
		IngressExpiry: uint64(expiry),
		Nonce:         msg.Nonce(),
	}, nil
}

// New builds the envelope of a signed message. The sender and ingress expiry
// recorded in the signature take precedence over those of the message.
func New(msg message.Message, sig signature.Signature) (Envelope, error) {
	msg = msg.WithSender(sig.Sender).WithIngressExpiry(sig.IngressExpiry)
	content, err := NewContent(msg)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Content:          content,
		SenderPubKey:     bytes.Clone(sig.PublicKey),
		SenderSig:        bytes.Clone(sig.Sig),
		SenderDelegation: delegation.Clone(sig.Delegations),
	}, nil
}

// ExpiresAt returns the ingress expiry as a time.
func (c Content) ExpiresAt() time.Time {
	return time.Unix(0, int64(c.IngressExpiry))
}

// RequestID computes the representation-independent hash of the content.
func (c Content) RequestID() (requestid.RequestID, error) {
	m := c.Model()
	nd, err := ipld.WrapWithRecovery(&m, datamodel.ContentType())
	if err != nil {
		return requestid.RequestID{}, invalidMessage("content cannot be represented", err)
	}
	return requestid.Of(nd)
}

// SignableBytes returns the bytes signed by the sender of the content.
func (c Content) SignableBytes() ([]byte, error) {
	id, err := c.RequestID()
	if err != nil {
		return nil, err
	}
	return SignableBytes(id), nil
}

// SignableBytes prefixes a request ID with the request domain separator.
func SignableBytes(id requestid.RequestID) []byte {
	msg := make([]byte, 0, len(DomainSeparator)+len(id))
	msg = append(msg, DomainSeparator...)
	return append(msg, id[:]...)
}

func (c Content) Model() datamodel.ContentModel {
	m := datamodel.ContentModel{
		RequestType:   c.RequestType,
		CanisterID:    c.CanisterID.Bytes(),
		MethodName:    c.MethodName,
		Arg:           c.Arg,
		Sender:        c.Sender.Bytes(),
		IngressExpiry: c.IngressExpiry,
	}
	if m.Arg == nil {
		m.Arg = []byte{}
	}
	if c.Nonce != nil {
		nonce := c.Nonce
		m.Nonce = &nonce
	}
	return m
}

func (e Envelope) Model() datamodel.EnvelopeModel {
	m := datamodel.EnvelopeModel{Content: e.Content.Model()}
	if e.SenderPubKey != nil {
		pk := e.SenderPubKey
		m.SenderPubkey = &pk
	}
	if e.SenderSig != nil {
		sig := e.SenderSig
		m.SenderSig = &sig
	}
	if e.SenderDelegation != nil {
		dlgs := make([]ddm.SignedDelegationModel, 0, len(e.SenderDelegation))
		for _, sd := range e.SenderDelegation {
			dlgs = append(dlgs, sd.Model())
		}
		m.SenderDelegation = &dlgs
	}
	return m
}

func ContentFromModel(m datamodel.ContentModel) (Content, error) {
	canister, err := principal.FromBytes(m.CanisterID)
	if err != nil {
		return Content{}, invalidMessage("invalid canister id", err)
	}
	sender, err := principal.FromBytes(m.Sender)
	if err != nil {
		return Content{}, invalidMessage("invalid sender", err)
	}
	c := Content{
		RequestType:   m.RequestType,
		CanisterID:    canister,
		MethodName:    m.MethodName,
		Arg:           append([]byte{}, m.Arg...),
		Sender:        sender,
		IngressExpiry: m.IngressExpiry,
	}
	if m.Nonce != nil {
		c.Nonce = append([]byte{}, (*m.Nonce)...)
	}
	return c, nil
}

func FromModel(m datamodel.EnvelopeModel) (Envelope, error) {
	content, err := ContentFromModel(m.Content)
	if err != nil {
		return Envelope{}, err
	}
	e := Envelope{Content: content}
	if m.SenderPubkey != nil {
		e.SenderPubKey = append([]byte{}, (*m.SenderPubkey)...)
	}
	if m.SenderSig != nil {
		e.SenderSig = append([]byte{}, (*m.SenderSig)...)
	}
	if m.SenderDelegation != nil {
		e.SenderDelegation = make([]delegation.SignedDelegation, 0, len(*m.SenderDelegation))
		for _, dm := range *m.SenderDelegation {
			sd, err := delegation.FromSignedModel(dm)
			if err != nil {
				return Envelope{}, invalidMessage("invalid sender delegation", err)
			}
			e.SenderDelegation = append(e.SenderDelegation, sd)
		}
	}
	return e, nil
}
