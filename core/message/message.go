// Package message provides the unsigned call request a caller configures
// before it is signed.
package message

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storacha/go-ingress/core/args"
	"github.com/storacha/go-ingress/core/args/cbor"
	"github.com/storacha/go-ingress/core/result/failure"
	"github.com/storacha/go-ingress/principal"
)

// DefaultIngressMaxAge is how far in the future the ingress expiry of a new
// message is set.
const DefaultIngressMaxAge = 120 * time.Second

// Message is an unsigned call. It is an immutable value: every With method
// returns an updated copy.
type Message struct {
	target        principal.Principal
	methodName    string
	args          []byte
	sender        principal.Principal
	ingressExpiry time.Duration
	nonce         []byte
	codec         args.Encoder
	now           func() time.Time
}

// Option is an option configuring a message.
type Option func(cfg *messageConfig) error

type messageConfig struct {
	target     principal.Principal
	methodName string
	args       []any
	hasArgs    bool
	nonce      []byte
	expiry     *time.Duration
	maxAge     time.Duration
	codec      args.Encoder
	now        func() time.Time
}

// WithTarget configures the resource the call is addressed to.
func WithTarget(target principal.Principal) Option {
	return func(cfg *messageConfig) error {
		cfg.target = target
		return nil
	}
}

// WithMethodName configures the method to call.
func WithMethodName(name string) Option {
	return func(cfg *messageConfig) error {
		cfg.methodName = name
		return nil
	}
}

// WithArgs configures the call arguments. They are encoded with the message
// codec when the message is built.
func WithArgs(values ...any) Option {
	return func(cfg *messageConfig) error {
		cfg.args = values
		cfg.hasArgs = true
		return nil
	}
}

// WithNonce configures the nonce of the message.
func WithNonce(nonce []byte) Option {
	return func(cfg *messageConfig) error {
		cfg.nonce = append([]byte{}, nonce...)
		return nil
	}
}

// WithIngressExpiry configures the absolute ingress expiry as a duration
// since the Unix epoch.
func WithIngressExpiry(expiry time.Duration) Option {
	return func(cfg *messageConfig) error {
		cfg.expiry = &expiry
		return nil
	}
}

// WithIngressMaxAge configures the ingress expiry relative to the time the
// message is built.
func WithIngressMaxAge(maxAge time.Duration) Option {
	return func(cfg *messageConfig) error {
		cfg.maxAge = maxAge
		cfg.expiry = nil
		return nil
	}
}

// WithCodec configures the codec used to encode arguments. The default
// encodes arguments as a CBOR array.
func WithCodec(codec args.Encoder) Option {
	return func(cfg *messageConfig) error {
		if codec == nil {
			return fmt.Errorf("nil argument codec")
		}
		cfg.codec = codec
		return nil
	}
}

// WithClock configures the source of the current time used to compute
// relative expiries.
func WithClock(now func() time.Time) Option {
	return func(cfg *messageConfig) error {
		if now == nil {
			return fmt.Errorf("nil clock")
		}
		cfg.now = now
		return nil
	}
}

// New creates a message. Without options the target and sender are
// anonymous, the method name and arguments are empty, there is no nonce and
// the ingress expiry is [DefaultIngressMaxAge] from now.
func New(options ...Option) (Message, error) {
	cfg := messageConfig{
		target: principal.Anonymous,
		maxAge: DefaultIngressMaxAge,
		codec:  cbor.Codec,
		now:    time.Now,
	}
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return Message{}, err
		}
	}

	m := Message{
		target:     cfg.target,
		methodName: cfg.methodName,
		args:       []byte{},
		sender:     principal.Anonymous,
		nonce:      cfg.nonce,
		codec:      cfg.codec,
		now:        cfg.now,
	}
	if cfg.expiry != nil {
		m.ingressExpiry = *cfg.expiry
	} else {
		m.ingressExpiry = sinceEpoch(m.now()) + cfg.maxAge
	}
	if cfg.hasArgs {
		return m.WithArgs(cfg.args...)
	}
	return m, nil
}

func sinceEpoch(t time.Time) time.Duration {
	return time.Duration(t.UnixNano())
}

func (m Message) Target() principal.Principal {
	return m.target
}

func (m Message) MethodName() string {
	return m.methodName
}

// Args returns the encoded argument payload.
func (m Message) Args() []byte {
	return bytes.Clone(m.args)
}

func (m Message) Sender() principal.Principal {
	return m.sender
}

// IngressExpiry is the absolute expiry as a duration since the Unix epoch.
func (m Message) IngressExpiry() time.Duration {
	return m.ingressExpiry
}

// Nonce returns the nonce, or nil if the message has none.
func (m Message) Nonce() []byte {
	return bytes.Clone(m.nonce)
}

func (m Message) WithTarget(target principal.Principal) Message {
	m.target = target
	return m
}

func (m Message) WithMethodName(name string) Message {
	m.methodName = name
	return m
}

// WithSender replaces the sender. Signing overwrites the sender with the
// principal of the signing identity.
func (m Message) WithSender(sender principal.Principal) Message {
	m.sender = sender
	return m
}

// WithArgs encodes values with the message codec and replaces the payload. It
// returns an [EncodingError] if the codec rejects the arguments.
func (m Message) WithArgs(values ...any) (Message, error) {
	codec := m.codec
	if codec == nil {
		codec = cbor.Codec
	}
	b, err := codec.Encode(values...)
	if err != nil {
		return m, NewEncodingError(err)
	}
	m.args = b
	return m, nil
}

// WithRawArgs replaces the payload with bytes already encoded by the codec.
func (m Message) WithRawArgs(payload []byte) Message {
	m.args = append([]byte{}, payload...)
	return m
}

// WithIngressExpiry replaces the expiry with an absolute duration since the
// Unix epoch.
func (m Message) WithIngressExpiry(expiry time.Duration) Message {
	m.ingressExpiry = expiry
	return m
}

// WithIngressMaxAge sets the expiry to now plus maxAge. The clock is read on
// every call, so repeated calls are not cumulative.
func (m Message) WithIngressMaxAge(maxAge time.Duration) Message {
	now := m.now
	if now == nil {
		now = time.Now
	}
	m.ingressExpiry = sinceEpoch(now()) + maxAge
	return m
}

func (m Message) WithNonce(nonce []byte) Message {
	m.nonce = append([]byte{}, nonce...)
	return m
}

// WithRandomNonce sets a fresh random 16 byte nonce.
func (m Message) WithRandomNonce() Message {
	id := uuid.New()
	return m.WithNonce(id[:])
}

// WithoutNonce removes the nonce.
func (m Message) WithoutNonce() Message {
	m.nonce = nil
	return m
}

// EncodingError is returned when call arguments cannot be encoded.
type EncodingError struct {
	failure.NamedWithStackTrace
	cause error
}

func NewEncodingError(cause error) EncodingError {
	return EncodingError{failure.NamedWithCurrentStackTrace("EncodingError"), cause}
}

func (ee EncodingError) Error() string {
	return fmt.Sprintf("argument encoding failed: %s", ee.cause)
}

func (ee EncodingError) Unwrap() error {
	return ee.cause
}
