package message

import (
	"errors"
	"testing"
	"time"

	"github.com/storacha/go-ingress/core/args/cbor"
	"github.com/storacha/go-ingress/core/result/failure"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/testing/fixtures"
	"github.com/storacha/go-ingress/testing/helpers"
	"github.com/stretchr/testify/require"
)

type failingCodec struct{}

func (failingCodec) Encode(args ...any) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clock := helpers.NewClock(time.Unix(1_700_000_000, 0))
		msg, err := New(WithClock(clock.Now))
		require.NoError(t, err)

		require.Equal(t, principal.Anonymous, msg.Target())
		require.Equal(t, principal.Anonymous, msg.Sender())
		require.Equal(t, "", msg.MethodName())
		require.Empty(t, msg.Args())
		require.Nil(t, msg.Nonce())
		require.Equal(t, time.Duration(clock.Now().UnixNano())+DefaultIngressMaxAge, msg.IngressExpiry())
	})

	t.Run("options", func(t *testing.T) {
		msg, err := New(
			WithTarget(fixtures.Canister),
			WithMethodName("greet"),
			WithArgs("hello", uint64(7)),
			WithNonce([]byte{1, 2, 3}),
			WithIngressExpiry(42*time.Second),
		)
		require.NoError(t, err)

		expected, err := cbor.Codec.Encode("hello", uint64(7))
		require.NoError(t, err)

		require.Equal(t, fixtures.Canister, msg.Target())
		require.Equal(t, "greet", msg.MethodName())
		require.Equal(t, expected, msg.Args())
		require.Equal(t, []byte{1, 2, 3}, msg.Nonce())
		require.Equal(t, 42*time.Second, msg.IngressExpiry())
	})

	t.Run("max age", func(t *testing.T) {
		clock := helpers.NewClock(time.Unix(1_700_000_000, 0))
		msg, err := New(WithClock(clock.Now), WithIngressMaxAge(time.Minute))
		require.NoError(t, err)
		require.Equal(t, time.Duration(clock.Now().UnixNano())+time.Minute, msg.IngressExpiry())
	})

	t.Run("encoding failure", func(t *testing.T) {
		_, err := New(WithCodec(failingCodec{}), WithArgs("x"))
		require.Error(t, err)

		var encErr EncodingError
		require.ErrorAs(t, err, &encErr)
		require.Equal(t, "EncodingError", encErr.Name())
		require.NotEmpty(t, encErr.Stack())
		require.Equal(t, "EncodingError", failure.FromError(err).Name())
	})

	t.Run("nil codec", func(t *testing.T) {
		_, err := New(WithCodec(nil))
		require.Error(t, err)
	})
}

func TestTransformers(t *testing.T) {
	base, err := New()
	require.NoError(t, err)

	t.Run("do not modify the original", func(t *testing.T) {
		updated := base.WithTarget(fixtures.Canister).
			WithMethodName("greet").
			WithSender(fixtures.Alice.Principal()).
			WithNonce([]byte{9})

		require.Equal(t, principal.Anonymous, base.Target())
		require.Equal(t, "", base.MethodName())
		require.Equal(t, principal.Anonymous, base.Sender())
		require.Nil(t, base.Nonce())

		require.Equal(t, fixtures.Canister, updated.Target())
		require.Equal(t, "greet", updated.MethodName())
		require.Equal(t, fixtures.Alice.Principal(), updated.Sender())
		require.Equal(t, []byte{9}, updated.Nonce())
	})

	t.Run("args", func(t *testing.T) {
		updated, err := base.WithArgs(true)
		require.NoError(t, err)
		require.Equal(t, []byte{0x81, 0xf5}, updated.Args())
		require.Empty(t, base.Args())
	})

	t.Run("unsupported args", func(t *testing.T) {
		_, err := base.WithArgs(make(chan int))
		var encErr EncodingError
		require.ErrorAs(t, err, &encErr)
	})

	t.Run("empty nonce is present", func(t *testing.T) {
		updated := base.WithNonce(nil)
		require.NotNil(t, updated.Nonce())
		require.Empty(t, updated.Nonce())
		require.Nil(t, updated.WithoutNonce().Nonce())
	})

	t.Run("random nonce", func(t *testing.T) {
		a := base.WithRandomNonce()
		b := base.WithRandomNonce()
		require.Len(t, a.Nonce(), 16)
		require.NotEqual(t, a.Nonce(), b.Nonce())
	})

	t.Run("absolute expiry", func(t *testing.T) {
		updated := base.WithIngressExpiry(time.Hour)
		require.Equal(t, time.Hour, updated.IngressExpiry())
	})
}

func TestWithIngressMaxAge(t *testing.T) {
	clock := helpers.NewClock(time.Unix(1_700_000_000, 0))
	msg, err := New(WithClock(clock.Now))
	require.NoError(t, err)

	start := time.Duration(clock.Now().UnixNano())

	first := msg.WithIngressMaxAge(time.Minute)
	require.Equal(t, start+time.Minute, first.IngressExpiry())

	// repeated calls are not cumulative
	again := first.WithIngressMaxAge(time.Minute)
	require.Equal(t, first.IngressExpiry(), again.IngressExpiry())

	clock.Advance(10 * time.Second)
	later := first.WithIngressMaxAge(time.Minute)
	require.Equal(t, start+10*time.Second+time.Minute, later.IngressExpiry())
}
