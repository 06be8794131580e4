package identity

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/core/envelope"
	"github.com/storacha/go-ingress/core/message"
	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/testing/fixtures"
	"github.com/storacha/go-ingress/testing/helpers"
	"github.com/stretchr/testify/require"
)

type brokenIdentity struct {
	senderErr error
	signErr   error
	chain     []delegation.SignedDelegation
}

func (b brokenIdentity) Sender() (principal.Principal, error) {
	if b.senderErr != nil {
		return principal.Principal{}, b.senderErr
	}
	return fixtures.Alice.Principal(), nil
}

func (b brokenIdentity) Sign(msg []byte) ([]byte, []byte, error) {
	return nil, nil, b.signErr
}

func (b brokenIdentity) DelegationChain() []delegation.SignedDelegation {
	return b.chain
}

func newMessage(t *testing.T) message.Message {
	t.Helper()
	return helpers.Must(message.New(
		message.WithTarget(fixtures.Canister),
		message.WithMethodName("greet"),
		message.WithArgs("hello"),
	))
}

func TestBasic(t *testing.T) {
	msg := newMessage(t)
	w := Wrap(Basic(fixtures.Alice))

	sig, err := w.SignMessage(msg)
	require.NoError(t, err)

	require.Equal(t, fixtures.Alice.Principal(), sig.Sender)
	require.Equal(t, msg.IngressExpiry(), sig.IngressExpiry)
	require.Equal(t, fixtures.Alice.Verifier().Encode(), sig.PublicKey)
	require.Nil(t, sig.Delegations)

	content, err := envelope.NewContent(msg.WithSender(fixtures.Alice.Principal()))
	require.NoError(t, err)
	payload, err := content.SignableBytes()
	require.NoError(t, err)
	require.True(t, fixtures.Alice.Verifier().Verify(payload, sig.Sig))

	t.Run("message sender is ignored", func(t *testing.T) {
		other, err := w.SignMessage(msg.WithSender(fixtures.Mallory.Principal()))
		require.NoError(t, err)
		require.Equal(t, fixtures.Alice.Principal(), other.Sender)
		require.Equal(t, sig.Sig, other.Sig)
	})
}

func TestAnonymous(t *testing.T) {
	w := Wrap(Anonymous())
	sig, err := w.SignMessage(newMessage(t))
	require.NoError(t, err)
	require.Equal(t, principal.Anonymous, sig.Sender)
	require.Nil(t, sig.Sig)
	require.Nil(t, sig.PublicKey)
	require.Nil(t, sig.Delegations)
}

func TestWrap(t *testing.T) {
	t.Run("empty chain is absent", func(t *testing.T) {
		w := Wrap(brokenIdentity{chain: []delegation.SignedDelegation{}})
		require.Nil(t, w.DelegationChain())
	})

	t.Run("sender not found", func(t *testing.T) {
		cause := errors.New("no key")
		w := Wrap(brokenIdentity{senderErr: cause})
		_, err := w.SignMessage(newMessage(t))

		var snf SenderNotFoundError
		require.ErrorAs(t, err, &snf)
		require.Equal(t, "SenderNotFoundError", snf.Name())
		require.ErrorIs(t, err, cause)
	})

	t.Run("signing error", func(t *testing.T) {
		cause := errors.New("hsm offline")
		w := Wrap(brokenIdentity{signErr: cause})
		_, err := w.SignMessage(newMessage(t))

		var se SigningError
		require.ErrorAs(t, err, &se)
		require.Equal(t, "SigningError", se.Name())
		require.ErrorIs(t, err, cause)
	})

	t.Run("negative expiry", func(t *testing.T) {
		w := Wrap(Basic(fixtures.Alice))
		_, err := w.SignMessage(newMessage(t).WithIngressExpiry(-time.Second))
		var ime envelope.InvalidMessageError
		require.ErrorAs(t, err, &ime)
	})

	t.Run("concurrent signing", func(t *testing.T) {
		w := Wrap(Basic(fixtures.Bob))
		msg := newMessage(t)
		expected, err := w.SignMessage(msg)
		require.NoError(t, err)

		var wg sync.WaitGroup
		sigs := make([][]byte, 8)
		for i := range sigs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sig, err := w.SignMessage(msg)
				if err == nil {
					sigs[i] = sig.Sig
				}
			}(i)
		}
		wg.Wait()
		for _, s := range sigs {
			require.Equal(t, expected.Sig, s)
		}
	})
}

func TestDelegated(t *testing.T) {
	root := fixtures.Alice.Verifier().Encode()
	sd := helpers.Must(delegation.Delegate(
		fixtures.Alice,
		fixtures.Bob.Verifier().Encode(),
		delegation.WithExpiration(time.Now().Add(time.Hour)),
	))

	id, err := Delegated(root, Basic(fixtures.Bob), []delegation.SignedDelegation{sd})
	require.NoError(t, err)

	w := Wrap(id)
	msg := newMessage(t)
	sig, err := w.SignMessage(msg)
	require.NoError(t, err)

	require.Equal(t, fixtures.Alice.Principal(), sig.Sender)
	require.Equal(t, root, sig.PublicKey)
	require.Len(t, sig.Delegations, 1)
	require.True(t, sd.Equal(sig.Delegations[0]))

	content, err := envelope.NewContent(msg.WithSender(fixtures.Alice.Principal()))
	require.NoError(t, err)
	payload, err := content.SignableBytes()
	require.NoError(t, err)
	require.True(t, fixtures.Bob.Verifier().Verify(payload, sig.Sig))

	t.Run("chain is cloned into every signature", func(t *testing.T) {
		sig.Delegations[0].Signature[0] ^= 0xff
		again, err := w.SignMessage(msg)
		require.NoError(t, err)
		require.True(t, sd.Equal(again.Delegations[0]))
	})

	t.Run("chain not signed by root", func(t *testing.T) {
		_, err := Delegated(fixtures.Mallory.Verifier().Encode(), Basic(fixtures.Bob), []delegation.SignedDelegation{sd})
		require.Error(t, err)
	})
}
