package delegation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/storacha/go-ingress/principal"
	"github.com/storacha/go-ingress/testing/fixtures"
	"github.com/stretchr/testify/require"
)

func TestDelegate(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	t.Run("default expiration", func(t *testing.T) {
		sd, err := Delegate(fixtures.Alice, fixtures.Bob.Verifier().Encode(), WithClock(clock))
		require.NoError(t, err)
		require.Equal(t, uint64(now.Add(DefaultTTL).UnixNano()), sd.Delegation.Expiration)
		require.Nil(t, sd.Delegation.Targets)
		require.Equal(t, fixtures.Bob.Verifier().Encode(), sd.Delegation.PubKey)

		ok, err := Verify(sd, fixtures.Alice.Verifier())
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = Verify(sd, fixtures.Mallory.Verifier())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("explicit expiration and targets", func(t *testing.T) {
		exp := now.Add(time.Hour)
		sd, err := Delegate(
			fixtures.Alice,
			fixtures.Bob.Verifier().Encode(),
			WithExpiration(exp),
			WithTargets(fixtures.Canister),
		)
		require.NoError(t, err)
		require.Equal(t, uint64(exp.UnixNano()), sd.Delegation.Expiration)
		require.Equal(t, []principal.Principal{fixtures.Canister}, sd.Delegation.Targets)
		require.True(t, sd.Delegation.Allows(fixtures.Canister))
		require.False(t, sd.Delegation.Allows(fixtures.OtherCanister))
	})

	t.Run("empty targets", func(t *testing.T) {
		sd, err := Delegate(fixtures.Alice, fixtures.Bob.Verifier().Encode(), WithTargets())
		require.NoError(t, err)
		require.NotNil(t, sd.Delegation.Targets)
		require.False(t, sd.Delegation.Allows(fixtures.Canister))
	})

	t.Run("tampered delegation", func(t *testing.T) {
		sd, err := Delegate(fixtures.Alice, fixtures.Bob.Verifier().Encode(), WithClock(clock))
		require.NoError(t, err)
		sd.Delegation.Expiration++

		ok, err := Verify(sd, fixtures.Alice.Verifier())
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	d := Delegation{Expiration: uint64(now.UnixNano())}
	require.False(t, d.IsExpired(now))
	require.False(t, d.IsExpired(now.Add(-time.Second)))
	require.True(t, d.IsExpired(now.Add(time.Nanosecond)))
	require.True(t, d.ExpiresAt().Equal(now))
}

func TestHash(t *testing.T) {
	d0 := Delegation{PubKey: []byte{1, 2, 3}, Expiration: 10}
	d1 := Delegation{PubKey: []byte{1, 2, 3}, Expiration: 10, Targets: []principal.Principal{}}

	h0, err := d0.Hash()
	require.NoError(t, err)
	h1, err := d1.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h0, h1)

	h2, err := Delegation{PubKey: []byte{1, 2, 3}, Expiration: 10}.Hash()
	require.NoError(t, err)
	require.Equal(t, h0, h2)
}

func TestRoundTrip(t *testing.T) {
	sds := []SignedDelegation{
		{Delegation: Delegation{PubKey: []byte{1}, Expiration: 42}, Signature: []byte{9, 9}},
		{Delegation: Delegation{PubKey: []byte{1}, Expiration: 42, Targets: []principal.Principal{}}, Signature: []byte{9}},
		{Delegation: Delegation{PubKey: []byte{1}, Expiration: 42, Targets: []principal.Principal{fixtures.Canister, principal.Anonymous}}, Signature: []byte{}},
	}

	for _, sd := range sds {
		t.Run("cbor", func(t *testing.T) {
			b, err := EncodeSigned(sd)
			require.NoError(t, err)
			out, err := DecodeSigned(b)
			require.NoError(t, err)
			require.True(t, sd.Equal(out))

			db, err := Encode(sd.Delegation)
			require.NoError(t, err)
			dout, err := Decode(db)
			require.NoError(t, err)
			require.True(t, sd.Delegation.Equal(dout))
		})

		t.Run("json", func(t *testing.T) {
			b, err := json.Marshal(sd)
			require.NoError(t, err)
			var out SignedDelegation
			require.NoError(t, json.Unmarshal(b, &out))
			require.True(t, sd.Equal(out))
		})
	}
}

func TestClone(t *testing.T) {
	require.Nil(t, Clone(nil))

	chain := []SignedDelegation{
		{Delegation: Delegation{PubKey: []byte{1}, Expiration: 1, Targets: []principal.Principal{fixtures.Canister}}, Signature: []byte{2}},
	}
	c := Clone(chain)
	require.True(t, chain[0].Equal(c[0]))

	c[0].Signature[0] = 7
	c[0].Delegation.Targets[0] = principal.Anonymous
	require.Equal(t, byte(2), chain[0].Signature[0])
	require.Equal(t, fixtures.Canister, chain[0].Delegation.Targets[0])
}
