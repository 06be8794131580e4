package signature

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/storacha/go-ingress/core/delegation"
	"github.com/storacha/go-ingress/testing/fixtures"
	"github.com/storacha/go-ingress/testing/helpers"
	"github.com/stretchr/testify/require"
)

func delegated(t *testing.T) Signature {
	t.Helper()
	sd, err := delegation.Delegate(
		fixtures.Alice,
		fixtures.Bob.Verifier().Encode(),
		delegation.WithExpiration(time.Unix(1_800_000_000, 0)),
		delegation.WithTargets(fixtures.Canister),
	)
	require.NoError(t, err)
	return Signature{
		Sig:           helpers.RandomBytes(64),
		PublicKey:     fixtures.Alice.Verifier().Encode(),
		Delegations:   []delegation.SignedDelegation{sd},
		Sender:        fixtures.Alice.Principal(),
		IngressExpiry: time.Duration(1_700_000_000) * time.Second,
	}
}

func TestRoundTrip(t *testing.T) {
	cases := map[string]func(t *testing.T) Signature{
		"delegated": delegated,
		"basic": func(t *testing.T) Signature {
			return Signature{
				Sig:           helpers.RandomBytes(64),
				PublicKey:     fixtures.Bob.Verifier().Encode(),
				Sender:        fixtures.Bob.Principal(),
				IngressExpiry: time.Minute,
			}
		},
		"anonymous": func(t *testing.T) Signature {
			return Signature{Sender: fixtures.Canister, IngressExpiry: time.Second}
		},
		"empty chain": func(t *testing.T) Signature {
			return Signature{
				Sig:         []byte{1},
				PublicKey:   []byte{2},
				Delegations: []delegation.SignedDelegation{},
			}
		},
	}

	for name, mk := range cases {
		t.Run(name, func(t *testing.T) {
			sig := mk(t)

			t.Run("dag-cbor", func(t *testing.T) {
				b, err := Encode(sig)
				require.NoError(t, err)
				out, err := Decode(b)
				require.NoError(t, err)
				require.True(t, sig.Equal(out))
			})

			t.Run("dag-json", func(t *testing.T) {
				b, err := json.Marshal(sig)
				require.NoError(t, err)
				var out Signature
				require.NoError(t, json.Unmarshal(b, &out))
				require.True(t, sig.Equal(out))
			})
		})
	}
}

func TestNilAndEmptyChain(t *testing.T) {
	base := Signature{Sig: []byte{1}, PublicKey: []byte{2}, Sender: fixtures.Alice.Principal()}
	withEmpty := base
	withEmpty.Delegations = []delegation.SignedDelegation{}

	require.False(t, base.Equal(withEmpty))

	absent, err := EncodeJSON(base)
	require.NoError(t, err)
	present, err := EncodeJSON(withEmpty)
	require.NoError(t, err)

	require.False(t, strings.Contains(string(absent), "delegations"))
	require.True(t, strings.Contains(string(present), `"delegations":[]`))

	decoded, err := DecodeJSON(present)
	require.NoError(t, err)
	require.NotNil(t, decoded.Delegations)
	require.Empty(t, decoded.Delegations)

	decoded, err = DecodeJSON(absent)
	require.NoError(t, err)
	require.Nil(t, decoded.Delegations)

	l1, err := base.Link()
	require.NoError(t, err)
	l2, err := withEmpty.Link()
	require.NoError(t, err)
	require.NotEqual(t, l1.String(), l2.String())
}

func TestEqual(t *testing.T) {
	sig := delegated(t)

	require.True(t, sig.Equal(sig))

	other := sig
	other.Sig = append([]byte{}, sig.Sig...)
	other.Sig[0] ^= 0xff
	require.False(t, sig.Equal(other))

	other = sig
	other.IngressExpiry++
	require.False(t, sig.Equal(other))

	other = sig
	other.Sender = fixtures.Bob.Principal()
	require.False(t, sig.Equal(other))

	other = sig
	other.Delegations = nil
	require.False(t, sig.Equal(other))

	other = sig
	other.PublicKey = nil
	require.False(t, sig.Equal(other))
}

func TestLink(t *testing.T) {
	sig := delegated(t)

	l1, err := sig.Link()
	require.NoError(t, err)
	l2, err := sig.Link()
	require.NoError(t, err)
	require.Equal(t, l1.String(), l2.String())

	other := sig
	other.IngressExpiry++
	l3, err := other.Link()
	require.NoError(t, err)
	require.NotEqual(t, l1.String(), l3.String())
}
