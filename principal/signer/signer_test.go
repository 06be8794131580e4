package signer

import (
	"testing"

	ed25519 "github.com/storacha/go-ingress/principal/ed25519/signer"
	"github.com/storacha/go-ingress/principal/multiformat"
	p256 "github.com/storacha/go-ingress/principal/p256/signer"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("ed25519", func(t *testing.T) {
		s0, err := ed25519.Generate()
		require.NoError(t, err)
		s1, err := Decode(s0.Encode())
		require.NoError(t, err)
		require.Equal(t, ed25519.Code, s1.Code())
		require.Equal(t, s0.Principal(), s1.Principal())
	})

	t.Run("p256", func(t *testing.T) {
		s0, err := p256.Generate()
		require.NoError(t, err)
		str, err := p256.Format(s0)
		require.NoError(t, err)
		s1, err := Parse(str)
		require.NoError(t, err)
		require.Equal(t, p256.Code, s1.Code())
		require.Equal(t, s0.Principal(), s1.Principal())
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Decode(multiformat.TagWith(0x1305, []byte{1, 2, 3}))
		require.Error(t, err)
	})
}
