package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"testing"

	edsigner "github.com/storacha/go-ingress/principal/ed25519/signer"
	p256signer "github.com/storacha/go-ingress/principal/p256/signer"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("ed25519", func(t *testing.T) {
		s, err := edsigner.Generate()
		require.NoError(t, err)
		v, err := Decode(s.Verifier().Encode())
		require.NoError(t, err)
		require.Equal(t, s.Principal(), v.Principal())
	})

	t.Run("p256", func(t *testing.T) {
		s, err := p256signer.Generate()
		require.NoError(t, err)
		v, err := Decode(s.Verifier().Encode())
		require.NoError(t, err)
		require.Equal(t, s.Principal(), v.Principal())

		sig, err := s.Sign([]byte("msg"))
		require.NoError(t, err)
		require.True(t, v.Verify([]byte("msg"), sig))
	})

	t.Run("unsupported curve", func(t *testing.T) {
		priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
		require.NoError(t, err)
		_, err = Decode(der)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode([]byte{1, 2, 3})
		require.Error(t, err)
	})
}
