package block

import (
	"testing"

	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"
	"github.com/storacha/go-ingress/core/ipld/codec/cbor"
	"github.com/storacha/go-ingress/core/ipld/hash/sha256"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	type Greeting struct {
		Text string
	}

	ts, err := ipld.LoadSchemaBytes([]byte(`
		type Greeting struct {
			text String
		}
	`))
	require.NoError(t, err)
	typ := ts.TypeByName("Greeting")

	b0, err := Encode(&Greeting{Text: "hello"}, typ, cbor.Codec, sha256.Hasher)
	require.NoError(t, err)

	b1, err := Encode(&Greeting{Text: "hello"}, typ, cbor.Codec, sha256.Hasher)
	require.NoError(t, err)
	require.Equal(t, b0.Link().String(), b1.Link().String())
	require.Equal(t, b0.Bytes(), b1.Bytes())

	c := b0.Link().(cidlink.Link).Cid
	require.Equal(t, uint64(multicodec.DagCbor), c.Prefix().Codec)
	require.Equal(t, uint64(multihash.SHA2_256), c.Prefix().MhType)

	b2, err := Encode(&Greeting{Text: "world"}, typ, cbor.Codec, sha256.Hasher)
	require.NoError(t, err)
	require.NotEqual(t, b0.Link().String(), b2.Link().String())
}
