package block

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/schema"
	"github.com/storacha/go-ingress/core/ipld/codec"
	"github.com/storacha/go-ingress/core/ipld/hash"
)

type Block interface {
	Link() ipld.Link
	Bytes() []byte
}

type block struct {
	link  ipld.Link
	bytes []byte
}

func (b *block) Link() ipld.Link {
	return b.link
}

func (b *block) Bytes() []byte {
	return b.bytes
}

func NewBlock(link ipld.Link, bytes []byte) Block {
	return &block{link, bytes}
}

// Encode encodes the bound value with the passed codec and addresses the
// resulting bytes with a CIDv1 over the hasher's digest.
func Encode(value any, typ schema.Type, codec codec.Encoder, hasher hash.Hasher) (Block, error) {
	b, err := codec.Encode(value, typ)
	if err != nil {
		return nil, fmt.Errorf("encoding block: %w", err)
	}
	d, err := hasher.Sum(b)
	if err != nil {
		return nil, fmt.Errorf("hashing block: %w", err)
	}
	link := cidlink.Link{Cid: cid.NewCidV1(codec.Code(), d.Bytes())}
	return NewBlock(link, b), nil
}
