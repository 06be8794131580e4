package datamodel

import (
	// to use go:embed
	_ "embed"
	"fmt"
	"sync"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/schema"
	ddm "github.com/storacha/go-ingress/core/delegation/datamodel"
)

//go:embed envelope.ipldsch
var envelopesch []byte

var (
	once sync.Once
	ts   *schema.TypeSystem
	err  error
)

func mustLoadSchema() *schema.TypeSystem {
	once.Do(func() {
		src := append(append([]byte{}, ddm.Schema()...), '\n')
		ts, err = ipld.LoadSchemaBytes(append(src, envelopesch...))
	})
	if err != nil {
		panic(fmt.Errorf("failed to load IPLD schema: %s", err))
	}
	return ts
}

func ContentType() schema.Type {
	return mustLoadSchema().TypeByName("Content")
}

func EnvelopeType() schema.Type {
	return mustLoadSchema().TypeByName("Envelope")
}

// ContentModel is the signed part of a call request. IngressExpiry is in
// nanoseconds since the Unix epoch.
type ContentModel struct {
	RequestType   string
	CanisterID    []byte
	MethodName    string
	Arg           []byte
	Sender        []byte
	IngressExpiry uint64
	Nonce         *[]byte
}

type EnvelopeModel struct {
	Content          ContentModel
	SenderPubkey     *[]byte
	SenderSig        *[]byte
	SenderDelegation *[]ddm.SignedDelegationModel
}
