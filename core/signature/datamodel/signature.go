package datamodel

import (
	// to use go:embed
	_ "embed"
	"fmt"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/schema"
	ddm "github.com/storacha/go-ingress/core/delegation/datamodel"
)

//go:embed signature.ipldsch
var signatureSchema []byte

var signatureType schema.Type

func init() {
	src := append(append([]byte{}, ddm.Schema()...), '\n')
	src = append(src, signatureSchema...)
	ts, err := ipld.LoadSchemaBytes(src)
	if err != nil {
		panic(fmt.Errorf("loading signature schema: %w", err))
	}
	signatureType = ts.TypeByName("Signature")
}

// SignatureModel is the serialized form of a signature. IngressExpiry is in
// nanoseconds since the Unix epoch.
type SignatureModel struct {
	Sig           *[]byte
	PublicKey     *[]byte
	Delegations   *[]ddm.SignedDelegationModel
	Sender        []byte
	IngressExpiry int64
}

func SignatureType() schema.Type {
	return signatureType
}
