package datamodel

import (
	// to use go:embed
	_ "embed"
	"fmt"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/schema"
)

//go:embed delegation.ipldsch
var delegationSchema []byte

var (
	delegationType       schema.Type
	signedDelegationType schema.Type
)

func init() {
	ts, err := ipld.LoadSchemaBytes(delegationSchema)
	if err != nil {
		panic(fmt.Errorf("loading delegation schema: %w", err))
	}
	delegationType = ts.TypeByName("Delegation")
	signedDelegationType = ts.TypeByName("SignedDelegation")
}

// DelegationModel is the wire form of a delegation. Expiration is in
// nanoseconds since the Unix epoch.
type DelegationModel struct {
	Pubkey     []byte
	Expiration uint64
	Targets    *[][]byte
}

type SignedDelegationModel struct {
	Delegation DelegationModel
	Signature  []byte
}

func DelegationType() schema.Type {
	return delegationType
}

func SignedDelegationType() schema.Type {
	return signedDelegationType
}

// Schema returns the schema source so it can be composed into the schemas of
// containing types.
func Schema() []byte {
	return delegationSchema
}
