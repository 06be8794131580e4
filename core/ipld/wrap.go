package ipld

import (
	"errors"
	"fmt"

	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
)

// WrapWithRecovery behaves like bindnode.Wrap but converts panics into errors.
// The returned node is the representation of the wrapped value.
func WrapWithRecovery(ptrVal any, typ schema.Type, opts ...bindnode.Option) (nd Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if asStr, ok := r.(string); ok {
				err = errors.New(asStr)
			} else if asErr, ok := r.(error); ok {
				err = asErr
			} else {
				err = fmt.Errorf("unknown panic wrapping %T", ptrVal)
			}
		}
	}()
	nd = bindnode.Wrap(ptrVal, typ, opts...).Representation()
	return
}
