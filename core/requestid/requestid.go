// Package requestid implements the representation-independent hash used to
// identify requests and delegations independently of their wire encoding.
package requestid

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/multiformats/go-varint"
)

// Size of a request ID in bytes.
const Size = sha256.Size

// RequestID identifies a request by the hash of its content.
type RequestID [Size]byte

func (id RequestID) String() string {
	return hex.EncodeToString(id[:])
}

// Of computes the request ID of a content map.
func Of(content datamodel.Node) (RequestID, error) {
	if content.Kind() != datamodel.Kind_Map {
		return RequestID{}, fmt.Errorf("request content must be a map, got %s", content.Kind())
	}
	h, err := Hash(content)
	if err != nil {
		return RequestID{}, err
	}
	var id RequestID
	copy(id[:], h)
	return id, nil
}

// Hash computes the representation-independent hash of a node. Maps hash the
// sorted concatenation of their hashed key/value pairs, lists hash the
// concatenation of their element hashes, bytes and strings hash their raw
// content and integers hash their unsigned LEB128 encoding.
func Hash(n datamodel.Node) ([]byte, error) {
	switch n.Kind() {
	case datamodel.Kind_Bytes:
		b, err := n.AsBytes()
		if err != nil {
			return nil, err
		}
		return sum(b), nil
	case datamodel.Kind_String:
		s, err := n.AsString()
		if err != nil {
			return nil, err
		}
		return sum([]byte(s)), nil
	case datamodel.Kind_Int:
		i, err := n.AsInt()
		if err != nil {
			return nil, err
		}
		if i < 0 {
			return nil, fmt.Errorf("cannot hash negative integer: %d", i)
		}
		return sum(varint.ToUvarint(uint64(i))), nil
	case datamodel.Kind_List:
		return hashList(n)
	case datamodel.Kind_Map:
		return hashMap(n)
	default:
		return nil, fmt.Errorf("cannot hash %s node", n.Kind())
	}
}

func hashList(n datamodel.Node) ([]byte, error) {
	var buf bytes.Buffer
	it := n.ListIterator()
	for !it.Done() {
		_, v, err := it.Next()
		if err != nil {
			return nil, err
		}
		h, err := Hash(v)
		if err != nil {
			return nil, err
		}
		buf.Write(h)
	}
	return sum(buf.Bytes()), nil
}

func hashMap(n datamodel.Node) ([]byte, error) {
	var pairs [][]byte
	it := n.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return nil, err
		}
		if v.IsAbsent() || v.IsNull() {
			continue
		}
		key, err := k.AsString()
		if err != nil {
			return nil, fmt.Errorf("reading map key: %w", err)
		}
		h, err := Hash(v)
		if err != nil {
			return nil, fmt.Errorf("hashing %q: %w", key, err)
		}
		pairs = append(pairs, append(sum([]byte(key)), h...))
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i], pairs[j]) < 0
	})
	return sum(bytes.Join(pairs, nil)), nil
}

func sum(b []byte) []byte {
	s := sha256.Sum256(b)
	return s[:]
}
