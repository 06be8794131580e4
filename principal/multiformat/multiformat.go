package multiformat

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-varint"
)

// TagWith prefixes bytes with the varint encoded multicodec code.
func TagWith(code uint64, bytes []byte) []byte {
	offset := varint.UvarintSize(code)
	tagged := make([]byte, len(bytes)+offset)
	varint.PutUvarint(tagged, code)
	copy(tagged[offset:], bytes)
	return tagged
}

// Untag reads the multicodec code of tagged bytes and returns it along with
// the remaining bytes.
func Untag(source []byte) (uint64, []byte, error) {
	tag, n, err := varint.FromUvarint(source)
	if err != nil {
		return 0, nil, fmt.Errorf("reading multiformat tag: %w", err)
	}
	return tag, source[n:], nil
}

// UntagWith strips the expected multicodec code from source, starting at
// offset.
func UntagWith(code uint64, source []byte, offset int) ([]byte, error) {
	b := source
	if offset != 0 {
		b = source[offset:]
	}

	tag, err := varint.ReadUvarint(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	if tag != code {
		return nil, fmt.Errorf("expected multiformat with 0x%x tag instead got 0x%x", code, tag)
	}

	size := varint.UvarintSize(code)
	return b[size:], nil
}
