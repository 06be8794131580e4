package hash

type Hasher interface {
	Code() uint64
	Sum(bytes []byte) (Digest, error)
}

// Digest is a multihash digest.
type Digest interface {
	Code() uint64
	Size() uint64
	// Digest returns the raw digest bytes.
	Digest() []byte
	// Bytes returns the multihash encoded digest.
	Bytes() []byte
}

type digest struct {
	code   uint64
	size   uint64
	digest []byte
	bytes  []byte
}

func (d *digest) Bytes() []byte {
	return d.bytes
}

func (d *digest) Code() uint64 {
	return d.code
}

func (d *digest) Digest() []byte {
	return d.digest
}

func (d *digest) Size() uint64 {
	return d.size
}

func NewDigest(code uint64, size uint64, digst []byte, bytes []byte) Digest {
	return &digest{code, size, digst, bytes}
}
