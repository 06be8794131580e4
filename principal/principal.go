package principal

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/multiformats/go-base32"
)

// MaxLength is the maximum length of a principal in bytes.
const MaxLength = 29

const (
	// OpaqueIDTag marks principals allocated by the network.
	OpaqueIDTag = 0x01
	// SelfAuthenticatingTag marks principals derived from a public key.
	SelfAuthenticatingTag = 0x02
	// DerivedIDTag marks principals derived from another principal.
	DerivedIDTag = 0x03
	// AnonymousTag is the single byte of the anonymous principal.
	AnonymousTag = 0x04
)

const checksumSize = 4
const groupSize = 5

var encoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// Principal is an opaque identity of a caller or a resource. The zero value
// is the management principal (empty bytes).
type Principal struct {
	bytes string
}

// Anonymous is the principal of unauthenticated callers and the default
// target of a call.
var Anonymous = Principal{string([]byte{AnonymousTag})}

// Management is the empty principal.
var Management = Principal{}

// FromBytes creates a principal from its binary form.
func FromBytes(b []byte) (Principal, error) {
	if len(b) > MaxLength {
		return Principal{}, fmt.Errorf("principal too long: %d bytes, maximum is %d", len(b), MaxLength)
	}
	return Principal{string(b)}, nil
}

// SelfAuthenticating derives the principal of a DER encoded public key.
func SelfAuthenticating(der []byte) Principal {
	sum := sha256.Sum224(der)
	b := make([]byte, 0, len(sum)+1)
	b = append(b, sum[:]...)
	b = append(b, SelfAuthenticatingTag)
	return Principal{string(b)}
}

// Parse decodes the textual form of a principal, e.g. "2vxsx-fae".
func Parse(str string) (Principal, error) {
	enc := strings.ReplaceAll(strings.ToLower(str), "-", "")
	b, err := encoding.DecodeString(enc)
	if err != nil {
		return Principal{}, fmt.Errorf("decoding base32: %w", err)
	}
	if len(b) < checksumSize {
		return Principal{}, fmt.Errorf("principal text too short: %q", str)
	}
	p, err := FromBytes(b[checksumSize:])
	if err != nil {
		return Principal{}, err
	}
	if !bytes.Equal(b[:checksumSize], checksum(p.Bytes())) {
		return Principal{}, fmt.Errorf("invalid principal checksum: %q", str)
	}
	if p.String() != strings.ToLower(str) {
		return Principal{}, fmt.Errorf("principal text is not in canonical form: %q", str)
	}
	return p, nil
}

func checksum(b []byte) []byte {
	sum := make([]byte, checksumSize)
	binary.BigEndian.PutUint32(sum, crc32.ChecksumIEEE(b))
	return sum
}

// Bytes returns the binary form of the principal.
func (p Principal) Bytes() []byte {
	return []byte(p.bytes)
}

func (p Principal) IsAnonymous() bool {
	return p == Anonymous
}

// IsSelfAuthenticating reports whether the principal was derived from a
// public key.
func (p Principal) IsSelfAuthenticating() bool {
	return len(p.bytes) == sha256.Size224+1 && p.bytes[len(p.bytes)-1] == SelfAuthenticatingTag
}

// String returns the textual form of the principal.
func (p Principal) String() string {
	b := append(checksum(p.Bytes()), p.Bytes()...)
	enc := encoding.EncodeToString(b)
	var groups []string
	for len(enc) > groupSize {
		groups = append(groups, enc[:groupSize])
		enc = enc[groupSize:]
	}
	groups = append(groups, enc)
	return strings.Join(groups, "-")
}

func (p Principal) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Principal) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
