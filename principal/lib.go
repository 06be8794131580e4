package principal

// Verifier is a public key able to check signatures produced by the
// corresponding [Signer].
type Verifier interface {
	// Principal returns the self-authenticating principal of the key.
	Principal() Principal
	// Code is the multicodec code of the public key.
	Code() uint64
	// Verify reports whether sig is a valid signature of msg by this key.
	Verify(msg []byte, sig []byte) bool
	// Encode returns the DER encoded SubjectPublicKeyInfo of the key.
	Encode() []byte
	// Raw returns the raw public key bytes.
	Raw() []byte
}

// Signer holds a private key.
type Signer interface {
	// Principal returns the self-authenticating principal of the key.
	Principal() Principal
	// Code is the multicodec code of the private key.
	Code() uint64
	// Sign produces a raw signature of msg.
	Sign(msg []byte) ([]byte, error)
	Verifier() Verifier
	// Encode returns the multiformat tagged private key.
	Encode() []byte
}
