// Package args defines the codec used to serialize call arguments.
package args

// Encoder serializes a tuple of arguments into an opaque payload.
type Encoder interface {
	Encode(args ...any) ([]byte, error)
}

// Decoder deserializes a payload into the passed argument pointers.
type Decoder interface {
	Decode(payload []byte, args ...any) error
}

type Codec interface {
	Encoder
	Decoder
}
