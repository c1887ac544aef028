// Package codec decouples the engine from a concrete encoding. The wire
// protocol and the persisted collections both go through a Marshaler and
// Unmarshaler pair, so the encoding can be swapped without touching the
// store or the transport.
package codec

type Marshaler interface {
	Marshal(v any) ([]byte, error)
}

type Unmarshaler interface {
	Unmarshal(data []byte, dst any) error
}

// Codec combines both directions of an encoding.
type Codec interface {
	Marshaler
	Unmarshaler
}
