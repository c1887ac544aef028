package codec

import "github.com/fxamacker/cbor/v2"

// CBOR is a compact binary codec, useful for the persisted collections when
// storage size matters more than human readability.
type CBOR struct{}

func (CBOR) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (CBOR) Unmarshal(data []byte, dst any) error {
	return cbor.Unmarshal(data, dst)
}
