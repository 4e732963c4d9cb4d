package selection

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes a selection for storage
func Marshal(s Selection) ([]byte, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a stored selection and normalizes it
func Unmarshal(data []byte) (Selection, error) {
	var s Selection
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Selection{}, fmt.Errorf("decode selection: %w", err)
	}
	if s.Kind > KindAllExcept {
		return Selection{}, fmt.Errorf("decode selection: kind %d: %w", s.Kind, ErrInvalidDescriptor)
	}
	return s.Normalize(), nil
}
