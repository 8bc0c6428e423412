package store

import (
	"fmt"

	"howett.net/plist"

	"github.com/macmeta/macmeta/data"
)

// The structured metadata extended attributes (com.apple.metadata:*) carry
// their values as binary property lists.

// EncodePlist serializes a canonical value to a binary property list.
func EncodePlist(v data.Value) ([]byte, error) {
	native := v.ToNative()
	if native == nil {
		return nil, fmt.Errorf("%w: cannot encode a null value", data.ErrTypeMismatch)
	}
	raw, err := plist.Marshal(native, plist.BinaryFormat)
	if err != nil {
		return nil, fmt.Errorf("macmeta: plist encode failed: %w", err)
	}
	return raw, nil
}

// DecodePlist deserializes a binary (or XML) property list payload into a
// canonical value of the given kind.
func DecodePlist(kind data.ValueKind, raw []byte) (data.Value, error) {
	var native any
	if _, err := plist.Unmarshal(raw, &native); err != nil {
		return data.Value{}, fmt.Errorf("%w: plist decode failed: %v", data.ErrBinaryDecode, err)
	}
	return data.FromNative(kind, native)
}
