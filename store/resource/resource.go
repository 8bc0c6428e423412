// Package resource provides the resource-key store. Tag names live in their
// own key-value slot; the label number is a projection of the FinderInfo
// record, writable through the same read-modify-write discipline the codec
// enforces.
package resource

import (
	"context"
	"errors"
	"fmt"

	"howett.net/plist"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/finderinfo"
	"github.com/macmeta/macmeta/store"
)

// tagNamesKey is the private attribute backing the NSURLTagNamesKey slot.
// Keeping it separate from the user-tags property list preserves the two
// representations as independent stores that the sync engine must reconcile.
const tagNamesKey = "com.macmeta.resource:NSURLTagNamesKey"

type Store struct {
	xattr store.ExtendedAttributes
}

func New(xattr store.ExtendedAttributes) *Store {
	return &Store{xattr: xattr}
}

func (s *Store) GetResourceValue(ctx context.Context, path, key string) (any, error) {
	switch key {
	case store.ResourceTagNamesKey:
		raw, err := s.xattr.Get(ctx, path, tagNamesKey)
		if err != nil {
			return nil, err
		}
		var names []string
		if _, err := plist.Unmarshal(raw, &names); err != nil {
			return nil, fmt.Errorf("%w: resource value for %s: %v", data.ErrBinaryDecode, key, err)
		}
		return names, nil

	case store.ResourceLabelNumberKey:
		record, err := s.xattr.Get(ctx, path, store.FinderInfoKey)
		if errors.Is(err, data.ErrNotExist) {
			return 0, nil
		}
		if err != nil {
			return nil, err
		}
		color, err := finderinfo.DecodeColor(record)
		if err != nil {
			return nil, err
		}
		return color, nil
	}
	return nil, fmt.Errorf("%w: unknown resource key '%s'", data.ErrNotExist, key)
}

func (s *Store) SetResourceValue(ctx context.Context, path, key string, value any) error {
	switch key {
	case store.ResourceTagNamesKey:
		names, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%w: %s expects []string but got %T", data.ErrTypeMismatch, key, value)
		}
		raw, err := plist.Marshal(names, plist.BinaryFormat)
		if err != nil {
			return err
		}
		return s.xattr.Set(ctx, path, tagNamesKey, raw)

	case store.ResourceLabelNumberKey:
		color, ok := value.(int)
		if !ok {
			return fmt.Errorf("%w: %s expects int but got %T", data.ErrTypeMismatch, key, value)
		}
		record, err := s.xattr.Get(ctx, path, store.FinderInfoKey)
		if errors.Is(err, data.ErrNotExist) {
			record = nil
		} else if err != nil {
			return err
		}
		encoded, err := finderinfo.EncodeColor(record, color)
		if err != nil {
			return err
		}
		return s.xattr.Set(ctx, path, store.FinderInfoKey, encoded)
	}
	return fmt.Errorf("%w: resource key '%s'", data.ErrReadOnly, key)
}
