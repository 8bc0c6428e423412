// Package spotlight provides a metadata-item reader that materializes item
// values from the structured com.apple.metadata extended attributes, the
// same attributes the OS indexer reads. It is read-only: there is no public
// write path for the metadata-item store.
package spotlight

import (
	"context"

	"howett.net/plist"

	"github.com/macmeta/macmeta/store"
)

type Reader struct {
	xattr store.ExtendedAttributes
}

func NewReader(xattr store.ExtendedAttributes) *Reader {
	return &Reader{xattr: xattr}
}

// CopyItemValue reads the attribute with the given item key (e.g.
// kMDItemAuthors) and returns its native value. Tags use the underscored
// spelling of their item key.
func (r *Reader) CopyItemValue(ctx context.Context, path, key string) (any, error) {
	xattrKey := store.MetadataPrefix + key
	if key == "kMDItemUserTags" || key == "_kMDItemUserTags" {
		xattrKey = store.UserTagsKey
	}

	raw, err := r.xattr.Get(ctx, path, xattrKey)
	if err != nil {
		return nil, err
	}

	var native any
	if _, err := plist.Unmarshal(raw, &native); err != nil {
		return nil, err
	}
	return native, nil
}
