package macmeta

import (
	"context"
	"errors"
	"fmt"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/finderinfo"
	"github.com/macmeta/macmeta/store"
)

// Tags live in three places at once: the _kMDItemUserTags property list,
// the resource-key tag-name list, and the single label color in the
// FinderInfo record. Every tag write re-derives all three so the
// representations agree afterwards.

// getTags reconstructs the canonical tag list, preferring the property
// list. When it is absent but the FinderInfo record carries a color — a
// label applied outside this tool — a single synthetic tag named after the
// color stands in for it.
func (m *MetadataObject) getTags(ctx context.Context) ([]data.Tag, error) {
	raw, err := m.stores.Xattr.Get(ctx, m.path, store.UserTagsKey)
	if err == nil {
		v, err := store.DecodePlist(data.KindTagList, raw)
		if err != nil {
			return nil, err
		}
		return v.Tags(), nil
	}
	if !errors.Is(err, data.ErrNotExist) {
		return nil, err
	}

	record, err := m.stores.Xattr.Get(ctx, m.path, store.FinderInfoKey)
	if errors.Is(err, data.ErrNotExist) {
		return []data.Tag{}, nil
	}
	if err != nil {
		return nil, err
	}
	color, err := finderinfo.DecodeColor(record)
	if err != nil {
		return nil, err
	}
	if color == data.ColorNone {
		return []data.Tag{}, nil
	}
	name, err := data.ColorName(color)
	if err != nil {
		return nil, err
	}
	return []data.Tag{{Name: name, Color: color}}, nil
}

// normalizeTags validates, deduplicates by name (first occurrence wins) and
// applies the reserved-name rule: a reserved label name with no explicit
// color takes its reserved color; explicit colors are honored as given.
func normalizeTags(tags []data.Tag) ([]data.Tag, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]data.Tag, 0, len(tags))
	for _, tag := range tags {
		normalized, err := data.NewTag(tag.Name, tag.Color)
		if err != nil {
			return nil, err
		}
		if seen[normalized.Name] {
			continue
		}
		seen[normalized.Name] = true
		if normalized.Color == data.ColorNone {
			if color, reserved := data.ReservedColor(normalized.Name); reserved {
				normalized.Color = color
			}
		}
		out = append(out, normalized)
	}
	return out, nil
}

// setTags writes all three representations: the property list verbatim, the
// projected name list in order, and the legacy color as the first non-zero
// tag color (an intentionally lossy projection; the record holds one color).
func (m *MetadataObject) setTags(ctx context.Context, tags []data.Tag) error {
	normalized, err := normalizeTags(tags)
	if err != nil {
		return err
	}

	legacyColor := data.ColorNone
	for _, tag := range normalized {
		if tag.Color != data.ColorNone {
			legacyColor = tag.Color
			break
		}
	}

	var succeeded, failed []data.BindingResult
	record := func(backend, key string, err error) {
		result := data.BindingResult{Backend: backend, Key: key, Err: err}
		if err != nil {
			m.log.Warn("tag write failed on %s(%s): %v", backend, key, err)
			failed = append(failed, result)
		} else {
			succeeded = append(succeeded, result)
		}
	}

	raw, err := store.EncodePlist(data.TagListValue(normalized...))
	if err == nil {
		err = m.stores.Xattr.Set(ctx, m.path, store.UserTagsKey, raw)
	}
	record(ExtendedAttributeStore.String(), store.UserTagsKey, err)

	names := make([]string, len(normalized))
	for i, tag := range normalized {
		names[i] = tag.Name
	}
	record(ResourceKeyStore.String(), store.ResourceTagNamesKey,
		m.stores.Resources.SetResourceValue(ctx, m.path, store.ResourceTagNamesKey, names))

	record(LegacyBinaryRecord.String(), finderInfoColor,
		m.writeFinderInfo(ctx, finderInfoColor, data.IntValue(int64(legacyColor))))

	if len(failed) == 0 {
		return nil
	}
	return &data.PartialWriteError{Attribute: "tags", Succeeded: succeeded, Failed: failed}
}

// removeTag drops the tag with the given name; matching ignores color.
func (m *MetadataObject) removeTag(ctx context.Context, name string, strict bool) error {
	tags, err := m.getTags(ctx)
	if err != nil {
		return err
	}
	idx := tagIndex(tags, name)
	if idx < 0 {
		if strict {
			return fmt.Errorf("%w: no tag named '%s'", data.ErrValueNotFound, name)
		}
		return nil
	}
	tags = append(tags[:idx], tags[idx+1:]...)
	return m.setTags(ctx, tags)
}
