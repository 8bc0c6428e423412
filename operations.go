package macmeta

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/finderinfo"
	"github.com/macmeta/macmeta/store"
)

// Get resolves the attribute by any of its names and returns its canonical
// value. Tag-like attributes reconcile across their mirror set; all other
// attributes read the first read-capable binding. Absent scalars come back
// null, absent lists come back empty.
func (m *MetadataObject) Get(ctx context.Context, name string) (data.Value, error) {
	attr, err := Resolve(name)
	if err != nil {
		return data.Value{}, err
	}

	if attr.Kind == data.KindTagList {
		tags, err := m.getTags(ctx)
		if err != nil {
			return data.Value{}, err
		}
		return data.TagListValue(tags...), nil
	}

	for _, b := range attr.Bindings {
		if !b.Read {
			continue
		}
		v, err := m.readBinding(ctx, attr, b)
		if err != nil {
			return data.Value{}, err
		}
		return data.PresentValue(v, m.tzAware), nil
	}
	return data.Null(attr.Kind), nil
}

// Set validates the value against the attribute's kind and writes it to
// every write-capable binding in binding order. Earlier writes are not
// rolled back when a later binding fails; the aggregated PartialWriteError
// lists what was and was not applied.
func (m *MetadataObject) Set(ctx context.Context, name string, value data.Value) error {
	attr, err := Resolve(name)
	if err != nil {
		return err
	}
	if value.Kind() != attr.Kind {
		return fmt.Errorf("%w: attribute '%s' holds %s but value is %s",
			data.ErrTypeMismatch, attr.Name, attr.Kind, value.Kind())
	}

	if attr.Kind == data.KindTagList {
		return m.setTags(ctx, value.Tags())
	}
	if attr.Name == "findercomment" && len(value.Str()) > MaxFinderComment {
		return fmt.Errorf("%w: finder comment exceeds %d characters",
			data.ErrTypeMismatch, MaxFinderComment)
	}

	value = data.NormalizeValue(value, m.asUTC)
	return m.writeAll(ctx, attr, value)
}

// Append adds elements to a list attribute. With update set, elements
// already present are skipped (set-union, input order preserved for new
// elements); without it duplicates are allowed, except that tags always
// deduplicate by name.
func (m *MetadataObject) Append(ctx context.Context, name string, value data.Value, update bool) error {
	attr, err := Resolve(name)
	if err != nil {
		return err
	}
	if !attr.Kind.IsList() {
		return fmt.Errorf("%w: append only applies to list attributes, '%s' is %s",
			data.ErrTypeMismatch, attr.Name, attr.Kind)
	}
	if value.Kind() != attr.Kind {
		return fmt.Errorf("%w: attribute '%s' holds %s but value is %s",
			data.ErrTypeMismatch, attr.Name, attr.Kind, value.Kind())
	}

	current, err := m.Get(ctx, attr.Name)
	if err != nil {
		return err
	}

	switch attr.Kind {
	case data.KindTagList:
		// Tags forbid duplicate names regardless of the update flag.
		merged := current.Tags()
		for _, tag := range value.Tags() {
			if tagIndex(merged, tag.Name) < 0 {
				merged = append(merged, tag)
			}
		}
		return m.setTags(ctx, merged)
	case data.KindStringList:
		merged := current.Strings()
		for _, s := range value.Strings() {
			if update && containsString(merged, s) {
				continue
			}
			merged = append(merged, s)
		}
		return m.Set(ctx, attr.Name, data.StringListValue(merged...))
	case data.KindDateTimeList:
		merged := current.Times()
		for _, t := range value.Times() {
			if update && containsTime(merged, t) {
				continue
			}
			merged = append(merged, t)
		}
		return m.Set(ctx, attr.Name, data.TimeListValue(merged...))
	}
	return fmt.Errorf("%w: attribute '%s'", data.ErrTypeMismatch, attr.Name)
}

// Update is Append with set-union semantics.
func (m *MetadataObject) Update(ctx context.Context, name string, value data.Value) error {
	return m.Append(ctx, name, value, true)
}

// Remove deletes an element from a list attribute and fails with
// ErrValueNotFound when the element is absent. Tags match by name only.
func (m *MetadataObject) Remove(ctx context.Context, name string, element data.Value) error {
	return m.removeElement(ctx, name, element, true)
}

// Discard is Remove without the error on an absent element.
func (m *MetadataObject) Discard(ctx context.Context, name string, element data.Value) error {
	return m.removeElement(ctx, name, element, false)
}

func (m *MetadataObject) removeElement(ctx context.Context, name string, element data.Value, strict bool) error {
	attr, err := Resolve(name)
	if err != nil {
		return err
	}
	if !attr.Kind.IsList() {
		return fmt.Errorf("%w: remove only applies to list attributes, '%s' is %s",
			data.ErrTypeMismatch, attr.Name, attr.Kind)
	}

	if attr.Kind == data.KindTagList {
		if element.Kind() != data.KindString {
			return fmt.Errorf("%w: tags are removed by name", data.ErrTypeMismatch)
		}
		return m.removeTag(ctx, element.Str(), strict)
	}

	current, err := m.Get(ctx, attr.Name)
	if err != nil {
		return err
	}

	switch attr.Kind {
	case data.KindStringList:
		if element.Kind() != data.KindString {
			return fmt.Errorf("%w: expected a string element", data.ErrTypeMismatch)
		}
		values := current.Strings()
		idx := indexString(values, element.Str())
		if idx < 0 {
			if strict {
				return fmt.Errorf("%w: '%s' not in '%s'", data.ErrValueNotFound, element.Str(), attr.Name)
			}
			return nil
		}
		values = append(values[:idx], values[idx+1:]...)
		return m.Set(ctx, attr.Name, data.StringListValue(values...))
	case data.KindDateTimeList:
		if element.Kind() != data.KindDateTime {
			return fmt.Errorf("%w: expected a datetime element", data.ErrTypeMismatch)
		}
		values := current.Times()
		idx := indexTime(values, element.Time())
		if idx < 0 {
			if strict {
				return fmt.Errorf("%w: '%s' not in '%s'", data.ErrValueNotFound,
					element.Time().Format(time.RFC3339), attr.Name)
			}
			return nil
		}
		values = append(values[:idx], values[idx+1:]...)
		return m.Set(ctx, attr.Name, data.TimeListValue(values...))
	}
	return fmt.Errorf("%w: attribute '%s'", data.ErrTypeMismatch, attr.Name)
}

// Clear removes the attribute from every bound backend. Clearing an absent
// attribute is not an error.
func (m *MetadataObject) Clear(ctx context.Context, name string) error {
	attr, err := Resolve(name)
	if err != nil {
		return err
	}

	var succeeded, failed []data.BindingResult
	for _, b := range attr.Bindings {
		if !b.Write {
			continue
		}
		err := m.clearBinding(ctx, attr, b)
		result := data.BindingResult{Backend: b.Backend.String(), Key: b.Key, Err: err}
		if err != nil {
			m.log.Warn("clear of '%s' failed on %s(%s): %v", attr.Name, result.Backend, b.Key, err)
			failed = append(failed, result)
		} else {
			succeeded = append(succeeded, result)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &data.PartialWriteError{Attribute: attr.Name, Succeeded: succeeded, Failed: failed}
}

// Mirror synchronizes two attributes. List kinds merge into the
// order-preserving union of both and the union is written to both; scalar
// kinds overwrite a with b's current value. The asymmetry is deliberate and
// matches the original tool.
func (m *MetadataObject) Mirror(ctx context.Context, nameA, nameB string) error {
	a, err := Resolve(nameA)
	if err != nil {
		return err
	}
	b, err := Resolve(nameB)
	if err != nil {
		return err
	}
	if a.Kind.IsList() != b.Kind.IsList() {
		return fmt.Errorf("%w: cannot mirror %s against %s", data.ErrTypeMismatch, a.Kind, b.Kind)
	}

	if !a.Kind.IsList() {
		if a.Kind != b.Kind {
			return fmt.Errorf("%w: cannot mirror %s against %s", data.ErrTypeMismatch, a.Kind, b.Kind)
		}
		bv, err := m.Get(ctx, b.Name)
		if err != nil {
			return err
		}
		if bv.IsNull() {
			return m.Clear(ctx, a.Name)
		}
		return m.Set(ctx, a.Name, bv)
	}

	return m.mirrorLists(ctx, a, b)
}

func (m *MetadataObject) mirrorLists(ctx context.Context, a, b *Attribute) error {
	stringKeyed := func(k data.ValueKind) bool {
		return k == data.KindStringList || k == data.KindTagList
	}
	if a.Kind != b.Kind && !(stringKeyed(a.Kind) && stringKeyed(b.Kind)) {
		return fmt.Errorf("%w: cannot mirror %s against %s", data.ErrTypeMismatch, a.Kind, b.Kind)
	}

	av, err := m.Get(ctx, a.Name)
	if err != nil {
		return err
	}
	bv, err := m.Get(ctx, b.Name)
	if err != nil {
		return err
	}

	if a.Kind == data.KindDateTimeList {
		union := av.Times()
		for _, t := range bv.Times() {
			if !containsTime(union, t) {
				union = append(union, t)
			}
		}
		v := data.TimeListValue(union...)
		return errors.Join(m.Set(ctx, a.Name, v), m.Set(ctx, b.Name, v))
	}

	// String-keyed union: element identity is the tag name or the string
	// itself; colors ride along when a side knows them.
	union := listElements(av)
	keys := make(map[string]bool, len(union))
	for _, e := range union {
		keys[e.Name] = true
	}
	for _, e := range listElements(bv) {
		if !keys[e.Name] {
			union = append(union, e)
			keys[e.Name] = true
		}
	}

	return errors.Join(
		m.Set(ctx, a.Name, elementsToValue(a.Kind, union)),
		m.Set(ctx, b.Name, elementsToValue(b.Kind, union)),
	)
}

// List returns the metadata attribute keys actually present on the file,
// limited to the structured metadata and FinderInfo namespaces.
func (m *MetadataObject) List(ctx context.Context) ([]string, error) {
	keys, err := m.stores.Xattr.List(ctx, m.path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, key := range keys {
		if strings.HasPrefix(key, store.MetadataPrefix) || key == store.FinderInfoKey {
			out = append(out, key)
		}
	}
	return out, nil
}

func (m *MetadataObject) readBinding(ctx context.Context, attr *Attribute, b Binding) (data.Value, error) {
	switch b.Backend {
	case ExtendedAttributeStore:
		raw, err := m.stores.Xattr.Get(ctx, m.path, b.Key)
		if errors.Is(err, data.ErrNotExist) {
			return data.Null(attr.Kind), nil
		}
		if err != nil {
			return data.Value{}, err
		}
		return store.DecodePlist(attr.Kind, raw)

	case MetadataItemStore:
		native, err := m.stores.Items.CopyItemValue(ctx, m.path, b.Key)
		if errors.Is(err, data.ErrNotExist) {
			return data.Null(attr.Kind), nil
		}
		if err != nil {
			return data.Value{}, err
		}
		return data.FromNative(attr.Kind, native)

	case ResourceKeyStore:
		native, err := m.stores.Resources.GetResourceValue(ctx, m.path, b.Key)
		if errors.Is(err, data.ErrNotExist) {
			return data.Null(attr.Kind), nil
		}
		if err != nil {
			return data.Value{}, err
		}
		return data.FromNative(attr.Kind, native)

	case LegacyBinaryRecord:
		record, err := m.stores.Xattr.Get(ctx, m.path, store.FinderInfoKey)
		if errors.Is(err, data.ErrNotExist) {
			return data.Null(attr.Kind), nil
		}
		if err != nil {
			return data.Value{}, err
		}
		switch b.Key {
		case finderInfoColor:
			color, err := finderinfo.DecodeColor(record)
			if err != nil {
				return data.Value{}, err
			}
			return data.IntValue(int64(color)), nil
		case finderInfoStationery:
			flag, err := finderinfo.DecodeStationery(record)
			if err != nil {
				return data.Value{}, err
			}
			return data.BoolValue(flag), nil
		}
	}
	return data.Null(attr.Kind), nil
}

func (m *MetadataObject) writeAll(ctx context.Context, attr *Attribute, value data.Value) error {
	var succeeded, failed []data.BindingResult
	for _, b := range attr.Bindings {
		if !b.Write {
			continue
		}
		err := m.writeBinding(ctx, attr, b, value)
		result := data.BindingResult{Backend: b.Backend.String(), Key: b.Key, Err: err}
		if err != nil {
			m.log.Warn("write of '%s' failed on %s(%s): %v", attr.Name, result.Backend, b.Key, err)
			failed = append(failed, result)
		} else {
			succeeded = append(succeeded, result)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &data.PartialWriteError{Attribute: attr.Name, Succeeded: succeeded, Failed: failed}
}

func (m *MetadataObject) writeBinding(ctx context.Context, attr *Attribute, b Binding, value data.Value) error {
	switch b.Backend {
	case ExtendedAttributeStore:
		if value.IsNull() {
			err := m.stores.Xattr.Remove(ctx, m.path, b.Key)
			if errors.Is(err, data.ErrNotExist) {
				return nil
			}
			return err
		}
		raw, err := store.EncodePlist(value)
		if err != nil {
			return err
		}
		return m.stores.Xattr.Set(ctx, m.path, b.Key, raw)

	case ResourceKeyStore:
		switch b.Key {
		case store.ResourceTagNamesKey:
			return m.stores.Resources.SetResourceValue(ctx, m.path, b.Key, namesOf(value))
		case store.ResourceLabelNumberKey:
			return m.stores.Resources.SetResourceValue(ctx, m.path, b.Key, int(value.Int()))
		}
		return fmt.Errorf("%w: resource key '%s'", data.ErrReadOnly, b.Key)

	case LegacyBinaryRecord:
		return m.writeFinderInfo(ctx, b.Key, value)

	case CommentChannel:
		if value.IsNull() || value.Str() == "" {
			return m.stores.Automation.RunScript(ctx, clearFinderCommentScript(m.path))
		}
		return m.stores.Automation.RunScript(ctx, setFinderCommentScript(m.path, value.Str()))

	case MetadataItemStore:
		return fmt.Errorf("%w: metadata item store has no write path", data.ErrReadOnly)
	}
	return fmt.Errorf("%w: backend %s", data.ErrReadOnly, b.Backend)
}

// writeFinderInfo is a read-modify-write of one subfield of the FinderInfo
// record; every other bit of the 32 bytes passes through unchanged.
func (m *MetadataObject) writeFinderInfo(ctx context.Context, key string, value data.Value) error {
	record, err := m.stores.Xattr.Get(ctx, m.path, store.FinderInfoKey)
	if errors.Is(err, data.ErrNotExist) {
		record = nil
	} else if err != nil {
		return err
	}

	var encoded []byte
	switch key {
	case finderInfoColor:
		color := 0
		if !value.IsNull() {
			color = int(value.Int())
		}
		encoded, err = finderinfo.EncodeColor(record, color)
	case finderInfoStationery:
		encoded, err = finderinfo.EncodeStationery(record, !value.IsNull() && value.Bool())
	default:
		return fmt.Errorf("%w: unknown FinderInfo subfield '%s'", data.ErrBinaryDecode, key)
	}
	if err != nil {
		return err
	}
	return m.stores.Xattr.Set(ctx, m.path, store.FinderInfoKey, encoded)
}

func (m *MetadataObject) clearBinding(ctx context.Context, attr *Attribute, b Binding) error {
	switch b.Backend {
	case ExtendedAttributeStore:
		err := m.stores.Xattr.Remove(ctx, m.path, b.Key)
		if errors.Is(err, data.ErrNotExist) {
			return nil
		}
		return err

	case ResourceKeyStore:
		switch b.Key {
		case store.ResourceTagNamesKey:
			return m.stores.Resources.SetResourceValue(ctx, m.path, b.Key, []string{})
		case store.ResourceLabelNumberKey:
			return m.stores.Resources.SetResourceValue(ctx, m.path, b.Key, 0)
		}
		return nil

	case LegacyBinaryRecord:
		// Clear only the subfield, never the whole record.
		record, err := m.stores.Xattr.Get(ctx, m.path, store.FinderInfoKey)
		if errors.Is(err, data.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		var encoded []byte
		switch b.Key {
		case finderInfoColor:
			encoded, err = finderinfo.EncodeColor(record, data.ColorNone)
		case finderInfoStationery:
			encoded, err = finderinfo.EncodeStationery(record, false)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		return m.stores.Xattr.Set(ctx, m.path, store.FinderInfoKey, encoded)

	case CommentChannel:
		return m.stores.Automation.RunScript(ctx, clearFinderCommentScript(m.path))
	}
	return nil
}

// listElement is a string-keyed list member used for cross-kind mirroring.
type listElement struct {
	Name  string
	Color int
}

func listElements(v data.Value) []listElement {
	switch v.Kind() {
	case data.KindTagList:
		tags := v.Tags()
		out := make([]listElement, len(tags))
		for i, t := range tags {
			out[i] = listElement{Name: t.Name, Color: t.Color}
		}
		return out
	case data.KindStringList:
		ss := v.Strings()
		out := make([]listElement, len(ss))
		for i, s := range ss {
			out[i] = listElement{Name: s}
		}
		return out
	}
	return nil
}

func elementsToValue(kind data.ValueKind, elements []listElement) data.Value {
	if kind == data.KindTagList {
		tags := make([]data.Tag, len(elements))
		for i, e := range elements {
			tags[i] = data.Tag{Name: e.Name, Color: e.Color}
		}
		return data.TagListValue(tags...)
	}
	names := make([]string, len(elements))
	for i, e := range elements {
		names[i] = e.Name
	}
	return data.StringListValue(names...)
}

func namesOf(v data.Value) []string {
	switch v.Kind() {
	case data.KindTagList:
		tags := v.Tags()
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		return names
	case data.KindStringList:
		return v.Strings()
	}
	return nil
}

func containsString(values []string, s string) bool {
	return indexString(values, s) >= 0
}

func indexString(values []string, s string) int {
	for i, v := range values {
		if v == s {
			return i
		}
	}
	return -1
}

func containsTime(values []time.Time, t time.Time) bool {
	return indexTime(values, t) >= 0
}

func indexTime(values []time.Time, t time.Time) int {
	for i, v := range values {
		if v.Equal(t) {
			return i
		}
	}
	return -1
}

func tagIndex(tags []data.Tag, name string) int {
	for i, t := range tags {
		if t.Name == name {
			return i
		}
	}
	return -1
}
