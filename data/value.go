package data

import (
	"fmt"
	"strings"
	"time"
)

// ValueKind discriminates the canonical value types an attribute can hold.
// The kind decides which operations are legal: append, remove, discard and
// update only apply to list kinds.
type ValueKind int

const (
	KindString ValueKind = iota
	KindStringList
	KindInteger
	KindBoolean
	KindDateTime
	KindDateTimeList
	KindTagList
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindStringList:
		return "string-list"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	case KindDateTimeList:
		return "datetime-list"
	case KindTagList:
		return "tag-list"
	default:
		return "unknown"
	}
}

// IsList reports whether the kind holds multiple values.
func (k ValueKind) IsList() bool {
	switch k {
	case KindStringList, KindDateTimeList, KindTagList:
		return true
	}
	return false
}

// Value is the canonical, kind-tagged representation of an attribute value.
// A Value is an immutable snapshot: mutating list operations go through the
// metadata object, never through the Value itself.
type Value struct {
	kind  ValueKind
	null  bool
	str   string
	num   int64
	flag  bool
	t     time.Time
	strs  []string
	times []time.Time
	tags  []Tag
}

// Null returns the absent value for a scalar kind. For list kinds the absent
// value is the empty list, never null.
func Null(kind ValueKind) Value {
	if kind.IsList() {
		return Value{kind: kind}
	}
	return Value{kind: kind, null: true}
}

func StringValue(s string) Value          { return Value{kind: KindString, str: s} }
func IntValue(n int64) Value              { return Value{kind: KindInteger, num: n} }
func BoolValue(b bool) Value              { return Value{kind: KindBoolean, flag: b} }
func TimeValue(t time.Time) Value         { return Value{kind: KindDateTime, t: t} }
func StringListValue(ss ...string) Value  { return Value{kind: KindStringList, strs: ss} }
func TimeListValue(ts ...time.Time) Value { return Value{kind: KindDateTimeList, times: ts} }
func TagListValue(tags ...Tag) Value      { return Value{kind: KindTagList, tags: tags} }

func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether a scalar value is absent.
func (v Value) IsNull() bool { return v.null }

// IsEmpty reports whether the value is absent (scalars) or has no elements
// (lists).
func (v Value) IsEmpty() bool {
	if v.null {
		return true
	}
	switch v.kind {
	case KindStringList:
		return len(v.strs) == 0
	case KindDateTimeList:
		return len(v.times) == 0
	case KindTagList:
		return len(v.tags) == 0
	}
	return false
}

func (v Value) Str() string   { return v.str }
func (v Value) Int() int64    { return v.num }
func (v Value) Bool() bool    { return v.flag }
func (v Value) Time() time.Time { return v.t }

func (v Value) Strings() []string {
	out := make([]string, len(v.strs))
	copy(out, v.strs)
	return out
}

func (v Value) Times() []time.Time {
	out := make([]time.Time, len(v.times))
	copy(out, v.times)
	return out
}

func (v Value) Tags() []Tag {
	out := make([]Tag, len(v.tags))
	copy(out, v.tags)
	return out
}

// Len returns the element count for list kinds and 0 or 1 for scalars.
func (v Value) Len() int {
	if v.null {
		return 0
	}
	switch v.kind {
	case KindStringList:
		return len(v.strs)
	case KindDateTimeList:
		return len(v.times)
	case KindTagList:
		return len(v.tags)
	}
	return 1
}

// Equal compares two values of the same kind. Times compare by instant, not
// location. Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.null != other.null {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInteger:
		return v.num == other.num
	case KindBoolean:
		return v.flag == other.flag
	case KindDateTime:
		return v.t.Equal(other.t)
	case KindStringList:
		if len(v.strs) != len(other.strs) {
			return false
		}
		for i := range v.strs {
			if v.strs[i] != other.strs[i] {
				return false
			}
		}
		return true
	case KindDateTimeList:
		if len(v.times) != len(other.times) {
			return false
		}
		for i := range v.times {
			if !v.times[i].Equal(other.times[i]) {
				return false
			}
		}
		return true
	case KindTagList:
		if len(v.tags) != len(other.tags) {
			return false
		}
		for i := range v.tags {
			if v.tags[i] != other.tags[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Render formats the value for display: RFC 3339 for dates, "name,Color" for
// tags, comma-joined elements for lists.
func (v Value) Render() string {
	if v.null {
		return ""
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return fmt.Sprintf("%d", v.num)
	case KindBoolean:
		return fmt.Sprintf("%t", v.flag)
	case KindDateTime:
		return v.t.Format(time.RFC3339)
	case KindStringList:
		return strings.Join(v.strs, ", ")
	case KindDateTimeList:
		parts := make([]string, len(v.times))
		for i, t := range v.times {
			parts[i] = t.Format(time.RFC3339)
		}
		return strings.Join(parts, ", ")
	case KindTagList:
		parts := make([]string, len(v.tags))
		for i, t := range v.tags {
			parts[i] = t.String()
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// FromNative coerces a backend-native value into a canonical Value of the
// given kind. Native shapes are the ones produced by the property-list codec
// and the resource-key store: string, bool, integer and float variants,
// time.Time, []any and typed slices. A nil native is the absent value.
// Shape mismatches fail with ErrTypeMismatch.
func FromNative(kind ValueKind, native any) (Value, error) {
	if native == nil {
		return Null(kind), nil
	}
	switch kind {
	case KindString:
		s, ok := native.(string)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		return StringValue(s), nil
	case KindInteger:
		n, ok := toInt64(native)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		return IntValue(n), nil
	case KindBoolean:
		b, ok := native.(bool)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		return BoolValue(b), nil
	case KindDateTime:
		t, ok := toTime(native)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		return TimeValue(t), nil
	case KindStringList:
		ss, ok := toStringSlice(native)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		return StringListValue(ss...), nil
	case KindDateTimeList:
		ts, ok := toTimeSlice(native)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		return TimeListValue(ts...), nil
	case KindTagList:
		ss, ok := toStringSlice(native)
		if !ok {
			return Value{}, shapeError(kind, native)
		}
		tags := make([]Tag, len(ss))
		for i, s := range ss {
			tags[i] = TagFromRecord(s)
		}
		return TagListValue(tags...), nil
	}
	return Value{}, shapeError(kind, native)
}

// ToNative converts a canonical Value to the shape the property-list codec
// serializes: string, int64, bool, time.Time (already normalized to UTC by
// the caller), []string. Tags serialize as "name\ncolor" records.
func (v Value) ToNative() any {
	if v.null {
		return nil
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return v.num
	case KindBoolean:
		return v.flag
	case KindDateTime:
		return v.t
	case KindStringList:
		return v.Strings()
	case KindDateTimeList:
		return v.Times()
	case KindTagList:
		records := make([]string, len(v.tags))
		for i, t := range v.tags {
			records[i] = t.Record()
		}
		return records
	}
	return nil
}

func shapeError(kind ValueKind, native any) error {
	return fmt.Errorf("%w: expected %s but got %T", ErrTypeMismatch, kind, native)
}

func toInt64(native any) (int64, bool) {
	switch n := native.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toTime(native any) (time.Time, bool) {
	switch t := native.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func toStringSlice(native any) ([]string, bool) {
	switch s := native.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out, true
	case string:
		// A scalar stored where a list is expected; surface as one element.
		return []string{s}, true
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = str
		}
		return out, true
	}
	return nil, false
}

func toTimeSlice(native any) ([]time.Time, bool) {
	switch s := native.(type) {
	case []time.Time:
		out := make([]time.Time, len(s))
		copy(out, s)
		return out, true
	case time.Time:
		return []time.Time{s}, true
	case []any:
		out := make([]time.Time, len(s))
		for i, e := range s {
			t, ok := toTime(e)
			if !ok {
				return nil, false
			}
			out[i] = t
		}
		return out, true
	}
	return nil, false
}
