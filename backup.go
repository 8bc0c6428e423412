package macmeta

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/macmeta/macmeta/data"
)

// BackupFileName is the default backup file written next to the files it
// describes.
const BackupFileName = ".macmeta.json"

// BackupRecord is one file's metadata snapshot: one JSON object per line of
// a backup file, attribute values keyed by their long constant names.
type BackupRecord struct {
	Version  string
	ID       string
	FileName string
	FilePath string
	// Attributes maps long constant names to JSON-ready values.
	Attributes map[string]any
}

// The on-disk shape is flat: meta fields carry a leading underscore so they
// cannot collide with attribute constants.
func (r *BackupRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Attributes)+4)
	for k, v := range r.Attributes {
		flat[k] = v
	}
	flat["_version"] = r.Version
	flat["_id"] = r.ID
	flat["_filename"] = r.FileName
	flat["_filepath"] = r.FilePath
	return json.Marshal(flat)
}

func (r *BackupRecord) UnmarshalJSON(raw []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return err
	}
	take := func(key string) string {
		s, _ := flat[key].(string)
		delete(flat, key)
		return s
	}
	r.Version = take("_version")
	r.ID = take("_id")
	r.FileName = take("_filename")
	r.FilePath = take("_filepath")
	// Drop any remaining private keys from older writers.
	for k := range flat {
		if strings.HasPrefix(k, "_") && !strings.HasPrefix(k, "_kMDItem") {
			delete(flat, k)
		}
	}
	r.Attributes = flat
	return nil
}

// Snapshot captures every registry-known attribute currently set on the
// file as a BackupRecord.
func (m *MetadataObject) Snapshot(ctx context.Context) (*BackupRecord, error) {
	attrs, err := m.AsDict(ctx)
	if err != nil {
		return nil, err
	}
	return &BackupRecord{
		Version:    Version,
		ID:         uuid.NewString(),
		FileName:   m.fileName,
		FilePath:   m.path,
		Attributes: attrs,
	}, nil
}

// AsDict returns all set, registry-known attributes as a JSON-ready map
// keyed by long constant names. Absent attributes are omitted.
func (m *MetadataObject) AsDict(ctx context.Context) (map[string]any, error) {
	out := make(map[string]any)
	for _, attr := range Attributes() {
		v, err := m.Get(ctx, attr.Name)
		if err != nil {
			return nil, fmt.Errorf("macmeta: snapshot of '%s': %w", attr.Name, err)
		}
		if v.IsEmpty() {
			continue
		}
		// The zero color and unset stationery flag are defaults, not data.
		if attr.Name == "findercolor" && v.Int() == 0 {
			continue
		}
		if attr.Name == "stationery" && !v.Bool() {
			continue
		}
		out[attr.XattrKey] = jsonValue(v)
	}
	return out, nil
}

// ToJSON renders the snapshot as a single JSON line.
func (m *MetadataObject) ToJSON(ctx context.Context) (string, error) {
	record, err := m.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Restore applies every known attribute in the record to the file. Unknown
// keys and per-attribute failures are logged and skipped; restore never
// clears attributes missing from the record.
func (m *MetadataObject) Restore(ctx context.Context, record *BackupRecord) error {
	for key, raw := range record.Attributes {
		attr, err := Resolve(key)
		if err != nil {
			m.log.Warn("skipping unknown attribute '%s' for %s", key, m.fileName)
			continue
		}
		value, err := valueFromJSON(attr.Kind, raw)
		if err != nil {
			m.log.Warn("unable to decode attribute '%s' for %s: %v", key, m.fileName, err)
			continue
		}
		if err := m.Set(ctx, attr.Name, value); err != nil {
			m.log.Warn("unable to restore attribute '%s' for %s: %v", key, m.fileName, err)
		}
	}
	return nil
}

// WriteBackupFile merges records into the newline-delimited JSON backup at
// path, keyed by file name. Existing records for files not in the update
// set are kept as-is; records for deleted files are never pruned.
func WriteBackupFile(path string, records []*BackupRecord) error {
	existing, err := LoadBackupFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	updated := make(map[string]*BackupRecord, len(records))
	for _, r := range records {
		updated[r.FileName] = r
	}

	merged := make([]*BackupRecord, 0, len(existing)+len(records))
	for _, r := range existing {
		if replacement, ok := updated[r.FileName]; ok {
			merged = append(merged, replacement)
			delete(updated, r.FileName)
		} else {
			merged = append(merged, r)
		}
	}
	for _, r := range records {
		if _, pending := updated[r.FileName]; pending {
			merged = append(merged, r)
			delete(updated, r.FileName)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range merged {
		raw, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(raw, '\n')); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadBackupFile reads a newline-delimited JSON backup file.
func LoadBackupFile(path string) ([]*BackupRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*BackupRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		record := &BackupRecord{}
		if err := json.Unmarshal([]byte(text), record); err != nil {
			return nil, fmt.Errorf("macmeta: backup file %s line %d: %w", path, line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// jsonValue converts a canonical value to its JSON-ready shape: RFC 3339
// strings for dates, [name, color] pairs for tags.
func jsonValue(v data.Value) any {
	switch v.Kind() {
	case data.KindString:
		return v.Str()
	case data.KindInteger:
		return v.Int()
	case data.KindBoolean:
		return v.Bool()
	case data.KindDateTime:
		return v.Time().Format(time.RFC3339)
	case data.KindStringList:
		return v.Strings()
	case data.KindDateTimeList:
		times := v.Times()
		out := make([]string, len(times))
		for i, t := range times {
			out[i] = t.Format(time.RFC3339)
		}
		return out
	case data.KindTagList:
		tags := v.Tags()
		out := make([][]any, len(tags))
		for i, t := range tags {
			out[i] = []any{t.Name, t.Color}
		}
		return out
	}
	return nil
}

// valueFromJSON is the inverse of jsonValue, tolerant of the shapes
// encoding/json produces (float64 numbers, []any lists).
func valueFromJSON(kind data.ValueKind, raw any) (data.Value, error) {
	switch kind {
	case data.KindTagList:
		list, ok := raw.([]any)
		if !ok {
			return data.Value{}, fmt.Errorf("%w: expected tag pairs but got %T", data.ErrTypeMismatch, raw)
		}
		tags := make([]data.Tag, 0, len(list))
		for _, e := range list {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return data.Value{}, fmt.Errorf("%w: malformed tag pair %v", data.ErrTypeMismatch, e)
			}
			name, ok := pair[0].(string)
			if !ok {
				return data.Value{}, fmt.Errorf("%w: malformed tag name %v", data.ErrTypeMismatch, pair[0])
			}
			color, ok := pair[1].(float64)
			if !ok {
				return data.Value{}, fmt.Errorf("%w: malformed tag color %v", data.ErrTypeMismatch, pair[1])
			}
			tag, err := data.NewTag(name, int(color))
			if err != nil {
				return data.Value{}, err
			}
			tags = append(tags, tag)
		}
		return data.TagListValue(tags...), nil
	default:
		return data.FromNative(kind, raw)
	}
}
