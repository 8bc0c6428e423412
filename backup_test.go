package macmeta

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/macmeta/macmeta/data"
)

func TestAsDictSkipsDefaults(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "comment", data.StringValue("kept")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	dict, err := m.AsDict(ctx)
	if err != nil {
		t.Fatalf("AsDict failed: %v", err)
	}
	if len(dict) != 1 {
		t.Errorf("expected only the comment, got %v", dict)
	}
	if dict["com.apple.metadata:kMDItemComment"] != "kept" {
		t.Errorf("unexpected dict: %v", dict)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	due := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	seed := func() {
		if err := m.Set(ctx, "comment", data.StringValue("quarterly report")); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := m.Set(ctx, "keywords", data.StringListValue("finance", "q2")); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := m.Set(ctx, "duedate", data.TimeValue(due)); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := m.Set(ctx, "tags", data.TagListValue(
			data.Tag{Name: "work", Color: data.ColorRed},
			data.Tag{Name: "draft"},
		)); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	seed()

	record, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if record.Version != Version || record.FileName != m.FileName() || record.ID == "" {
		t.Errorf("bad record meta: %+v", record)
	}

	// Serialize through JSON so restore sees the decoded shapes, exactly as
	// it would after reading a backup file.
	raw, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded := &BackupRecord{}
	if err := json.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, name := range []string{"comment", "keywords", "duedate", "tags"} {
		if err := m.Clear(ctx, name); err != nil {
			t.Fatalf("clear %s failed: %v", name, err)
		}
	}

	if err := m.Restore(ctx, decoded); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	v, _ := m.Get(ctx, "comment")
	if v.Str() != "quarterly report" {
		t.Errorf("comment = %q", v.Str())
	}
	v, _ = m.Get(ctx, "keywords")
	if got := strings.Join(v.Strings(), "|"); got != "finance|q2" {
		t.Errorf("keywords = %q", got)
	}
	v, _ = m.Get(ctx, "duedate")
	if !v.Time().Equal(due) {
		t.Errorf("duedate = %v", v.Time())
	}
	v, _ = m.Get(ctx, "tags")
	tags := v.Tags()
	if len(tags) != 2 || tags[0] != (data.Tag{Name: "work", Color: data.ColorRed}) || tags[1] != (data.Tag{Name: "draft"}) {
		t.Errorf("tags = %+v", tags)
	}
}

func TestRestoreSkipsUnknownKeys(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	record := &BackupRecord{
		Version:  Version,
		FileName: m.FileName(),
		FilePath: m.Path(),
		Attributes: map[string]any{
			"com.example.unknown":                  "ignored",
			"com.apple.metadata:kMDItemComment":    "restored",
			"com.apple.metadata:kMDItemStarRating": float64(3),
		},
	}
	if err := m.Restore(ctx, record); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	v, _ := m.Get(ctx, "comment")
	if v.Str() != "restored" {
		t.Errorf("comment = %q", v.Str())
	}
	v, _ = m.Get(ctx, "rating")
	if v.Int() != 3 {
		t.Errorf("rating = %d", v.Int())
	}
}

func TestBackupRecordJSONShape(t *testing.T) {
	record := &BackupRecord{
		Version:  "1.0.0",
		ID:       "abc",
		FileName: "f.txt",
		FilePath: "/tmp/f.txt",
		Attributes: map[string]any{
			"com.apple.metadata:_kMDItemUserTags": [][]any{{"work", 6}},
		},
	}
	raw, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"_version", "_id", "_filename", "_filepath", "com.apple.metadata:_kMDItemUserTags"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("key '%s' missing from %v", key, flat)
		}
	}

	decoded := &BackupRecord{}
	if err := json.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Version != "1.0.0" || decoded.FileName != "f.txt" {
		t.Errorf("meta fields lost: %+v", decoded)
	}
	if _, ok := decoded.Attributes["_version"]; ok {
		t.Error("meta keys leaked into the attribute map")
	}
	if _, ok := decoded.Attributes["com.apple.metadata:_kMDItemUserTags"]; !ok {
		t.Error("attribute key lost")
	}
}

func TestWriteBackupFileMergesByFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), BackupFileName)

	first := []*BackupRecord{
		{Version: Version, ID: "1", FileName: "a.txt", FilePath: "/x/a.txt",
			Attributes: map[string]any{"com.apple.metadata:kMDItemComment": "a-v1"}},
		{Version: Version, ID: "2", FileName: "b.txt", FilePath: "/x/b.txt",
			Attributes: map[string]any{"com.apple.metadata:kMDItemComment": "b-v1"}},
	}
	if err := WriteBackupFile(path, first); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	// Update a.txt, add c.txt; b.txt is untouched and must survive.
	second := []*BackupRecord{
		{Version: Version, ID: "3", FileName: "a.txt", FilePath: "/x/a.txt",
			Attributes: map[string]any{"com.apple.metadata:kMDItemComment": "a-v2"}},
		{Version: Version, ID: "4", FileName: "c.txt", FilePath: "/x/c.txt",
			Attributes: map[string]any{"com.apple.metadata:kMDItemComment": "c-v1"}},
	}
	if err := WriteBackupFile(path, second); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	records, err := LoadBackupFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	byName := make(map[string]*BackupRecord, len(records))
	for _, r := range records {
		byName[r.FileName] = r
	}
	if got := byName["a.txt"].Attributes["com.apple.metadata:kMDItemComment"]; got != "a-v2" {
		t.Errorf("a.txt not replaced: %v", got)
	}
	if got := byName["b.txt"].Attributes["com.apple.metadata:kMDItemComment"]; got != "b-v1" {
		t.Errorf("b.txt not preserved: %v", got)
	}
	if _, ok := byName["c.txt"]; !ok {
		t.Error("c.txt not appended")
	}
}

func TestLoadBackupFileSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), BackupFileName)
	content := `{"_version":"1.0.0","_id":"1","_filename":"a.txt","_filepath":"/x/a.txt"}

{"_version":"1.0.0","_id":"2","_filename":"b.txt","_filepath":"/x/b.txt"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := LoadBackupFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestLoadBackupFileRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), BackupFileName)
	if err := os.WriteFile(path, []byte("not json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBackupFile(path); err == nil {
		t.Error("expected an error for a malformed line")
	}
}

func TestToJSONIsOneLine(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "comment", data.StringValue("x")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	line, err := m.ToJSON(ctx)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(line, "\n") {
		t.Error("snapshot must serialize to a single line")
	}
	if !strings.Contains(line, `"_filename"`) {
		t.Errorf("meta keys missing: %s", line)
	}
}
