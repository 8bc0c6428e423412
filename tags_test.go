package macmeta

import (
	"context"
	"errors"
	"testing"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/store"
)

func TestTagsRoundTrip(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	in := []data.Tag{
		{Name: "project-x", Color: data.ColorBlue},
		{Name: "plain"},
	}
	if err := m.Set(ctx, "tags", data.TagListValue(in...)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	v, err := m.Get(ctx, "tags")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got := v.Tags()
	if len(got) != 2 || got[0] != in[0] || got[1] != in[1] {
		t.Errorf("round trip produced %+v", got)
	}
}

func TestReservedNameTakesItsColor(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(
		data.Tag{Name: "Foo"},
		data.Tag{Name: "Red"},
	)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	v, err := m.Get(ctx, "tags")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got := v.Tags()
	if len(got) != 2 {
		t.Fatalf("expected 2 tags, got %+v", got)
	}
	if got[0] != (data.Tag{Name: "Foo", Color: data.ColorNone}) {
		t.Errorf("Foo must stay colorless: %+v", got[0])
	}
	if got[1] != (data.Tag{Name: "Red", Color: data.ColorRed}) {
		t.Errorf("Red must take the reserved color: %+v", got[1])
	}

	// The legacy record carries the first non-zero tag color.
	v, err = m.Get(ctx, "findercolor")
	if err != nil || v.Int() != int64(data.ColorRed) {
		t.Errorf("legacy color = %d, %v", v.Int(), err)
	}
}

func TestExplicitColorOnReservedNameWins(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(
		data.Tag{Name: "Red", Color: data.ColorGreen},
	)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, _ := m.Get(ctx, "tags")
	if got := v.Tags(); len(got) != 1 || got[0].Color != data.ColorGreen {
		t.Errorf("explicit color overridden: %+v", got)
	}
}

func TestTagsDeduplicateByName(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(
		data.Tag{Name: "work", Color: data.ColorBlue},
		data.Tag{Name: "work", Color: data.ColorRed},
	)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, _ := m.Get(ctx, "tags")
	got := v.Tags()
	if len(got) != 1 || got[0] != (data.Tag{Name: "work", Color: data.ColorBlue}) {
		t.Errorf("first occurrence must win: %+v", got)
	}
}

func TestAppendTagsNeverDuplicates(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(data.Tag{Name: "work"})); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	// The update flag is irrelevant for tags; names stay unique either way.
	if err := m.Append(ctx, "tags", data.TagListValue(
		data.Tag{Name: "work", Color: data.ColorRed},
		data.Tag{Name: "home"},
	), false); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	v, _ := m.Get(ctx, "tags")
	got := v.Tags()
	if len(got) != 2 || got[0].Name != "work" || got[1].Name != "home" {
		t.Errorf("unexpected tags: %+v", got)
	}
	if got[0].Color != data.ColorNone {
		t.Errorf("existing tag recolored by append: %+v", got[0])
	}
}

func TestRemoveTagMatchesByNameOnly(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(
		data.Tag{Name: "work", Color: data.ColorRed},
		data.Tag{Name: "home", Color: data.ColorBlue},
	)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := m.Remove(ctx, "tags", data.StringValue("work")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	v, _ := m.Get(ctx, "tags")
	if got := v.Tags(); len(got) != 1 || got[0].Name != "home" {
		t.Errorf("unexpected remainder: %+v", got)
	}

	if err := m.Remove(ctx, "tags", data.StringValue("work")); !errors.Is(err, data.ErrValueNotFound) {
		t.Errorf("expected ErrValueNotFound, got %v", err)
	}
	if err := m.Discard(ctx, "tags", data.StringValue("work")); err != nil {
		t.Errorf("discard of absent tag must succeed, got %v", err)
	}

	// The legacy color follows the surviving tags.
	v, _ = m.Get(ctx, "findercolor")
	if v.Int() != int64(data.ColorBlue) {
		t.Errorf("legacy color = %d", v.Int())
	}
}

func TestSyntheticTagFromLegacyColor(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	// A label applied outside the tag list: only the FinderInfo record knows.
	if err := m.Set(ctx, "findercolor", data.IntValue(int64(data.ColorBlue))); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	v, err := m.Get(ctx, "tags")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got := v.Tags()
	if len(got) != 1 || got[0] != (data.Tag{Name: "Blue", Color: data.ColorBlue}) {
		t.Errorf("expected the synthetic Blue tag, got %+v", got)
	}
}

func TestTagWriteUpdatesResourceNames(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(
		data.Tag{Name: "alpha", Color: data.ColorGreen},
		data.Tag{Name: "beta"},
	)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	native, err := m.stores.Resources.GetResourceValue(ctx, m.path, store.ResourceTagNamesKey)
	if err != nil {
		t.Fatalf("resource read failed: %v", err)
	}
	names, ok := native.([]string)
	if !ok || len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("unexpected resource names: %v", native)
	}

	native, err = m.stores.Resources.GetResourceValue(ctx, m.path, store.ResourceLabelNumberKey)
	if err != nil {
		t.Fatalf("label read failed: %v", err)
	}
	if color, _ := native.(int); color != data.ColorGreen {
		t.Errorf("label number = %v", native)
	}
}

func TestClearTagsResetsAllRepresentations(t *testing.T) {
	m, _ := newTestObject(t)
	ctx := context.Background()

	if err := m.Set(ctx, "tags", data.TagListValue(
		data.Tag{Name: "work", Color: data.ColorRed},
	)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := m.Clear(ctx, "tags"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	v, err := m.Get(ctx, "tags")
	if err != nil || !v.IsEmpty() {
		t.Errorf("tags survived the clear: %+v, %v", v.Tags(), err)
	}
	v, err = m.Get(ctx, "findercolor")
	if err != nil || v.Int() != int64(data.ColorNone) {
		t.Errorf("legacy color survived the clear: %d, %v", v.Int(), err)
	}
}

func TestInvalidTagRejected(t *testing.T) {
	m, _ := newTestObject(t)
	err := m.Set(context.Background(), "tags", data.TagListValue(data.Tag{Name: "x", Color: 9}))
	if !errors.Is(err, data.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}
