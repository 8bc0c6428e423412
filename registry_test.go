package macmeta

import (
	"errors"
	"testing"

	"github.com/macmeta/macmeta/data"
)

func TestResolveByEveryName(t *testing.T) {
	names := []string{
		"tags",
		"kMDItemUserTags",
		"com.apple.metadata:_kMDItemUserTags",
		"_kMDItemUserTags",
	}
	for _, name := range names {
		attr, err := Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", name, err)
			continue
		}
		if attr.Name != "tags" {
			t.Errorf("Resolve(%q) returned '%s'", name, attr.Name)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	if _, err := Resolve("no-such-attribute"); !errors.Is(err, data.ErrAttributeNotSupported) {
		t.Errorf("expected ErrAttributeNotSupported, got %v", err)
	}
}

func TestRegistryShape(t *testing.T) {
	attrs := Attributes()
	if len(attrs) != 18 {
		t.Fatalf("expected 18 attributes, got %d", len(attrs))
	}

	for _, attr := range attrs {
		if attr.Name == "" || attr.Constant == "" || attr.XattrKey == "" {
			t.Errorf("attribute %+v missing a name", attr)
		}
		readable := false
		for _, b := range attr.Bindings {
			if b.Read {
				readable = true
			}
		}
		if !readable {
			t.Errorf("attribute '%s' has no readable binding", attr.Name)
		}
	}
}

func TestMetadataItemBindingsAreReadOnly(t *testing.T) {
	for _, attr := range Attributes() {
		for _, b := range attr.Bindings {
			if b.Backend == MetadataItemStore && b.Write {
				t.Errorf("attribute '%s' declares a metadata-item write binding", attr.Name)
			}
		}
	}
}

func TestStationeryBindsLegacyRecordOnly(t *testing.T) {
	attr, err := Resolve("stationery")
	if err != nil {
		t.Fatal(err)
	}
	if attr.Kind != data.KindBoolean {
		t.Errorf("stationery must be boolean, got %s", attr.Kind)
	}
	if len(attr.Bindings) != 1 || attr.Bindings[0].Backend != LegacyBinaryRecord {
		t.Errorf("unexpected bindings: %+v", attr.Bindings)
	}
}
