// Package macmeta reads and writes macOS file metadata: Finder tags and
// label colors, Finder comments, the stationery pad flag and the structured
// kMDItem* attributes. One logical attribute may live in several physical
// stores at once; the metadata object keeps those representations consistent
// on every write.
package macmeta

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/macmeta/macmeta/log"
	"github.com/macmeta/macmeta/store"
)

// Version of the metadata engine; recorded in backup files.
const Version = "1.0.0"

// MaxFinderComment is the longest Finder comment the desktop shell accepts.
const MaxFinderComment = 750

// MetadataObject is the per-file entry point. It is not a cache: every read
// goes back to the underlying stores, and every write is committed
// immediately. There is no transaction boundary across calls.
type MetadataObject struct {
	path     string
	fileName string
	stores   *store.Stores
	tzAware  bool
	asUTC    bool
	log      *log.Logger
}

type Option func(*MetadataObject)

// WithStores replaces the default platform stores.
func WithStores(s *store.Stores) Option {
	return func(m *MetadataObject) { m.stores = s }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(m *MetadataObject) { m.log = l.Named("metadata") }
}

// WithTZAware makes datetime reads return UTC instead of local time.
func WithTZAware(aware bool) Option {
	return func(m *MetadataObject) { m.tzAware = aware }
}

// WithTreatNaiveAsUTC makes datetime writes interpret zone-less wall clocks
// as UTC instead of local time.
func WithTreatNaiveAsUTC(asUTC bool) Option {
	return func(m *MetadataObject) { m.asUTC = asUTC }
}

// New creates a metadata object for the file at path. The file must exist.
func New(path string, opts ...Option) (*MetadataObject, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("macmeta: %w", err)
	}

	m := &MetadataObject{
		path:     abs,
		fileName: filepath.Base(abs),
		stores:   defaultStores(),
		log:      log.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Path returns the absolute path of the file the object operates on.
func (m *MetadataObject) Path() string {
	return m.path
}

// FileName returns the base name of the file.
func (m *MetadataObject) FileName() string {
	return m.fileName
}

// TZAware reports whether datetime reads return UTC.
func (m *MetadataObject) TZAware() bool {
	return m.tzAware
}

// SetTZAware toggles whether datetime reads return UTC.
func (m *MetadataObject) SetTZAware(aware bool) {
	m.tzAware = aware
}
