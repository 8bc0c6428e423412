// Package store defines the storage collaborators the metadata engine reads
// and writes through: the raw extended-attribute primitive, the read-only
// metadata-item store, the resource-key store and the automation channel.
package store

import "context"

// Well-known physical keys.
const (
	// FinderInfoKey is the extended attribute holding the legacy 32-byte
	// FinderInfo record.
	FinderInfoKey = "com.apple.FinderInfo"

	// MetadataPrefix namespaces the structured metadata extended attributes.
	MetadataPrefix = "com.apple.metadata:"

	// UserTagsKey is the extended attribute holding Finder tags.
	UserTagsKey = "com.apple.metadata:_kMDItemUserTags"

	// Resource keys understood by the resource-key store.
	ResourceTagNamesKey    = "NSURLTagNamesKey"
	ResourceLabelNumberKey = "NSURLLabelNumberKey"
)

// ExtendedAttributes is the raw byte-level extended attribute primitive.
// Get returns data.ErrNotExist for an absent key; callers treat that as a
// defined empty result, never a failure.
type ExtendedAttributes interface {
	// Name returns the identifier name defined for this store
	Name() string
	// Open is part of the lifecycle behaviour and gets called before first use.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and gets called when done.
	Close(ctx context.Context) error

	Get(ctx context.Context, path string, key string) ([]byte, error)
	Set(ctx context.Context, path string, key string, value []byte) error
	Remove(ctx context.Context, path string, key string) error
	List(ctx context.Context, path string) ([]string, error)

	// GetCapabilities returns the capabilities supported by this store.
	GetCapabilities() *Capabilities
}

// MetadataItemReader reads structured per-file metadata keyed by the
// documented attribute identifiers (e.g. kMDItemAuthors). There is no public
// write path for this store.
type MetadataItemReader interface {
	// CopyItemValue returns the native value for the given attribute key, or
	// data.ErrNotExist when the item carries no such attribute.
	CopyItemValue(ctx context.Context, path string, key string) (any, error)
}

// ResourceKeys is the read/write per-file property store keyed by resource
// keys. Only a subset of keys is write-capable; writes to read-only keys
// fail with data.ErrReadOnly.
type ResourceKeys interface {
	GetResourceValue(ctx context.Context, path string, key string) (any, error)
	SetResourceValue(ctx context.Context, path string, key string, value any) error
}

// ScriptRunner executes an automation script. It is the only write path for
// fields with no public write API; failures surface as
// data.ErrAutomationUnavailable.
type ScriptRunner interface {
	RunScript(ctx context.Context, script string) error
}

// Stores bundles the collaborators a metadata object operates through.
type Stores struct {
	Xattr      ExtendedAttributes
	Items      MetadataItemReader
	Resources  ResourceKeys
	Automation ScriptRunner
}
