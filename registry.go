package macmeta

import (
	"fmt"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/store"
)

// Backend identifies one of the physical stores an attribute can bind to.
type Backend int

const (
	MetadataItemStore Backend = iota
	ResourceKeyStore
	ExtendedAttributeStore
	LegacyBinaryRecord
	CommentChannel
)

func (b Backend) String() string {
	switch b {
	case MetadataItemStore:
		return "mditem"
	case ResourceKeyStore:
		return "resource"
	case ExtendedAttributeStore:
		return "xattr"
	case LegacyBinaryRecord:
		return "finderinfo"
	case CommentChannel:
		return "comment"
	default:
		return "unknown"
	}
}

// Subfield keys for LegacyBinaryRecord bindings.
const (
	finderInfoColor      = "color"
	finderInfoStationery = "stationery"
)

// Binding ties an attribute to a physical key in one backend. An attribute
// bound to several backends forms a mirror set kept consistent on write.
type Binding struct {
	Backend Backend
	// Key is the physical key inside the backend: the xattr name, the item
	// key, the resource key, or the FinderInfo subfield.
	Key   string
	Read  bool
	Write bool
}

// Attribute describes one logical metadata attribute: its three names, its
// canonical value kind and the ordered backend bindings it operates through.
// Descriptors are immutable once the registry is built.
type Attribute struct {
	// Name is the canonical short name, e.g. "tags".
	Name string
	// Constant is the item-key constant, e.g. "kMDItemUserTags".
	Constant string
	// XattrKey is the long constant, e.g.
	// "com.apple.metadata:_kMDItemUserTags".
	XattrKey string
	// Aliases are extra accepted spellings beyond the three names.
	Aliases []string

	Kind     data.ValueKind
	Bindings []Binding

	// Help is the one-line description shown by the command line tool.
	Help string
}

// mditemAttr builds the common descriptor shape: read through the metadata
// item store, read/write through the structured extended attribute.
func mditemAttr(name, constant string, kind data.ValueKind, help string) *Attribute {
	xattrKey := store.MetadataPrefix + constant
	return &Attribute{
		Name:     name,
		Constant: constant,
		XattrKey: xattrKey,
		Kind:     kind,
		Help:     help,
		Bindings: []Binding{
			{Backend: MetadataItemStore, Key: constant, Read: true},
			{Backend: ExtendedAttributeStore, Key: xattrKey, Read: true, Write: true},
		},
	}
}

var attributeTable = []*Attribute{
	mditemAttr("authors", "kMDItemAuthors", data.KindStringList,
		"The author, or authors, of the contents of the file."),
	mditemAttr("comment", "kMDItemComment", data.KindString,
		"A comment related to the file; distinct from the Finder comment."),
	mditemAttr("copyright", "kMDItemCopyright", data.KindString,
		"The copyright owner of the file contents."),
	mditemAttr("creator", "kMDItemCreator", data.KindString,
		"Application used to create the document content."),
	mditemAttr("description", "kMDItemDescription", data.KindString,
		"A description of the content of the file."),
	mditemAttr("downloadeddate", "kMDItemDownloadedDate", data.KindDateTimeList,
		"The date the file was downloaded."),
	mditemAttr("duedate", "kMDItemDueDate", data.KindDateTime,
		"The date the item is due."),
	{
		Name:     "findercomment",
		Constant: "kMDItemFinderComment",
		XattrKey: store.MetadataPrefix + "kMDItemFinderComment",
		Kind:     data.KindString,
		Help:     "The Finder comment of the file; written through the automation channel.",
		Bindings: []Binding{
			{Backend: MetadataItemStore, Key: "kMDItemFinderComment", Read: true},
			{Backend: CommentChannel, Key: "kMDItemFinderComment", Write: true},
			{Backend: ExtendedAttributeStore, Key: store.MetadataPrefix + "kMDItemFinderComment", Read: true, Write: true},
		},
	},
	mditemAttr("headline", "kMDItemHeadline", data.KindString,
		"A publishable entry providing a synopsis of the contents of the file."),
	mditemAttr("keywords", "kMDItemKeywords", data.KindStringList,
		"Keywords associated with the file."),
	mditemAttr("participants", "kMDItemParticipants", data.KindStringList,
		"The list of people who are visible in an image or document."),
	mditemAttr("projects", "kMDItemProjects", data.KindStringList,
		"The list of projects the file is part of."),
	mditemAttr("rating", "kMDItemStarRating", data.KindInteger,
		"User rating of the file (number of stars)."),
	{
		Name:     "tags",
		Constant: "kMDItemUserTags",
		XattrKey: store.UserTagsKey,
		Aliases:  []string{"_kMDItemUserTags"},
		Kind:     data.KindTagList,
		Help:     "Finder tags: named, optionally colored labels.",
		Bindings: []Binding{
			{Backend: ExtendedAttributeStore, Key: store.UserTagsKey, Read: true, Write: true},
			{Backend: ResourceKeyStore, Key: store.ResourceTagNamesKey, Read: true, Write: true},
			{Backend: LegacyBinaryRecord, Key: finderInfoColor, Read: true, Write: true},
		},
	},
	mditemAttr("version", "kMDItemVersion", data.KindString,
		"The version number of the file."),
	mditemAttr("wherefroms", "kMDItemWhereFroms", data.KindStringList,
		"Where the file came from, e.g. the download URLs."),
	{
		Name:     "findercolor",
		Constant: "FinderColor",
		XattrKey: store.FinderInfoKey + ":color",
		Kind:     data.KindInteger,
		Help:     "The Finder label color id (0-7) from the FinderInfo record.",
		Bindings: []Binding{
			{Backend: LegacyBinaryRecord, Key: finderInfoColor, Read: true, Write: true},
			{Backend: ResourceKeyStore, Key: store.ResourceLabelNumberKey, Read: true},
		},
	},
	{
		Name:     "stationery",
		Constant: "kMDItemFSIsStationery",
		XattrKey: store.FinderInfoKey + ":stationery",
		Kind:     data.KindBoolean,
		Help:     "The stationery pad flag from the FinderInfo record.",
		Bindings: []Binding{
			{Backend: LegacyBinaryRecord, Key: finderInfoStationery, Read: true, Write: true},
		},
	},
}

// The registry is process-wide, read-only and constructed once; no mutation
// API exists.
var registryIndex = buildRegistryIndex()

func buildRegistryIndex() map[string]*Attribute {
	index := make(map[string]*Attribute)
	add := func(name string, attr *Attribute) {
		if name == "" {
			return
		}
		if existing, clash := index[name]; clash && existing != attr {
			panic(fmt.Sprintf("macmeta: attribute name '%s' registered twice", name))
		}
		index[name] = attr
	}
	for _, attr := range attributeTable {
		add(attr.Name, attr)
		add(attr.Constant, attr)
		add(attr.XattrKey, attr)
		for _, alias := range attr.Aliases {
			add(alias, attr)
		}
	}
	return index
}

// Resolve looks an attribute up by any of its names: canonical short name,
// item-key constant or long constant.
func Resolve(name string) (*Attribute, error) {
	attr, ok := registryIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", data.ErrAttributeNotSupported, name)
	}
	return attr, nil
}

// Attributes enumerates every registered descriptor in table order.
func Attributes() []*Attribute {
	out := make([]*Attribute, len(attributeTable))
	copy(out, attributeTable)
	return out
}
