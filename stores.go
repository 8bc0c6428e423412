package macmeta

import (
	"github.com/macmeta/macmeta/store"
	"github.com/macmeta/macmeta/store/resource"
	"github.com/macmeta/macmeta/store/spotlight"
)

// ComposeStores builds the standard collaborator set on top of an arbitrary
// extended-attribute store: item reads and resource keys are projections of
// the same attributes.
func ComposeStores(xa store.ExtendedAttributes, runner store.ScriptRunner) *store.Stores {
	return &store.Stores{
		Xattr:      xa,
		Items:      spotlight.NewReader(xa),
		Resources:  resource.New(xa),
		Automation: runner,
	}
}
