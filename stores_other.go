//go:build !darwin && !linux

package macmeta

import (
	"github.com/macmeta/macmeta/store"
	"github.com/macmeta/macmeta/store/memory"
	"github.com/macmeta/macmeta/store/resource"
	"github.com/macmeta/macmeta/store/script"
	"github.com/macmeta/macmeta/store/spotlight"
)

// Hosts without extended attribute syscalls fall back to the in-memory
// store; persistence requires wiring the sqlite store explicitly.
func defaultStores() *store.Stores {
	xa := memory.New()
	return &store.Stores{
		Xattr:      xa,
		Items:      spotlight.NewReader(xa),
		Resources:  resource.New(xa),
		Automation: script.Unavailable{},
	}
}
