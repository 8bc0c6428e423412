//go:build darwin

package macmeta

import (
	"github.com/macmeta/macmeta/store"
	"github.com/macmeta/macmeta/store/resource"
	"github.com/macmeta/macmeta/store/script"
	"github.com/macmeta/macmeta/store/spotlight"
	"github.com/macmeta/macmeta/store/xattr"
)

func defaultStores() *store.Stores {
	xa := xattr.New()
	return &store.Stores{
		Xattr:      xa,
		Items:      spotlight.NewReader(xa),
		Resources:  resource.New(xa),
		Automation: script.Osascript{},
	}
}
