package store

import "slices"

// Capability represents a feature an extended-attribute store can provide.
type Capability string

const (
	// CapabilityPersistent marks stores whose attributes survive process exit.
	CapabilityPersistent Capability = "persistent"
	// CapabilityNative marks stores backed by the operating system's own
	// extended-attribute mechanism.
	CapabilityNative Capability = "native"
	// CapabilityListOrdered marks stores whose List returns keys in sorted
	// order.
	CapabilityListOrdered Capability = "list_ordered"
)

// Capabilities describes what a store supports.
type Capabilities struct {
	Capabilities []Capability `json:"capabilities"`
	// MaxValueSize is the largest attribute payload the store accepts,
	// 0 for unlimited.
	MaxValueSize int64 `json:"max_value_size"`
}

// Contains checks if a capability is supported.
func (c *Capabilities) Contains(cap Capability) bool {
	return slices.Contains(c.Capabilities, cap)
}
