package data

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors returned by the metadata engine and its stores.
var (
	// Registry errors
	ErrAttributeNotSupported = errors.New("macmeta: attribute not supported")

	// Value errors
	ErrTypeMismatch = errors.New("macmeta: value does not match attribute type")
	ErrValueNotFound = errors.New("macmeta: value not found in attribute")

	// Store errors
	ErrNotExist              = errors.New("macmeta: attribute does not exist")
	ErrReadOnly              = errors.New("macmeta: attribute or key is read-only")
	ErrBinaryDecode          = errors.New("macmeta: malformed binary record")
	ErrAutomationUnavailable = errors.New("macmeta: automation target unavailable")
)

// BindingResult records the outcome of a single backend write during a
// multi-backend set or clear.
type BindingResult struct {
	Backend string
	Key     string
	Err     error
}

// PartialWriteError aggregates the per-binding outcomes of a multi-backend
// write. Earlier successful writes are not rolled back when a later binding
// fails, so callers need the full picture of what was and was not applied.
type PartialWriteError struct {
	Attribute string
	Succeeded []BindingResult
	Failed    []BindingResult
}

func (e *PartialWriteError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "macmeta: partial write for attribute '%s':", e.Attribute)
	for _, r := range e.Succeeded {
		fmt.Fprintf(&sb, " %s(%s)=ok", r.Backend, r.Key)
	}
	for _, r := range e.Failed {
		fmt.Fprintf(&sb, " %s(%s)=%v", r.Backend, r.Key, r.Err)
	}
	return sb.String()
}

func (e *PartialWriteError) Unwrap() error {
	errs := make([]error, 0, len(e.Failed))
	for _, r := range e.Failed {
		errs = append(errs, r.Err)
	}
	return errors.Join(errs...)
}
