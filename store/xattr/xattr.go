//go:build darwin || linux

// Package xattr provides the extended-attribute store backed by the
// operating system's own xattr syscalls.
package xattr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/macmeta/macmeta/data"
	"github.com/macmeta/macmeta/store"
)

type Store struct{}

func New() *Store {
	return &Store{}
}

// Name returns the identifier name defined for this store
func (*Store) Name() string {
	return "xattr"
}

// Open is part of the lifecycle behaviour and gets called before first use.
func (s *Store) Open(ctx context.Context) error {
	return nil
}

// Close is part of the lifecycle behaviour and gets called when done.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// GetCapabilities returns the capabilities supported by this store.
func (s *Store) GetCapabilities() *store.Capabilities {
	return &store.Capabilities{
		Capabilities: []store.Capability{
			store.CapabilityPersistent,
			store.CapabilityNative,
		},
	}
}

func (s *Store) Get(ctx context.Context, path, key string) ([]byte, error) {
	// Probe for size first; the attribute can grow between the two calls,
	// so retry until the buffer fits.
	for {
		size, err := unix.Getxattr(path, key, nil)
		if err != nil {
			return nil, mapErrno("getxattr", path, key, err)
		}
		if size == 0 {
			return []byte{}, nil
		}
		buf := make([]byte, size)
		read, err := unix.Getxattr(path, key, buf)
		if errors.Is(err, unix.ERANGE) {
			continue
		}
		if err != nil {
			return nil, mapErrno("getxattr", path, key, err)
		}
		return buf[:read], nil
	}
}

func (s *Store) Set(ctx context.Context, path, key string, value []byte) error {
	if err := unix.Setxattr(path, key, value, 0); err != nil {
		return mapErrno("setxattr", path, key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, path, key string) error {
	if err := unix.Removexattr(path, key); err != nil {
		return mapErrno("removexattr", path, key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, path string) ([]string, error) {
	for {
		size, err := unix.Listxattr(path, nil)
		if err != nil {
			return nil, mapErrno("listxattr", path, "", err)
		}
		if size == 0 {
			return nil, nil
		}
		buf := make([]byte, size)
		read, err := unix.Listxattr(path, buf)
		if errors.Is(err, unix.ERANGE) {
			continue
		}
		if err != nil {
			return nil, mapErrno("listxattr", path, "", err)
		}
		names := strings.Split(strings.TrimRight(string(buf[:read]), "\x00"), "\x00")
		out := names[:0]
		for _, n := range names {
			if n != "" {
				out = append(out, n)
			}
		}
		return out, nil
	}
}

func mapErrno(op, path, key string, err error) error {
	if errors.Is(err, errNoAttr) {
		return data.ErrNotExist
	}
	if key != "" {
		return fmt.Errorf("macmeta: %s '%s' on '%s': %w", op, key, path, err)
	}
	return fmt.Errorf("macmeta: %s on '%s': %w", op, path, err)
}
