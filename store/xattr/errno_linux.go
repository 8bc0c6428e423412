//go:build linux

package xattr

import "golang.org/x/sys/unix"

// Linux reports a missing attribute as ENODATA.
const errNoAttr = unix.ENODATA
