//go:build darwin

package xattr

import "golang.org/x/sys/unix"

// Darwin reports a missing attribute as ENOATTR.
const errNoAttr = unix.ENOATTR
