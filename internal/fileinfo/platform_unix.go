//go:build !windows
// +build !windows

package fileinfo

import (
	"os"
	"strings"
)

// IsWindowsHidden reports false; only dot-prefixed names are hidden here
func IsWindowsHidden(path string) bool {
	return false
}

// ReadAttributes approximates the attribute column from the POSIX mode:
// no write permission is read-only, dot names are hidden and symlinks are
// reparse points
func ReadAttributes(path string, name string, info os.FileInfo) Attributes {
	var attrs Attributes
	if info == nil {
		return attrs
	}
	if info.Mode().Perm()&0222 == 0 {
		attrs |= AttrReadOnly
	}
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		attrs |= AttrHidden
	}
	if info.Mode()&os.ModeSymlink != 0 {
		attrs |= AttrReparsePoint
	}
	return attrs
}
