//go:build windows
// +build windows

package fileinfo

import (
	"os"

	"golang.org/x/sys/windows"
)

// IsWindowsHidden checks if a file has the Windows hidden attribute
func IsWindowsHidden(path string) bool {
	attrs, ok := getFileAttributes(path)
	return ok && attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

// ReadAttributes returns the file's attribute bits as reported by the system
func ReadAttributes(path string, name string, info os.FileInfo) Attributes {
	attrs, ok := getFileAttributes(path)
	if !ok {
		return 0
	}
	return Attributes(attrs) & attrMask
}

func getFileAttributes(path string) (uint32, bool) {
	// Convert Go string to UTF-16 for Windows API
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, false
	}

	attrs, err := windows.GetFileAttributes(pathPtr)
	if err != nil {
		return 0, false
	}
	return attrs, true
}
