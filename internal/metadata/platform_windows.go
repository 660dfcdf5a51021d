//go:build windows
// +build windows

package metadata

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// windowsPlatform reads NTFS named streams and the NTFS property set storage.
type windowsPlatform struct{}

// NewPlatform returns the platform variant for the running OS.
func NewPlatform() Platform {
	return windowsPlatform{}
}

func (windowsPlatform) Name() string { return "windows" }

func (windowsPlatform) IsDir(path string) (bool, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}

	attrs, err := windows.GetFileAttributes(pathPtr)
	if err != nil {
		if err == windows.ERROR_FILE_NOT_FOUND || err == windows.ERROR_PATH_NOT_FOUND {
			return false, os.ErrNotExist
		}
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_DIRECTORY != 0, nil
}

// OpenStream opens path:stream for reading.
func (windowsPlatform) OpenStream(path, stream string) (io.ReadCloser, error) {
	return os.Open(path + ":" + stream)
}

func (windowsPlatform) SummaryComment(path string) (string, error) {
	return readSummaryComment(path)
}
