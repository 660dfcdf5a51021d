//go:build !windows
// +build !windows

package metadata

import (
	"io"
	"os"

	apperrors "lsmeta/internal/errors"
)

// portablePlatform has no named streams; property sets are only found inside
// OLE compound documents.
type portablePlatform struct{}

// NewPlatform returns the platform variant for the running OS.
func NewPlatform() Platform {
	return portablePlatform{}
}

func (portablePlatform) Name() string { return "portable" }

func (portablePlatform) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (portablePlatform) OpenStream(path, stream string) (io.ReadCloser, error) {
	return nil, apperrors.ErrUnsupported
}

func (portablePlatform) SummaryComment(path string) (string, error) {
	return compoundDocumentComment(path)
}
