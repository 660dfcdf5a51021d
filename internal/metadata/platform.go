package metadata

import (
	"io"

	apperrors "lsmeta/internal/errors"
)

// UnsupportedPlatform reports every capability as unavailable.
type UnsupportedPlatform struct{}

func (UnsupportedPlatform) Name() string { return "unsupported" }

func (UnsupportedPlatform) IsDir(path string) (bool, error) {
	return false, apperrors.ErrUnsupported
}

func (UnsupportedPlatform) OpenStream(path, stream string) (io.ReadCloser, error) {
	return nil, apperrors.ErrUnsupported
}

func (UnsupportedPlatform) SummaryComment(path string) (string, error) {
	return "", apperrors.ErrUnsupported
}
