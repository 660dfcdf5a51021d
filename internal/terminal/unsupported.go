package terminal

import apperrors "lsmeta/internal/errors"

// Unsupported is both VersionSource and Console for systems without a
// console mode to toggle.
type Unsupported struct{}

func (Unsupported) Version() (Version, error) {
	return Version{}, apperrors.ErrUnsupported
}

func (Unsupported) Mode() (uint32, error) {
	return 0, apperrors.ErrUnsupported
}

func (Unsupported) SetMode(uint32) error {
	return apperrors.ErrUnsupported
}
