package metadata

import (
	"errors"
	"strings"

	"github.com/pkg/xattr"

	"lsmeta/internal/constants"
	apperrors "lsmeta/internal/errors"
)

// XattrSource reads a comment stored in an extended attribute, by default the
// freedesktop user.xdg.comment.
type XattrSource struct {
	Name string
}

// NewXattrSource returns a source for attribute name, or the default name
// when empty.
func NewXattrSource(name string) *XattrSource {
	if name == "" {
		name = constants.DefaultXattrName
	}
	return &XattrSource{Name: name}
}

func (s *XattrSource) Comment(path string) (string, error) {
	if !xattr.XATTR_SUPPORTED {
		return "", apperrors.ErrUnsupported
	}

	data, err := xattr.Get(trimTrailingSeparators(path), s.Name)
	if err != nil {
		var xerr *xattr.Error
		if errors.As(err, &xerr) && errors.Is(xerr.Err, xattr.ENOATTR) {
			return "", apperrors.ErrNoMetadata
		}
		return "", apperrors.NewMetadataError("get_xattr", path, s.Name, err)
	}

	comment := strings.TrimRight(string(data), "\x00")
	if comment == "" {
		return "", apperrors.ErrNoMetadata
	}
	return comment, nil
}
