package metadata

import (
	"unicode/utf16"

	apperrors "lsmeta/internal/errors"
)

// BoundedSource reads comments through Retrieve with a fixed buffer of
// Capacity bytes, so long comments come back truncated.
type BoundedSource struct {
	Reader   *Reader
	Capacity int
}

func (s BoundedSource) Comment(path string) (string, error) {
	buf := make([]uint16, max(s.Capacity/2, 0))
	n := s.Reader.Retrieve(path, buf, s.Capacity)
	if n == 0 {
		return "", apperrors.ErrNoMetadata
	}
	return decodeUTF16(buf[:n]), nil
}

// CopyUTF16 encodes s as UTF-16 into dst and NUL-terminates it.
//
// At most len(dst)-1 units are written; a surrogate pair that does not fit is
// dropped whole. The return value is the number of units written, excluding
// the terminator. An empty dst receives nothing and 0 is returned.
func CopyUTF16(dst []uint16, s string) int {
	if len(dst) == 0 {
		return 0
	}

	encoded := utf16.Encode([]rune(s))
	n := min(len(encoded), len(dst)-1)
	if n > 0 && n < len(encoded) && isHighSurrogate(encoded[n-1]) {
		n--
	}

	copy(dst, encoded[:n])
	dst[n] = 0
	return n
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u < 0xDC00
}

// decodeUTF16 converts units up to the first NUL.
func decodeUTF16(units []uint16) string {
	for i, u := range units {
		if u == 0 {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}
