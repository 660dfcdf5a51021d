package metadata

import (
	"encoding/binary"
	"fmt"
	"io"

	apperrors "lsmeta/internal/errors"
)

// Opus record layout, format version 1. All fields are little-endian.
//
//	offset  0  TotalSize      uint32  bytes from stream start to the comment
//	offset  4  Flags          uint32
//	offset  8  Rating         uint32
//	offset 12  CommentLength  uint32  comment length in UTF-16 units
//	offset 16  padding        TotalSize-16 bytes
//	offset TotalSize          comment, CommentLength UTF-16LE units
const (
	OpusHeaderSize = 16

	// Upper bound on CommentLength; larger values are treated as corrupt.
	maxOpusCommentUnits = 64 * 1024
	maxOpusPadding      = 1 << 20
)

// OpusHeader is the fixed-size record at the start of a folder's Opus stream.
type OpusHeader struct {
	TotalSize     uint32
	Flags         uint32
	Rating        uint32
	CommentLength uint32
}

// Padding returns the number of bytes between the header and the comment.
func (h OpusHeader) Padding() int64 {
	return int64(h.TotalSize) - OpusHeaderSize
}

func (h OpusHeader) validate() error {
	switch {
	case h.TotalSize < OpusHeaderSize:
		return fmt.Errorf("%w: total size %d below header size", apperrors.ErrMalformed, h.TotalSize)
	case h.Padding() > maxOpusPadding:
		return fmt.Errorf("%w: padding of %d bytes", apperrors.ErrMalformed, h.Padding())
	case h.CommentLength > maxOpusCommentUnits:
		return fmt.Errorf("%w: comment length %d", apperrors.ErrMalformed, h.CommentLength)
	}
	return nil
}

// ReadOpusHeader decodes the fixed header from r.
func ReadOpusHeader(r io.Reader) (OpusHeader, error) {
	var h OpusHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return OpusHeader{}, fmt.Errorf("%w: header: %v", apperrors.ErrMalformed, err)
	}
	return h, h.validate()
}

// ReadOpusComment parses a complete Opus stream and returns its comment.
// A stream that ends before CommentLength units is malformed; the trailing
// NUL unit is optional.
func ReadOpusComment(r io.Reader) (string, error) {
	h, err := ReadOpusHeader(r)
	if err != nil {
		return "", err
	}

	if pad := h.Padding(); pad > 0 {
		if _, err := io.CopyN(io.Discard, r, pad); err != nil {
			return "", fmt.Errorf("%w: padding: %v", apperrors.ErrMalformed, err)
		}
	}

	units := make([]uint16, h.CommentLength)
	if err := binary.Read(r, binary.LittleEndian, units); err != nil {
		return "", fmt.Errorf("%w: comment: %v", apperrors.ErrMalformed, err)
	}
	return decodeUTF16(units), nil
}
