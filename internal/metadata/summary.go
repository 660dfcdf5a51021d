package metadata

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
	"github.com/richardlehane/msoleps/types"

	apperrors "lsmeta/internal/errors"
)

const (
	// PIDSI_COMMENTS in FMTID_SummaryInformation.
	commentsPropertyID   = 6
	commentsPropertyName = "Comments"
	codePagePropertyName = "CodePage"

	summaryStreamName = "SummaryInformation"
)

var compoundFileMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// SummaryFromStream parses a serialized SummaryInformation property set
// (MS-OLEPS) and returns its Comments property.
func SummaryFromStream(r io.Reader) (comment string, err error) {
	// msoleps indexes into the stream without bounds checks.
	defer func() {
		if p := recover(); p != nil {
			comment, err = "", fmt.Errorf("%w: property set: %v", apperrors.ErrMalformed, p)
		}
	}()

	props, err := msoleps.NewFrom(r)
	if err != nil {
		return "", fmt.Errorf("%w: property set: %v", apperrors.ErrMalformed, err)
	}

	var codePage uint16
	for _, prop := range props.Property {
		if prop.Name == codePagePropertyName {
			switch v := prop.T.(type) {
			case types.I2:
				codePage = uint16(v)
			case types.UI2:
				codePage = uint16(v)
			}
		}
	}

	for _, prop := range props.Property {
		if prop.Name != commentsPropertyName || prop.T == nil {
			continue
		}
		switch v := prop.T.(type) {
		case types.UnicodeString:
			return v.String(), nil
		case *types.CodeString:
			return decodeCodePage(v.Chars, codePage)
		default:
			return "", fmt.Errorf("%w: Comments has type %s", apperrors.ErrMalformed, prop.Type())
		}
	}
	return "", apperrors.ErrNoMetadata
}

// compoundDocumentComment reads the SummaryInformation stream of an OLE
// compound document such as a legacy Office file.
func compoundDocumentComment(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	magic := make([]byte, len(compoundFileMagic))
	if _, err := io.ReadFull(f, magic); err != nil || !bytes.Equal(magic, compoundFileMagic) {
		return "", apperrors.ErrNoMetadata
	}

	doc, err := mscfb.New(f)
	if err != nil {
		return "", fmt.Errorf("%w: compound file: %v", apperrors.ErrMalformed, err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if msoleps.IsMSOLEPS(entry.Initial) && entry.Name == summaryStreamName {
			return SummaryFromStream(entry)
		}
	}
	return "", apperrors.ErrNoMetadata
}
