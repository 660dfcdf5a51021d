// Package metadata reads the human-readable comment attached to a file or
// folder. Folders carry a Directory Opus record in a named stream; files carry
// the Comments property of their SummaryInformation property set.
package metadata

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"lsmeta/internal/constants"
	apperrors "lsmeta/internal/errors"
)

// Platform abstracts the OS facilities the Reader consumes.
type Platform interface {
	// Name identifies the variant in logs.
	Name() string
	IsDir(path string) (bool, error)
	// OpenStream opens a named auxiliary stream attached to path.
	OpenStream(path, stream string) (io.ReadCloser, error)
	// SummaryComment returns the Comments property of the file's
	// SummaryInformation property set.
	SummaryComment(path string) (string, error)
}

// Source yields the comment attached to a path.
type Source interface {
	Comment(path string) (string, error)
}

// Reader retrieves comments through a Platform.
type Reader struct {
	platform Platform
	log      logrus.FieldLogger
}

// Option configures a Reader.
type Option func(*Reader)

// WithPlatform overrides the platform chosen for runtime.GOOS.
func WithPlatform(p Platform) Option {
	return func(r *Reader) { r.platform = p }
}

// WithLogger sets the logger used for collapsed failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Reader) { r.log = l }
}

// NewReader creates a Reader for the current OS.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	if r.platform == nil {
		r.platform = NewPlatform()
	}
	if r.log == nil {
		r.log = logrus.StandardLogger()
	}
	return r
}

// Comment returns the comment attached to path. Directories are read from the
// Opus stream, files from their property set.
func (r *Reader) Comment(path string) (string, error) {
	path = trimTrailingSeparators(path)

	isDir, err := r.platform.IsDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.NewFileSystemError("stat", path, "path does not exist", apperrors.ErrNoMetadata)
		}
		return "", apperrors.NewFileSystemError("stat", path, "cannot query attributes", err)
	}

	if isDir {
		return r.directoryComment(path)
	}
	return r.fileComment(path)
}

func (r *Reader) directoryComment(path string) (string, error) {
	stream, err := r.platform.OpenStream(path, constants.OpusStreamName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = apperrors.ErrNoMetadata
		}
		return "", apperrors.NewMetadataError("open_stream", path, "no Opus stream", err)
	}
	defer stream.Close()

	comment, err := ReadOpusComment(stream)
	if err != nil {
		return "", apperrors.NewMetadataError("read_stream", path, "cannot parse Opus record", err)
	}
	if comment == "" {
		return "", apperrors.NewMetadataError("read_stream", path, "empty comment", apperrors.ErrNoMetadata)
	}
	return comment, nil
}

func (r *Reader) fileComment(path string) (string, error) {
	comment, err := r.platform.SummaryComment(path)
	if err != nil {
		return "", apperrors.NewMetadataError("read_property", path, "no Comments property", err)
	}
	if comment == "" {
		return "", apperrors.NewMetadataError("read_property", path, "empty comment", apperrors.ErrNoMetadata)
	}
	return comment, nil
}

// Retrieve copies the comment for path into buf, whose usable size is
// capacity bytes. It returns the number of UTF-16 units written, or 0 on any
// failure, in which case buf is left untouched.
func (r *Reader) Retrieve(path string, buf []uint16, capacity int) int {
	comment, err := r.Comment(path)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"path":     path,
			"platform": r.platform.Name(),
		}).WithError(err).Debug("no metadata retrieved")
		return 0
	}

	units := capacity / 2
	if units > len(buf) {
		units = len(buf)
	}
	return CopyUTF16(buf[:max(units, 0)], comment)
}

// trimTrailingSeparators drops trailing separators, leaving volume roots such
// as `C:\` and `/` intact.
func trimTrailingSeparators(path string) string {
	vol := filepath.VolumeName(path)
	for len(path) > len(vol)+1 && os.IsPathSeparator(path[len(path)-1]) {
		path = path[:len(path)-1]
	}
	return path
}
