package metadata

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsmeta/internal/constants"
	apperrors "lsmeta/internal/errors"
)

// fakePlatform serves canned streams and properties keyed by path.
type fakePlatform struct {
	dirs      map[string]bool
	streams   map[string][]byte
	summaries map[string]string
	statErr   error

	opened []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		dirs:      make(map[string]bool),
		streams:   make(map[string][]byte),
		summaries: make(map[string]string),
	}
}

func (f *fakePlatform) Name() string { return "fake" }

func (f *fakePlatform) IsDir(path string) (bool, error) {
	if f.statErr != nil {
		return false, f.statErr
	}
	isDir, ok := f.dirs[path]
	if !ok {
		return false, os.ErrNotExist
	}
	return isDir, nil
}

func (f *fakePlatform) OpenStream(path, stream string) (io.ReadCloser, error) {
	f.opened = append(f.opened, path+":"+stream)
	data, ok := f.streams[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakePlatform) SummaryComment(path string) (string, error) {
	comment, ok := f.summaries[path]
	if !ok {
		return "", apperrors.ErrNoMetadata
	}
	return comment, nil
}

func newTestReader(t *testing.T, p Platform) (*Reader, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewReader(WithPlatform(p), WithLogger(logger)), hook
}

func filledBuffer(n int) []uint16 {
	buf := make([]uint16, n)
	for i := range buf {
		buf[i] = 0xFFFF
	}
	return buf
}

func TestReaderComment(t *testing.T) {
	p := newFakePlatform()
	p.dirs["/photos"] = true
	p.streams["/photos"] = encodeOpus(t, "Holiday 2019", 8, true)
	p.dirs["/report.doc"] = false
	p.summaries["/report.doc"] = "Final version"

	r, _ := newTestReader(t, p)

	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "directory", path: "/photos", expected: "Holiday 2019"},
		{name: "directory with trailing slash", path: "/photos/", expected: "Holiday 2019"},
		{name: "directory with repeated slashes", path: "/photos//", expected: "Holiday 2019"},
		{name: "file", path: "/report.doc", expected: "Final version"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Comment(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	for _, opened := range p.opened {
		assert.Equal(t, "/photos:"+constants.OpusStreamName, opened)
	}
}

func TestReaderCommentNoMetadata(t *testing.T) {
	p := newFakePlatform()
	p.dirs["/plain"] = true
	p.dirs["/blank"] = true
	p.streams["/blank"] = encodeOpus(t, "", 0, true)
	p.dirs["/file.txt"] = false
	p.dirs["/empty.doc"] = false
	p.summaries["/empty.doc"] = ""

	r, _ := newTestReader(t, p)

	for _, path := range []string{"/plain", "/blank", "/file.txt", "/empty.doc", "/missing"} {
		t.Run(path, func(t *testing.T) {
			_, err := r.Comment(path)
			require.Error(t, err)
			assert.True(t, apperrors.IsNoMetadata(err), "got %v", err)
		})
	}
}

func TestReaderCommentMalformedStream(t *testing.T) {
	p := newFakePlatform()
	p.dirs["/broken"] = true
	p.streams["/broken"] = []byte{1, 2, 3}

	r, _ := newTestReader(t, p)
	_, err := r.Comment("/broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformed)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeMetadata, appErr.Type)
	assert.Equal(t, "/broken", appErr.Path)
}

func TestReaderCommentStatFailure(t *testing.T) {
	p := newFakePlatform()
	p.statErr = errors.New("access denied")

	r, _ := newTestReader(t, p)
	_, err := r.Comment("/secret")
	require.Error(t, err)
	assert.False(t, apperrors.IsNoMetadata(err))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeFileSystem, appErr.Type)
}

func TestReaderRetrieve(t *testing.T) {
	long := strings.Repeat("x", 100)

	p := newFakePlatform()
	p.dirs["/music"] = true
	p.streams["/music"] = encodeOpus(t, "Live recordings", 0, true)
	p.dirs["/long"] = true
	p.streams["/long"] = encodeOpus(t, long, 0, true)
	p.dirs["/notes.doc"] = false
	p.summaries["/notes.doc"] = "Meeting notes"

	r, _ := newTestReader(t, p)

	testCases := []struct {
		name     string
		path     string
		units    int
		capacity int
		expected string
	}{
		{name: "directory", path: "/music", units: 1024, capacity: 2048, expected: "Live recordings"},
		{name: "directory trailing slash", path: "/music/", units: 1024, capacity: 2048, expected: "Live recordings"},
		{name: "file", path: "/notes.doc", units: 1024, capacity: 2048, expected: "Meeting notes"},
		{name: "truncated to capacity", path: "/long", units: 1024, capacity: 20, expected: long[:9]},
		{name: "capacity larger than buffer", path: "/long", units: 8, capacity: 2048, expected: long[:7]},
		{name: "odd capacity rounds down", path: "/music", units: 64, capacity: 9, expected: "Liv"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := filledBuffer(tc.units)

			n := r.Retrieve(tc.path, buf, tc.capacity)

			assert.Equal(t, len(utf16.Encode([]rune(tc.expected))), n)
			assert.Equal(t, tc.expected, string(utf16.Decode(buf[:n])))
			assert.Equal(t, uint16(0), buf[n])
		})
	}
}

func TestReaderRetrieveFailureLeavesBufferUntouched(t *testing.T) {
	p := newFakePlatform()
	p.dirs["/plain"] = true
	p.dirs["/plain.txt"] = false

	r, hook := newTestReader(t, p)

	for _, path := range []string{"/plain", "/plain.txt", "/missing"} {
		t.Run(path, func(t *testing.T) {
			hook.Reset()
			buf := filledBuffer(16)

			n := r.Retrieve(path, buf, 32)

			assert.Equal(t, 0, n)
			assert.Equal(t, filledBuffer(16), buf)
			require.Len(t, hook.Entries, 1)
			assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
			assert.Equal(t, "fake", hook.LastEntry().Data["platform"])
		})
	}
}

func TestReaderRetrieveZeroCapacity(t *testing.T) {
	p := newFakePlatform()
	p.dirs["/music"] = true
	p.streams["/music"] = encodeOpus(t, "Live recordings", 0, true)

	r, _ := newTestReader(t, p)
	buf := filledBuffer(4)

	assert.Equal(t, 0, r.Retrieve("/music", buf, 0))
	assert.Equal(t, filledBuffer(4), buf)
	assert.Equal(t, 0, r.Retrieve("/music", nil, 2048))
}

func TestUnsupportedPlatform(t *testing.T) {
	r, _ := newTestReader(t, UnsupportedPlatform{})

	_, err := r.Comment("/anything")
	assert.ErrorIs(t, err, apperrors.ErrUnsupported)
	assert.Equal(t, 0, r.Retrieve("/anything", make([]uint16, 8), 16))
}

func TestTrimTrailingSeparators(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "/a/b/", expected: "/a/b"},
		{input: "/a/b///", expected: "/a/b"},
		{input: "/a/b", expected: "/a/b"},
		{input: "/", expected: "/"},
		{input: "", expected: ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, trimTrailingSeparators(tc.input), "input %q", tc.input)
	}
}
