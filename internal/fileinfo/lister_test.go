package fileinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lsmeta/internal/errors"
)

type mapCommenter map[string]string

func (m mapCommenter) Lookup(path string) string {
	return m[filepath.Base(path)]
}

type failingFileSystem struct {
	RealFileSystem
	err error
}

func (f *failingFileSystem) ReadDir(string) ([]os.DirEntry, error) {
	return nil, f.err
}

func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "A.doc", "notes.md", ".hidden"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
	for _, name := range []string{"photos", "Archive", ".cache"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0755))
	}
	return dir
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func newTestLister(c Commenter) *Lister {
	logger, _ := test.NewNullLogger()
	return NewLister(nil, c, logger)
}

func TestListerList(t *testing.T) {
	dir := makeTree(t)

	testCases := []struct {
		name     string
		opts     ListOptions
		expected []string
	}{
		{
			name:     "directories first",
			opts:     ListOptions{DirectoriesFirst: true},
			expected: []string{"Archive", "photos", "A.doc", "b.txt", "notes.md"},
		},
		{
			name:     "mixed order",
			opts:     ListOptions{},
			expected: []string{"A.doc", "Archive", "b.txt", "notes.md", "photos"},
		},
		{
			name:     "show hidden",
			opts:     ListOptions{ShowHidden: true, DirectoriesFirst: true},
			expected: []string{".cache", "Archive", "photos", ".hidden", "A.doc", "b.txt", "notes.md"},
		},
		{
			name:     "glob filter",
			opts:     ListOptions{Pattern: "*.{txt,md}", DirectoriesFirst: true},
			expected: []string{"b.txt", "notes.md"},
		},
		{
			name:     "files first wins",
			opts:     ListOptions{FilesFirst: true, DirectoriesFirst: true},
			expected: []string{"A.doc", "b.txt", "notes.md", "Archive", "photos"},
		},
		{
			name:     "glob ignores case",
			opts:     ListOptions{Pattern: "a*"},
			expected: []string{"A.doc", "Archive"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			files, err := newTestLister(nil).List(dir, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, names(files))
		})
	}
}

func TestListerAttachesComments(t *testing.T) {
	dir := makeTree(t)
	lister := newTestLister(mapCommenter{"photos": "Holiday 2019", "A.doc": "Annual report"})

	files, err := lister.List(dir, ListOptions{DirectoriesFirst: true})
	require.NoError(t, err)

	comments := make(map[string]string)
	for _, f := range files {
		comments[f.Name] = f.Comment
		assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
	}
	assert.Equal(t, "Holiday 2019", comments["photos"])
	assert.Equal(t, "Annual report", comments["A.doc"])
	assert.Equal(t, "", comments["b.txt"])
}

func TestListerFileDetails(t *testing.T) {
	dir := makeTree(t)

	files, err := newTestLister(nil).List(dir, ListOptions{Pattern: "b.txt"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(len("b.txt")), files[0].Size)
	assert.False(t, files[0].IsDir)
	assert.Equal(t, FileTypeRegular, files[0].FileType)
	assert.False(t, files[0].Modified.IsZero())
}

func TestListerErrors(t *testing.T) {
	_, err := newTestLister(nil).List(t.TempDir(), ListOptions{Pattern: "[unclosed"})
	require.Error(t, err)

	boom := errors.New("permission denied")
	lister := NewLister(&failingFileSystem{err: boom}, nil, nil)
	_, err = lister.List("/anywhere", ListOptions{})
	require.ErrorIs(t, err, boom)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeFileSystem, appErr.Type)
}

func TestListerStat(t *testing.T) {
	dir := makeTree(t)
	lister := newTestLister(mapCommenter{"photos": "Holiday 2019"})

	fi, err := lister.Stat(filepath.Join(dir, "photos"))
	require.NoError(t, err)
	assert.True(t, fi.IsDir)
	assert.Equal(t, FileTypeDirectory, fi.FileType)
	assert.Equal(t, "Holiday 2019", fi.Comment)

	_, err = lister.Stat(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMatchesPattern(t *testing.T) {
	testCases := []struct {
		name, pattern string
		expected      bool
	}{
		{"report.doc", "", true},
		{"report.doc", "*.doc", true},
		{"REPORT.DOC", "*.doc", true},
		{"report.doc", "*.txt", false},
		{"a.go", "*.{go,mod}", true},
	}

	for _, tc := range testCases {
		got, err := MatchesPattern(tc.name, tc.pattern)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "%s ~ %s", tc.name, tc.pattern)
	}

	_, err := MatchesPattern("x", "[")
	assert.Error(t, err)
}

func TestSortFilesByTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	files := func() []FileInfo {
		return []FileInfo{
			{Name: "b", Modified: base},
			{Name: "dir", IsDir: true, Modified: base.Add(time.Hour)},
			{Name: "a", Modified: base},
			{Name: "old", Modified: base.Add(-time.Hour)},
		}
	}

	testCases := []struct {
		name     string
		opts     ListOptions
		expected []string
	}{
		{"oldest first", ListOptions{SortBy: SortOldestFirst, DirectoriesFirst: true}, []string{"old", "a", "b", "dir"}},
		{"newest first", ListOptions{SortBy: SortNewestFirst}, []string{"dir", "a", "b", "old"}},
		{"name", ListOptions{DirectoriesFirst: true}, []string{"dir", "a", "b", "old"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := files()
			SortFiles(got, tc.opts)
			assert.Equal(t, tc.expected, names(got))
		})
	}
}

func TestListerSkipComments(t *testing.T) {
	dir := makeTree(t)
	lister := newTestLister(mapCommenter{"A.doc": "Annual report"})

	files, err := lister.List(dir, ListOptions{Pattern: "A.doc", SkipComments: true})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Empty(t, files[0].Comment)
}

func TestListerSymlinks(t *testing.T) {
	dir := makeTree(t)
	if err := os.Symlink("b.txt", filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "photos"), filepath.Join(dir, "pics")))
	require.NoError(t, os.Symlink("gone", filepath.Join(dir, "broken")))

	files, err := newTestLister(nil).List(dir, ListOptions{})
	require.NoError(t, err)

	byName := make(map[string]FileInfo)
	for _, f := range files {
		byName[f.Name] = f
	}

	link := byName["link.txt"]
	assert.Equal(t, filepath.Join(dir, "b.txt"), link.LinkTarget)
	assert.Equal(t, int64(len("b.txt")), link.Size)
	assert.Equal(t, FileTypeSymlink, link.FileType)
	assert.True(t, link.Attributes.Has(AttrReparsePoint))

	pics := byName["pics"]
	assert.Equal(t, filepath.Join(dir, "photos"), pics.LinkTarget)
	assert.True(t, pics.IsDir)
	assert.Zero(t, pics.Size)

	broken := byName["broken"]
	assert.Equal(t, filepath.Join(dir, "gone"), broken.LinkTarget)
	assert.False(t, broken.IsDir)

	assert.Empty(t, byName["b.txt"].LinkTarget)
}
