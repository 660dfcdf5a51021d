package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/xattr"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lsmeta/internal/errors"
)

type staticSource struct {
	comment string
	err     error
	calls   int
}

func (s *staticSource) Comment(string) (string, error) {
	s.calls++
	return s.comment, s.err
}

func TestChainFirstNonEmptyWins(t *testing.T) {
	first := &staticSource{err: apperrors.ErrNoMetadata}
	second := &staticSource{comment: "from second"}
	third := &staticSource{comment: "from third"}

	c := NewChain(nil, first, nil, second, third)
	require.Len(t, c.Sources, 3)

	got, err := c.Comment("/x")
	require.NoError(t, err)
	assert.Equal(t, "from second", got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, third.calls)
}

func TestChainLogsUnexpectedFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	failing := &staticSource{err: errors.New("boom")}
	empty := &staticSource{err: apperrors.ErrUnsupported}

	c := NewChain(logger, failing, empty)
	_, err := c.Comment("/x")

	assert.ErrorIs(t, err, apperrors.ErrNoMetadata)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "/x", hook.LastEntry().Data["path"])
	assert.Equal(t, "", c.Lookup("/x"))
}

func TestChainReset(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "descript.ion")
	require.NoError(t, os.WriteFile(index, []byte("a.txt first\n"), 0644))

	c := NewChain(nil, &staticSource{err: apperrors.ErrNoMetadata}, NewDescriptionSource(""))
	assert.Equal(t, "first", c.Lookup(filepath.Join(dir, "a.txt")))

	require.NoError(t, os.WriteFile(index, []byte("a.txt second\n"), 0644))
	assert.Equal(t, "first", c.Lookup(filepath.Join(dir, "a.txt")))

	c.Reset()
	assert.Equal(t, "second", c.Lookup(filepath.Join(dir, "a.txt")))
}

func TestXattrSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))

	s := NewXattrSource("")
	assert.Equal(t, "user.xdg.comment", s.Name)

	if !xattr.XATTR_SUPPORTED {
		_, err := s.Comment(path)
		assert.ErrorIs(t, err, apperrors.ErrUnsupported)
		return
	}

	if err := xattr.Set(path, s.Name, []byte("tagged by test\x00")); err != nil {
		t.Skipf("filesystem does not accept user xattrs: %v", err)
	}

	untagged := filepath.Join(filepath.Dir(path), "untagged.txt")
	require.NoError(t, os.WriteFile(untagged, nil, 0644))
	_, err := s.Comment(untagged)
	assert.ErrorIs(t, err, apperrors.ErrNoMetadata)

	got, err := s.Comment(path)
	require.NoError(t, err)
	assert.Equal(t, "tagged by test", got)
}
