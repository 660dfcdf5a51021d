package fileinfo

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	apperrors "lsmeta/internal/errors"
)

// SortOrder selects the listing order
type SortOrder int

const (
	SortByName SortOrder = iota
	SortOldestFirst
	SortNewestFirst
)

// ListOptions controls which entries a Lister returns and in what order
type ListOptions struct {
	Pattern          string // Doublestar glob matched against entry names
	ShowHidden       bool
	DirectoriesFirst bool
	FilesFirst       bool      // Takes precedence over DirectoriesFirst
	SortBy           SortOrder // Time orders mix directories and files
	SkipComments     bool
}

// Lister reads directories and attaches comments to their entries
type Lister struct {
	fs        FileSystem
	commenter Commenter
	log       logrus.FieldLogger
}

// NewLister creates a Lister. A nil commenter leaves comments empty.
func NewLister(fs FileSystem, commenter Commenter, log logrus.FieldLogger) *Lister {
	if fs == nil {
		fs = &RealFileSystem{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Lister{fs: fs, commenter: commenter, log: log}
}

// MatchesPattern reports whether name matches a doublestar glob. An empty
// pattern matches everything; matching ignores case.
func MatchesPattern(name, pattern string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return false, doublestar.ErrBadPattern
	}
	return doublestar.Match(strings.ToLower(pattern), strings.ToLower(name))
}

// List returns the entries of dir that pass opts
func (l *Lister) List(dir string, opts ListOptions) ([]FileInfo, error) {
	if !doublestar.ValidatePattern(opts.Pattern) {
		return nil, apperrors.NewFileSystemError("list", dir, "invalid pattern "+opts.Pattern, doublestar.ErrBadPattern)
	}

	absDir, err := l.fs.Abs(dir)
	if err != nil {
		absDir = dir
	}

	entries, err := l.fs.ReadDir(absDir)
	if err != nil {
		return nil, apperrors.NewFileSystemError("list", absDir, "error reading directory", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		fullPath := filepath.Join(absDir, entry.Name())

		if !opts.ShowHidden && IsHidden(fullPath, entry.Name()) {
			continue
		}
		if ok, _ := MatchesPattern(entry.Name(), opts.Pattern); !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			l.log.WithField("path", fullPath).WithError(err).Debug("skipping entry")
			continue
		}

		files = append(files, l.describe(fullPath, entry.Name(), info, opts))
	}

	SortFiles(files, opts)
	return files, nil
}

// Stat returns a single entry with its comment
func (l *Lister) Stat(path string) (FileInfo, error) {
	info, err := l.fs.Lstat(path)
	if err != nil {
		return FileInfo{}, apperrors.NewFileSystemError("stat", path, "error reading file", err)
	}
	return l.describe(path, info.Name(), info, ListOptions{}), nil
}

// describe builds a FileInfo from the entry's own (not followed) info.
// Symlinks report the size and kind of their target when it exists.
func (l *Lister) describe(path, name string, info os.FileInfo, opts ListOptions) FileInfo {
	fi := FileInfo{
		Name:       name,
		Path:       path,
		IsDir:      info.IsDir(),
		Size:       info.Size(),
		Modified:   info.ModTime(),
		FileType:   DetermineFileType(path, name, info.IsDir()),
		Attributes: ReadAttributes(path, name, info),
	}

	if info.Mode()&os.ModeSymlink != 0 {
		fi.LinkTarget = l.linkTarget(path)
		if target, err := l.fs.Stat(path); err == nil {
			fi.IsDir = target.IsDir()
			fi.Size = target.Size()
			fi.Modified = target.ModTime()
		} else {
			l.log.WithField("path", path).WithError(err).Debug("dangling symlink")
		}
		if fi.IsDir {
			fi.Size = 0
		}
	}

	if l.commenter != nil && !opts.SkipComments {
		fi.Comment = l.commenter.Lookup(path)
	}
	return fi
}

// linkTarget resolves a symlink's target to an absolute path
func (l *Lister) linkTarget(path string) string {
	target, err := l.fs.Readlink(path)
	if err != nil {
		l.log.WithField("path", path).WithError(err).Debug("cannot read symlink")
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return target
}

// SortFiles orders files in place. Name order is case-insensitive and groups
// directories before or after files as opts asks; time orders fall back to
// name order for equal times.
func SortFiles(files []FileInfo, opts ListOptions) {
	byName := func(i, j int) bool {
		a, b := strings.ToLower(files[i].Name), strings.ToLower(files[j].Name)
		if a != b {
			return a < b
		}
		return files[i].Name < files[j].Name
	}

	sort.SliceStable(files, func(i, j int) bool {
		switch opts.SortBy {
		case SortOldestFirst, SortNewestFirst:
			ti, tj := files[i].Modified, files[j].Modified
			if !ti.Equal(tj) {
				if opts.SortBy == SortOldestFirst {
					return ti.Before(tj)
				}
				return ti.After(tj)
			}
			return byName(i, j)
		}

		if files[i].IsDir != files[j].IsDir {
			switch {
			case opts.FilesFirst:
				return files[j].IsDir
			case opts.DirectoriesFirst:
				return files[i].IsDir
			}
		}
		return byName(i, j)
	})
}
