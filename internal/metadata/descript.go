package metadata

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lsmeta/internal/constants"
	apperrors "lsmeta/internal/errors"
)

// DescriptionSource reads comments from a per-directory descript.ion file as
// written by 4DOS/Total Commander style file managers. Each directory's file
// is parsed once and cached until Reset.
type DescriptionSource struct {
	FileName string

	mu    sync.Mutex
	cache map[string]map[string]string
}

// NewDescriptionSource returns a source reading fileName, or descript.ion
// when empty.
func NewDescriptionSource(fileName string) *DescriptionSource {
	if fileName == "" {
		fileName = constants.DefaultDescriptionFile
	}
	return &DescriptionSource{
		FileName: fileName,
		cache:    make(map[string]map[string]string),
	}
}

func (s *DescriptionSource) Comment(path string) (string, error) {
	path = trimTrailingSeparators(path)
	dir, name := filepath.Split(path)
	if name == "" {
		return "", apperrors.ErrNoMetadata
	}
	if dir == "" {
		dir = "."
	}

	entries, err := s.load(filepath.Clean(dir))
	if err != nil {
		return "", err
	}

	comment, ok := entries[strings.ToLower(name)]
	if !ok || comment == "" {
		return "", apperrors.ErrNoMetadata
	}
	return comment, nil
}

// Reset drops every cached directory listing.
func (s *DescriptionSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]map[string]string)
}

func (s *DescriptionSource) load(dir string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache == nil {
		s.cache = make(map[string]map[string]string)
	}
	if entries, ok := s.cache[dir]; ok {
		return entries, nil
	}

	entries, err := parseDescriptionFile(filepath.Join(dir, s.FileName))
	if err != nil {
		return nil, err
	}
	s.cache[dir] = entries
	return entries, nil
}

// parseDescriptionFile reads a descript.ion file. A missing file yields an
// empty map so the directory is not read again.
func parseDescriptionFile(path string) (map[string]string, error) {
	entries := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, apperrors.NewFileSystemError("read_descriptions", path, "cannot open description file", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name, desc, ok := ParseDescriptionLine(scanner.Text())
		if ok {
			entries[strings.ToLower(name)] = desc
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewFileSystemError("read_descriptions", path, "cannot read description file", err)
	}
	return entries, nil
}

// ParseDescriptionLine splits one descript.ion line into file name and
// description. Names containing spaces are enclosed in double or single
// quotes. Total Commander appends multi-line data after a 0x04 marker; only
// the first line is kept.
func ParseDescriptionLine(line string) (name, desc string, ok bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return "", "", false
	}

	if quote := line[0]; quote == '"' || quote == '\'' {
		end := strings.IndexByte(line[1:], quote)
		if end < 0 {
			return "", "", false
		}
		name = line[1 : end+1]
		desc = line[end+2:]
	} else {
		sep := strings.IndexAny(line, " \t")
		if sep < 0 {
			return "", "", false
		}
		name = line[:sep]
		desc = line[sep:]
	}

	if i := strings.IndexByte(desc, 0x04); i >= 0 {
		desc = desc[:i]
	}
	desc = strings.ReplaceAll(desc, `\n`, " ")
	desc = strings.TrimSpace(desc)
	if name == "" {
		return "", "", false
	}
	return name, desc, true
}
