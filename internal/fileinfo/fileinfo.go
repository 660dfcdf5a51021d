package fileinfo

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"lsmeta/internal/constants"
)

// FileType represents the type of file
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeSymlink
	FileTypeHidden
)

// String returns a short name for the file type
func (ft FileType) String() string {
	switch ft {
	case FileTypeDirectory:
		return "dir"
	case FileTypeSymlink:
		return "link"
	case FileTypeHidden:
		return "hidden"
	default:
		return "file"
	}
}

// FileInfo represents a file or directory
type FileInfo struct {
	Name       string
	Path       string
	IsDir      bool
	Size       int64
	Modified   time.Time
	FileType   FileType
	Attributes Attributes
	LinkTarget string // Absolute target of a symlink
	Comment    string // Attached comment, empty when none
}

// DetermineFileType determines the file type based on file attributes
func DetermineFileType(path string, name string, isDir bool) FileType {
	// Check if it's a symlink first (works on both Linux and Windows)
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return FileTypeSymlink
		}
	}

	// Check for directory
	if isDir {
		return FileTypeDirectory
	}

	// Check for hidden files (starting with .)
	if strings.HasPrefix(name, ".") {
		return FileTypeHidden
	}

	// Check for Windows hidden file attribute
	if runtime.GOOS == "windows" && IsWindowsHidden(path) {
		return FileTypeHidden
	}

	return FileTypeRegular
}

// IsHidden reports whether an entry should be skipped when hidden entries
// are not shown. Unlike DetermineFileType it also applies to directories.
func IsHidden(path, name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".") || IsWindowsHidden(path)
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = constants.FileSizeUnit
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), constants.FileSizeUnits[exp])
}

// FormatInteger formats n with thousands separators
func FormatInteger(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
