package fileinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDetermineFileType(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		filename string
		isDir    bool
		expected FileType
	}{
		{
			name:     "Regular file",
			path:     "/home/user/file.txt",
			filename: "file.txt",
			isDir:    false,
			expected: FileTypeRegular,
		},
		{
			name:     "Directory",
			path:     "/home/user/documents",
			filename: "documents",
			isDir:    true,
			expected: FileTypeDirectory,
		},
		{
			name:     "Hidden file (Unix)",
			path:     "/home/user/.bashrc",
			filename: ".bashrc",
			isDir:    false,
			expected: FileTypeHidden,
		},
		{
			name:     "Hidden directory (Unix)",
			path:     "/home/user/.config",
			filename: ".config",
			isDir:    true,
			expected: FileTypeDirectory, // Directory takes precedence
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := DetermineFileType(tc.path, tc.filename, tc.isDir)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestDetermineFileTypeSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on Windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create target: %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	if got := DetermineFileType(link, "link.txt", false); got != FileTypeSymlink {
		t.Errorf("Expected symlink, got %v", got)
	}
}

func TestFileTypeString(t *testing.T) {
	expected := map[FileType]string{
		FileTypeRegular:   "file",
		FileTypeDirectory: "dir",
		FileTypeSymlink:   "link",
		FileTypeHidden:    "hidden",
	}
	for ft, want := range expected {
		if ft.String() != want {
			t.Errorf("For file type %d, expected %s, got %s", ft, want, ft.String())
		}
	}
}

func TestIsHidden(t *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{".git", true},
		{".bashrc", true},
		{"README.md", false},
		{".", false},
		{"..", false},
	}

	for _, tc := range testCases {
		if got := IsHidden(filepath.Join("/nonexistent", tc.name), tc.name); got != tc.expected {
			t.Errorf("For %q, expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		size     int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tc := range testCases {
		result := FormatFileSize(tc.size)
		if result != tc.expected {
			t.Errorf("For size %d, expected %s, got %s", tc.size, tc.expected, result)
		}
	}
}

func TestFormatInteger(t *testing.T) {
	testCases := []struct {
		n        int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-123456, "-123,456"},
	}

	for _, tc := range testCases {
		if result := FormatInteger(tc.n); result != tc.expected {
			t.Errorf("For %d, expected %s, got %s", tc.n, tc.expected, result)
		}
	}
}
