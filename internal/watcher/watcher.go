package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lsmeta/internal/constants"
	"lsmeta/internal/fileinfo"
)

// Lister reads the entries of the watched directory
type Lister interface {
	List(dir string, opts fileinfo.ListOptions) ([]fileinfo.FileInfo, error)
}

// Changes represents the differences between two listings
type Changes struct {
	Added    []fileinfo.FileInfo
	Deleted  []fileinfo.FileInfo
	Modified []fileinfo.FileInfo // Size, time or comment changed
}

// Empty reports whether nothing changed
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Deleted) == 0 && len(c.Modified) == 0
}

// ChangeFunc receives the fresh listing together with what changed
type ChangeFunc func(files []fileinfo.FileInfo, changes Changes)

// DirectoryWatcher polls a directory and reports changes to entries and
// their comments
type DirectoryWatcher struct {
	lister   Lister
	dir      string
	opts     fileinfo.ListOptions
	interval time.Duration
	log      logrus.FieldLogger

	mu            sync.RWMutex                 // Protects previousFiles
	previousFiles map[string]fileinfo.FileInfo // Previous state for comparison
}

// NewDirectoryWatcher creates a new directory watcher. A zero interval uses
// the default polling interval.
func NewDirectoryWatcher(lister Lister, dir string, opts fileinfo.ListOptions, interval time.Duration, log logrus.FieldLogger) *DirectoryWatcher {
	if interval <= 0 {
		interval = constants.DefaultWatchInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DirectoryWatcher{
		lister:        lister,
		dir:           dir,
		opts:          opts,
		interval:      interval,
		log:           log,
		previousFiles: make(map[string]fileinfo.FileInfo),
	}
}

// Snapshot lists the directory and records the result as the baseline
func (dw *DirectoryWatcher) Snapshot() ([]fileinfo.FileInfo, error) {
	files, err := dw.lister.List(dw.dir, dw.opts)
	if err != nil {
		return nil, err
	}
	dw.updateSnapshot(files)
	return files, nil
}

// Run polls until ctx is done, calling onChange for every detected change.
// The baseline must have been taken with Snapshot.
func (dw *DirectoryWatcher) Run(ctx context.Context, onChange ChangeFunc) error {
	ticker := time.NewTicker(dw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			files, changes, err := dw.checkForChanges()
			if err != nil {
				// Skip this check if directory read fails
				dw.log.WithError(err).WithField("dir", dw.dir).Debug("poll failed")
				continue
			}
			if !changes.Empty() {
				dw.log.WithFields(logrus.Fields{
					"added":    len(changes.Added),
					"deleted":  len(changes.Deleted),
					"modified": len(changes.Modified),
				}).Debug("directory changed")
				onChange(files, changes)
			}
		}
	}
}

// updateSnapshot replaces the baseline
func (dw *DirectoryWatcher) updateSnapshot(files []fileinfo.FileInfo) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.previousFiles = make(map[string]fileinfo.FileInfo, len(files))
	for _, file := range files {
		dw.previousFiles[file.Path] = file
	}
}

// checkForChanges lists the directory, diffs it against the baseline and
// makes it the new baseline
func (dw *DirectoryWatcher) checkForChanges() ([]fileinfo.FileInfo, Changes, error) {
	files, err := dw.lister.List(dw.dir, dw.opts)
	if err != nil {
		return nil, Changes{}, err
	}

	currentFiles := make(map[string]fileinfo.FileInfo, len(files))
	for _, file := range files {
		currentFiles[file.Path] = file
	}

	changes := dw.detectChanges(currentFiles)
	if !changes.Empty() {
		dw.updateSnapshot(files)
	}
	return files, changes, nil
}

// detectChanges compares current and previous states to find differences
func (dw *DirectoryWatcher) detectChanges(currentFiles map[string]fileinfo.FileInfo) Changes {
	dw.mu.RLock()
	defer dw.mu.RUnlock()

	var changes Changes

	for path, file := range currentFiles {
		prevFile, exists := dw.previousFiles[path]
		switch {
		case !exists:
			changes.Added = append(changes.Added, file)
		case !file.Modified.Equal(prevFile.Modified) || file.Size != prevFile.Size || file.Comment != prevFile.Comment:
			changes.Modified = append(changes.Modified, file)
		}
	}

	for path, file := range dw.previousFiles {
		if _, exists := currentFiles[path]; !exists {
			changes.Deleted = append(changes.Deleted, file)
		}
	}

	fileinfo.SortFiles(changes.Added, fileinfo.ListOptions{})
	fileinfo.SortFiles(changes.Deleted, fileinfo.ListOptions{})
	fileinfo.SortFiles(changes.Modified, fileinfo.ListOptions{})
	return changes
}
