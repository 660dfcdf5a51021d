//go:build !windows
// +build !windows

package terminal

// NewVersionSource returns the version source for the running OS.
func NewVersionSource() VersionSource {
	return Unsupported{}
}

// NewConsole returns the console of the running process.
func NewConsole() Console {
	return Unsupported{}
}
