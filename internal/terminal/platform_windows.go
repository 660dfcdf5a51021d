//go:build windows
// +build windows

package terminal

import (
	"golang.org/x/sys/windows"

	apperrors "lsmeta/internal/errors"
)

// ntVersionSource asks the kernel directly; GetVersionEx is subject to
// manifest-based version lies.
type ntVersionSource struct{}

// NewVersionSource returns the version source for the running OS.
func NewVersionSource() VersionSource {
	return ntVersionSource{}
}

func (ntVersionSource) Version() (Version, error) {
	info := windows.RtlGetVersion()
	if info == nil {
		return Version{}, apperrors.NewPlatformError("get_version", "RtlGetVersion returned nothing", apperrors.ErrUnsupported)
	}
	return Version{
		Major: info.MajorVersion,
		Minor: info.MinorVersion,
		Build: info.BuildNumber,
	}, nil
}

// stdoutConsole resolves the standard output handle on every call so that a
// console attached or freed after startup is honoured.
type stdoutConsole struct{}

// NewConsole returns the console of the running process.
func NewConsole() Console {
	return stdoutConsole{}
}

func (stdoutConsole) handle() (windows.Handle, error) {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return 0, apperrors.NewConsoleError("get_handle", "cannot get standard output handle", err)
	}
	if h == windows.InvalidHandle || h == 0 {
		return 0, apperrors.NewConsoleError("get_handle", "standard output is not attached", apperrors.ErrNoConsole)
	}
	return h, nil
}

func (c stdoutConsole) Mode() (uint32, error) {
	h, err := c.handle()
	if err != nil {
		return 0, err
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return 0, apperrors.NewConsoleError("get_mode", "cannot read console mode", err)
	}
	return mode, nil
}

func (c stdoutConsole) SetMode(mode uint32) error {
	h, err := c.handle()
	if err != nil {
		return err
	}
	if err := windows.SetConsoleMode(h, mode); err != nil {
		return apperrors.NewConsoleError("set_mode", "cannot write console mode", err)
	}
	return nil
}
