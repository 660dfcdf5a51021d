// Package terminal decides whether the console can interpret ANSI escape
// sequences and turns virtual-terminal processing on or off.
package terminal

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"lsmeta/internal/constants"
	apperrors "lsmeta/internal/errors"
)

// EnableVirtualTerminalProcessing is the console output mode bit that makes
// the console interpret ANSI sequences.
const EnableVirtualTerminalProcessing uint32 = 0x0004

// Version is an OS version descriptor.
type Version struct {
	Major uint32
	Minor uint32
	Build uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// SupportsVirtualTerminal reports whether v is at least 10.0.10586, the
// first release whose console understands ANSI sequences.
func (v Version) SupportsVirtualTerminal() bool {
	if v.Major != constants.MinVTMajor {
		return v.Major > constants.MinVTMajor
	}
	if v.Minor != constants.MinVTMinor {
		return v.Minor > constants.MinVTMinor
	}
	return v.Build >= constants.MinVTBuild
}

// VersionSource reports the running OS version.
type VersionSource interface {
	Version() (Version, error)
}

// Console reads and writes the output mode of the process console.
type Console interface {
	Mode() (uint32, error)
	SetMode(mode uint32) error
}

// Controller answers capability questions for one console. The OS version
// is queried at most once per Controller.
type Controller struct {
	versions VersionSource
	console  Console
	log      logrus.FieldLogger

	once      sync.Once
	supported bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for failed queries.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a Controller. Nil arguments fall back to
// Unsupported.
func NewController(versions VersionSource, console Console, opts ...Option) *Controller {
	c := &Controller{versions: versions, console: console}
	for _, opt := range opts {
		opt(c)
	}
	if c.versions == nil {
		c.versions = Unsupported{}
	}
	if c.console == nil {
		c.console = Unsupported{}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

// HasColorSupport reports whether the OS version supports virtual-terminal
// processing. A failed query counts as unsupported and is not retried.
func (c *Controller) HasColorSupport() bool {
	c.once.Do(func() {
		v, err := c.versions.Version()
		if err != nil {
			c.log.WithError(err).Debug("OS version query failed")
			return
		}
		c.supported = v.SupportsVirtualTerminal()
		c.log.WithFields(logrus.Fields{
			"version":   v.String(),
			"supported": c.supported,
		}).Debug("virtual terminal capability")
	})
	return c.supported
}

// IsColorSupportEnabled reports whether virtual-terminal processing is
// currently on for the console.
func (c *Controller) IsColorSupportEnabled() bool {
	if !c.HasColorSupport() {
		return false
	}

	mode, err := c.console.Mode()
	if err != nil {
		c.log.WithError(err).Debug("console mode query failed")
		return false
	}
	return mode&EnableVirtualTerminalProcessing != 0
}

// EnableColorSupport sets or clears virtual-terminal processing. It returns
// true when the console ends up in the requested state; the mode is only
// written when it has to change.
func (c *Controller) EnableColorSupport(enabled bool) bool {
	if !c.HasColorSupport() {
		return false
	}

	mode, err := c.console.Mode()
	if err != nil {
		c.log.WithError(err).Debug("console mode query failed")
		return false
	}

	if (mode&EnableVirtualTerminalProcessing != 0) == enabled {
		return true
	}

	if enabled {
		mode |= EnableVirtualTerminalProcessing
	} else {
		mode &^= EnableVirtualTerminalProcessing
	}
	if err := c.console.SetMode(mode); err != nil {
		c.log.WithError(apperrors.NewConsoleError("set_mode", "cannot update console mode", err)).
			WithField("enabled", enabled).Debug("console mode update failed")
		return false
	}
	return true
}

// EnableColor makes sure virtual-terminal processing is on, enabling it if
// needed. It returns false when the console cannot show colors.
func (c *Controller) EnableColor() bool {
	if !c.HasColorSupport() {
		return false
	}
	if c.IsColorSupportEnabled() {
		return true
	}
	return c.EnableColorSupport(true)
}

// Dimensions returns the size of the terminal attached to stdout.
func Dimensions() (rows, cols int, err error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, apperrors.NewConsoleError("get_size", "stdout is not a terminal", apperrors.ErrNoConsole)
	}
	cols, rows, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, apperrors.NewConsoleError("get_size", "cannot query terminal size", err)
	}
	return rows, cols, nil
}

// Width returns the stdout terminal width, or the default width when stdout
// is not a terminal.
func Width() int {
	_, cols, err := Dimensions()
	if err != nil || cols <= 0 {
		return constants.DefaultTerminalWidth
	}
	return cols
}
