package constants

import "time"

// Application constants
const (
	ApplicationName  = "lsmeta"
	ApplicationTitle = "Directory listing with comments"
	EnvPrefix        = "LSMETA"
)

// Metadata constants
const (
	// Byte capacity of the comment buffer used by the CLI.
	DefaultBufferSize = 2048
	MinBufferSize     = 4
	MaxBufferSize     = 64 * 1024

	// Named stream Directory Opus attaches to folders.
	OpusStreamName = "\aOpusMetaInformation"

	DefaultDescriptionFile = "descript.ion"
	DefaultXattrName       = "user.xdg.comment"
)

// Terminal constants
const (
	// First Windows build with virtual terminal processing (10.0.10586).
	MinVTMajor = 10
	MinVTMinor = 0
	MinVTBuild = 10586

	// Used when the terminal width cannot be queried.
	DefaultTerminalWidth = 80
)

// Display constants
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"

	ElisionMarker = "…"

	// Layout of the modification time column
	DefaultTimeFormat = "2006-01-02 15:04"

	// Polling interval of list --watch
	DefaultWatchInterval = 2 * time.Second
)

// Configuration constants
const (
	ConfigFileName          = "config.json"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultDirectoriesFirst = true
	DefaultShowHidden       = false
)
