package terminal

import "sync"

var defaultController = sync.OnceValue(func() *Controller {
	return NewController(NewVersionSource(), NewConsole())
})

// Default returns the process-wide Controller for the attached console.
func Default() *Controller {
	return defaultController()
}

// HasColorSupport calls Default().HasColorSupport.
func HasColorSupport() bool {
	return Default().HasColorSupport()
}

// IsColorSupportEnabled calls Default().IsColorSupportEnabled.
func IsColorSupportEnabled() bool {
	return Default().IsColorSupportEnabled()
}

// EnableColorSupport calls Default().EnableColorSupport.
func EnableColorSupport(enabled bool) bool {
	return Default().EnableColorSupport(enabled)
}

// EnableColor calls Default().EnableColor.
func EnableColor() bool {
	return Default().EnableColor()
}
