//go:build cgo
// +build cgo

// Command terminal builds the console capability checks as a shared library:
//
//	go build -buildmode=c-shared -o terminal.dll ./cmd/terminal
package main

import "C"

import "lsmeta/internal/terminal"

func boolToInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

//export HasColorSupport
func HasColorSupport() C.int {
	return boolToInt(terminal.HasColorSupport())
}

//export IsColorSupportEnabled
func IsColorSupportEnabled() C.int {
	return boolToInt(terminal.IsColorSupportEnabled())
}

// EnableColorSupport enables VT processing when enable is 1 and disables it
// for any other value.
//
//export EnableColorSupport
func EnableColorSupport(enable C.int) C.int {
	return boolToInt(terminal.EnableColorSupport(enable == 1))
}

func main() {}
