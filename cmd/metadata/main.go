//go:build cgo
// +build cgo

// Command metadata builds the comment reader as a shared library:
//
//	go build -buildmode=c-shared -o metadata.dll ./cmd/metadata
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unicode/utf16"
	"unsafe"

	"lsmeta/internal/constants"
	"lsmeta/internal/metadata"
)

var reader = metadata.NewReader()

// maxPathUnits bounds the scan for the terminator of an incoming path.
const maxPathUnits = 32 * 1024

//export retrieve_metadata
func retrieve_metadata(path *C.uint16_t, comment *C.uint16_t, bufferSize C.int) C.int {
	if path == nil || comment == nil || bufferSize <= 0 {
		return 0
	}

	goPath, ok := utf16PtrToString((*uint16)(unsafe.Pointer(path)))
	if !ok {
		return 0
	}

	capacity := min(int(bufferSize), constants.MaxBufferSize)
	buf := unsafe.Slice((*uint16)(unsafe.Pointer(comment)), capacity/2)
	return C.int(reader.Retrieve(goPath, buf, capacity))
}

// utf16PtrToString reads a NUL-terminated UTF-16 string, refusing paths
// longer than maxPathUnits.
func utf16PtrToString(p *uint16) (string, bool) {
	for n := 0; n < maxPathUnits; n++ {
		if *(*uint16)(unsafe.Add(unsafe.Pointer(p), n*2)) == 0 {
			return string(utf16.Decode(unsafe.Slice(p, n))), true
		}
	}
	return "", false
}

func main() {}
