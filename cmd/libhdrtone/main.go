//go:build cgo

// Command libhdrtone exposes HDR detection and tone mapping as a C library.
//
//	go build -buildmode=c-shared -o libhdrtone.so ./cmd/libhdrtone
//
// Images cross the boundary as opaque handles that must be released with
// hdrtone_image_free. A zero handle means failure; stale or released handles
// are treated as zero.
package main

/*
#include <stddef.h>
#include <stdint.h>
#include <stdbool.h>
*/
import "C"

import "unsafe"

func main() {}

//export hdrtone_is_hdr
func hdrtone_is_hdr(profile *C.uint8_t, n C.size_t) C.bool {
	return C.bool(isHDR(unsafe.Pointer(profile), uint64(n)))
}

//export hdrtone_image_new
func hdrtone_image_new(width, height, channels C.int, pix *C.uint8_t, stride C.size_t) C.uintptr_t {
	return C.uintptr_t(newImage(int(width), int(height), int(channels), unsafe.Pointer(pix), int(stride)))
}

//export hdrtone_tone_map
func hdrtone_tone_map(h C.uintptr_t, profile *C.uint8_t, n C.size_t) C.uintptr_t {
	return C.uintptr_t(toneMap(uintptr(h), unsafe.Pointer(profile), uint64(n)))
}

//export hdrtone_image_info
func hdrtone_image_info(h C.uintptr_t, width, height, channels *C.int) C.bool {
	img := imageOf(uintptr(h))
	if img == nil {
		return false
	}
	if width != nil {
		*width = C.int(img.Width)
	}
	if height != nil {
		*height = C.int(img.Height)
	}
	if channels != nil {
		*channels = C.int(img.Channels)
	}
	return true
}

//export hdrtone_image_copy
func hdrtone_image_copy(h C.uintptr_t, dst *C.uint8_t, n C.size_t) C.size_t {
	return C.size_t(copyImage(uintptr(h), unsafe.Pointer(dst), int(n)))
}

//export hdrtone_image_free
func hdrtone_image_free(h C.uintptr_t) {
	freeImage(uintptr(h))
}
