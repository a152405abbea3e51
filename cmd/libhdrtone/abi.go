//go:build cgo

package main

import (
	"runtime/cgo"
	"unsafe"

	"github.com/vearutop/hdrtone"
)

// profileBytes copies a pointer/length pair into a Go slice.
// Nil pointers, zero lengths and oversized profiles yield nil.
func profileBytes(p unsafe.Pointer, n uint64) []byte {
	if p == nil || n == 0 || n > hdrtone.MaxProfileSize {
		return nil
	}
	return append([]byte(nil), unsafe.Slice((*byte)(p), n)...)
}

// imageOf resolves a handle, yielding nil for zero, foreign or released handles.
func imageOf(h uintptr) (img *hdrtone.Image) {
	if h == 0 {
		return nil
	}
	defer func() {
		if recover() != nil {
			img = nil
		}
	}()
	img, _ = cgo.Handle(h).Value().(*hdrtone.Image)
	return img
}

func isHDR(profile unsafe.Pointer, n uint64) bool {
	return hdrtone.IsHDR(profileBytes(profile, n))
}

// newImage copies height rows of width*channels bytes spaced stride apart.
func newImage(width, height, channels int, pix unsafe.Pointer, stride int) uintptr {
	if pix == nil || width <= 0 || height <= 0 || (channels != 3 && channels != 4) || stride < width*channels {
		return 0
	}
	img := hdrtone.NewImage(width, height, channels)
	src := unsafe.Slice((*byte)(pix), (height-1)*stride+width*channels)
	for y := 0; y < height; y++ {
		copy(img.Row(y), src[y*stride:])
	}
	return uintptr(cgo.NewHandle(img))
}

func toneMap(h uintptr, profile unsafe.Pointer, n uint64) uintptr {
	out, err := hdrtone.ToneMap(imageOf(h), profileBytes(profile, n))
	if err != nil {
		return 0
	}
	return uintptr(cgo.NewHandle(out))
}

// copyImage writes compact rows into dst and returns the bytes written, 0 on failure.
func copyImage(h uintptr, dst unsafe.Pointer, n int) int {
	img := imageOf(h)
	if img == nil || dst == nil {
		return 0
	}
	rowLen := img.Width * img.Channels
	need := rowLen * img.Height
	if n < need {
		return 0
	}
	out := unsafe.Slice((*byte)(dst), need)
	for y := 0; y < img.Height; y++ {
		copy(out[y*rowLen:], img.Row(y))
	}
	return need
}

// freeImage releases a handle. Unknown or already released handles are ignored.
func freeImage(h uintptr) {
	if imageOf(h) != nil {
		cgo.Handle(h).Delete()
	}
}
