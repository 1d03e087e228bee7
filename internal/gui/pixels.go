package gui

import "image/color"

// toRGBA repacks an RGBA pixel buffer for texture upload, reusing dst.
func toRGBA(pix []uint8, dst []color.RGBA) []color.RGBA {
	n := len(pix) / 4
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for i := range dst {
		p := pix[i*4 : i*4+4 : i*4+4]
		dst[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return dst
}
