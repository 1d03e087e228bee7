// Package render provides the drawing surfaces the animations paint on.
//
// Every animation draws through the small [Surface] interface, so the same
// simulation core can target very different outputs:
//
//   - [Raster]: anti-aliased RGBA image built on golang.org/x/image/vector
//   - [Braille]: 2x4 dot terminal canvas used by the TUI
//   - [Recorder]: records draw calls for headless tests
//
// Coordinates are surface pixels with the origin in the top-left corner.
package render
