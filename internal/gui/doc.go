// Package gui shows an animation in a resizable raylib window.
//
// Frames are drawn on a [render.Raster], composited over the window
// background at the configured opacity and uploaded to a single texture.
// Resizing the window rebuilds the animation from scratch; minimizing it
// pauses ticking.
package gui
