// Package viz runs animations in the terminal.
//
// The live view paints a [render.Braille] canvas sized to the terminal, so
// every character cell carries 2x4 simulation pixels. A side panel shows the
// step counter, a history graph and the current status.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from scratch
//	T     - Cycle colour themes
//	G     - Toggle GIF recording
//	E     - Export the current frame as SVG
//	?     - Show help overlay
//	Q     - Quit
//
// Losing terminal focus pauses the animation the same way a hidden browser
// tab would; regaining focus resumes it.
package viz
