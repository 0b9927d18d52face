// Package viz provides the terminal live view of the closed flight loop.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: runs a [sim.Simulator] in real time with an artificial
//     horizon, attitude traces and output bars
//   - [Canvas]: Braille-based pixel canvas for the horizon
//   - [RunInteractive]: preset picker that hands over to a [Model]
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial attitude
//	A     - Toggle the disarm override
//	Tab   - Select a gain
//	↑/↓   - Nudge the selected gain ±5%
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
