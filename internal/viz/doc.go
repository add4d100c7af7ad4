// Package viz draws the game on the terminal.
//
// [Canvas] is a braille pixel grid with a per-cell colour, [Viewport] maps
// world coordinates onto it, and [Scene] paints curves, balls and stars.
// [PlayModel] and [MenuModel] are the Bubble Tea models behind the play
// command.
//
// # Key Bindings
//
//	enter   - add the typed equation as a curve
//	tab     - drop a ball from the spawn point
//	ctrl+z  - remove the last curve
//	ctrl+r  - reset the level
//	ctrl+p  - pause or resume
//	ctrl+a  - toggle automatic drops
//	ctrl+n  - next level
//	ctrl+t  - cycle color themes
//	?       - show help overlay
package viz
