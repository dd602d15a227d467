package main

// Key binding constants used in handleKey.
const (
	KeyQuit      = "q"
	KeyQuitUpper = "Q"
	KeyCtrlC     = "ctrl+c"
	KeySpace     = " "
	KeyLoop      = "l"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyBack      = "b"
	KeyForward   = "f"
)
