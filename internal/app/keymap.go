package app

// Key binding constants used in handleKey.
const (
	KeyQuit      = "ctrl+c"
	KeyTab       = "tab"
	KeyEnter     = "enter"
	KeyBackspace = "backspace"
	KeyEsc       = "esc"
	KeyDown      = "j"
	KeyUp        = "k"
	KeySOS       = "ctrl+s"
	KeyTheme     = "ctrl+t"
	KeyReport    = "ctrl+r"
)
