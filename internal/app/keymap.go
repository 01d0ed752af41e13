package app

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyQuitUpper   = "Q"
	KeyCtrlC       = "ctrl+c"
	KeyOpen        = "o"
	KeySpace       = " "
	KeyLeft        = "left"
	KeyRight       = "right"
	KeyReset       = "0"
	KeyVolumeUp    = "+"
	KeyVolumeUpAlt = "="
	KeyVolumeDown  = "-"
	KeyMute        = "m"
	KeySlower      = "["
	KeyFaster      = "]"
	KeySubmit      = "s"
	KeyTab         = "tab"
	KeyEnter       = "enter"
	KeyEsc         = "esc"
	KeyCancel      = "x"
	KeyExpand      = "e"
	KeyDownloadTx  = "d"
	KeyDownloadSum = "D"
	KeyTheme       = "t"
	KeyUp          = "up"
	KeyDown        = "down"
	KeyJ           = "j"
	KeyK           = "k"
)

// Player step sizes.
const (
	SeekStep   = 5.0
	VolumeStep = 0.1
)
