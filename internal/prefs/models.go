// Package prefs persists interface preferences in a small SQLite database.
// Meeting content is never stored here.
package prefs

import "time"

// Prefs are the values restored at startup.
type Prefs struct {
	Volume    float64
	Muted     bool
	Rate      float64
	Theme     string
	UpdatedAt time.Time
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Volume: 1, Rate: 1}
}
