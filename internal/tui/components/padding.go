package components

import "strings"

const maxCachedPad = 80

// padCache holds space runs up to maxCachedPad so table and help rendering
// avoid a strings.Repeat per cell.
var padCache = strings.Repeat(" ", maxCachedPad)

// Pad returns a string of n spaces.
func Pad(n int) string {
	switch {
	case n <= 0:
		return ""
	case n <= maxCachedPad:
		return padCache[:n]
	default:
		return strings.Repeat(" ", n)
	}
}
