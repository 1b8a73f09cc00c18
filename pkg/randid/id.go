// Package randid generates short random identifiers.
package randid

import "math/rand/v2"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random string of n lowercase alphanumeric characters.
// Identifiers are not cryptographically secure; they only need to be unique
// within a single process.
func Generate(n int) string {
	if n <= 0 {
		return ""
	}

	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
