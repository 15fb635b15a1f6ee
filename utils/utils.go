package utils

import (
	"math/rand/v2"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString returns a lower case string of length n. It is backed by
// an unseeded source and must not be used for anything that has to be
// reproducible.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
