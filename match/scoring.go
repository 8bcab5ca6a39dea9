package match

import "unicode/utf8"

// minWordLength is the shortest word that scores or is penalized.
const minWordLength = 3

// wordScore returns the points a legal word is worth.
func wordScore(word string) int {
	switch n := utf8.RuneCountInString(word); {
	case n < minWordLength:
		return 0
	case n <= 4:
		return 1
	case n == 5:
		return 2
	case n == 6:
		return 3
	case n == 7:
		return 5
	default:
		return 11
	}
}
