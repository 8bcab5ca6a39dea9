package match

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength caps player names, counted in runes after whitespace is removed.
const MaxNameLength = 20

var (
	playPattern = regexp.MustCompile(`(?i)^play\s+(.+)$`)
	wordPattern = regexp.MustCompile(`(?i)^word\s+(.+)$`)
)

// parsePlay extracts the player name from a PLAY announcement.
func parsePlay(line string) (string, bool) {
	m := playPattern.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if m == nil {
		return "", false
	}

	name := stripSpace(m[1])
	if name == "" {
		return "", false
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name, true
}

// parseWord extracts and normalizes the word from a WORD submission.
func parseWord(line string) (string, bool) {
	m := wordPattern.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
	if m == nil {
		return "", false
	}

	word := strings.ToUpper(stripSpace(m[1]))
	return word, word != ""
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func startLine(board string, seconds int, opponent string) string {
	return "START " + board + " " + strconv.Itoa(seconds) + " " + opponent + "\n"
}

func timeLine(seconds int) string {
	return "TIME " + strconv.Itoa(seconds) + "\n"
}

func scoreLine(self, opponent int) string {
	return "SCORE " + strconv.Itoa(self) + " " + strconv.Itoa(opponent) + "\n"
}

func ignoringLine(line string) string {
	return "IGNORING: " + line + "\n"
}

const terminatedLine = "TERMINATED\n"

// stopLine renders the end-of-game summary. Each list is preceded by its
// length; lists are expected to be sorted already.
func stopLine(lists ...[]string) string {
	tokens := []string{"STOP"}
	for _, words := range lists {
		tokens = append(tokens, strconv.Itoa(len(words)))
		tokens = append(tokens, words...)
	}
	return strings.Join(tokens, " ") + "\n"
}
