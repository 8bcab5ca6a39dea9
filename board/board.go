// Package board models the 4x4 letter grid a match is played on.
package board

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

// Size is the number of cells on a side.
const Size = 4

// Cells is the number of cells on a board.
const Cells = Size * Size

// ErrInvalidBoard is returned when a board string is not exactly 16 letters.
var ErrInvalidBoard = errors.New("board must be exactly 16 letters")

// dice are the sixteen classic cubes. Each string lists one cube's faces.
var dice = [Cells]string{
	"LRYTTE", "VTHRWE", "EGHWNE", "SEOTIS",
	"ANAEEG", "IDSYTT", "OATTOW", "MTOICU",
	"AFPKFS", "XLDERI", "HCPOAS", "ENSIEU",
	"YLDEVR", "ZNRNHL", "NMIQHU", "OBBAOJ",
}

// Board is an immutable 4x4 grid of upper-case letters, stored row by row.
type Board struct {
	cells [Cells]byte
}

// New builds a board from 16 letters given row by row. Case is ignored.
func New(letters string) (*Board, error) {
	letters = strings.ToUpper(letters)
	if len(letters) != Cells {
		return nil, fmt.Errorf("%w: got %d characters", ErrInvalidBoard, len(letters))
	}

	b := &Board{}
	for i := 0; i < Cells; i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return nil, fmt.Errorf("%w: invalid character %q", ErrInvalidBoard, c)
		}
		b.cells[i] = c
	}
	return b, nil
}

// Random shuffles the dice onto the grid and rolls each one.
func Random(rng *rand.Rand) *Board {
	b := &Board{}
	order := rng.Perm(Cells)
	for i, d := range order {
		faces := dice[d]
		b.cells[i] = faces[rng.IntN(len(faces))]
	}
	return b
}

// Render returns the 16 letters row by row.
func (b *Board) Render() string {
	return string(b.cells[:])
}

// At returns the letter at row r, column c.
func (b *Board) At(r, c int) byte {
	return b.cells[r*Size+c]
}

// CanBeFormed reports whether word can be traced through horizontally,
// vertically or diagonally adjacent cells without using a cell twice.
// A Q cell stands for the two letters QU.
func (b *Board) CanBeFormed(word string) bool {
	word = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, word)
	if word == "" {
		return false
	}

	var used [Cells]bool
	for i := 0; i < Cells; i++ {
		if b.trace(word, i, &used) {
			return true
		}
	}
	return false
}

// trace reports whether word can be read starting at cell i.
func (b *Board) trace(word string, i int, used *[Cells]bool) bool {
	rest, ok := b.consume(word, i)
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}

	used[i] = true
	defer func() { used[i] = false }()

	r, c := i/Size, i%Size
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			nr, nc := r+dr, c+dc
			if (dr == 0 && dc == 0) || nr < 0 || nr >= Size || nc < 0 || nc >= Size {
				continue
			}
			n := nr*Size + nc
			if !used[n] && b.trace(rest, n, used) {
				return true
			}
		}
	}
	return false
}

// consume matches the head of word against cell i and returns what is left.
func (b *Board) consume(word string, i int) (string, bool) {
	c := b.cells[i]
	if word[0] != c {
		return "", false
	}
	if c == 'Q' {
		if len(word) < 2 || word[1] != 'U' {
			return "", false
		}
		return word[2:], true
	}
	return word[1:], true
}
