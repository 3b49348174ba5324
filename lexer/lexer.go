// Package lexer splits Formia source lines into tokens.
package lexer

import (
	"strings"
	"unicode"
)

// CommentMarker starts a comment line.
const CommentMarker = "#"

// Symbols is the set of characters that form symbol tokens.
const Symbols = `=+-*/<>[](){};:,"'`

// Line is one non-skipped source line split into its keyword and the
// tokens that follow it.
type Line struct {
	Number  int
	Keyword string
	Tokens  []string
}

// IsWordRune reports whether r belongs to a word token.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsSymbolRune reports whether r belongs to a symbol token.
func IsSymbolRune(r rune) bool {
	return strings.ContainsRune(Symbols, r)
}

// Tokenize splits one line. A maximal run of word runes is one token and a
// maximal run of symbol runes is one token. Everything else is dropped.
func Tokenize(line string) []string {
	var (
		tokens []string
		start  = -1
		kind   = 0
	)

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, line[start:end])
		}
		start = -1
		kind = 0
	}

	for i, r := range line {
		k := 0
		switch {
		case IsWordRune(r):
			k = 1
		case IsSymbolRune(r):
			k = 2
		}

		if k != kind {
			flush(i)
		}

		if k != 0 && start < 0 {
			start = i
			kind = k
		}
	}

	flush(len(line))

	return tokens
}

// Skip reports whether a line produces no instruction: blank lines and
// comment lines.
func Skip(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, CommentMarker)
}

// Lines splits source text into the lines that carry instructions. Line
// numbers are 1-based positions in the source.
func Lines(source string) []Line {
	var lines []Line

	for i, raw := range strings.Split(source, "\n") {
		if Skip(raw) {
			continue
		}

		tokens := Tokenize(raw)
		if len(tokens) == 0 {
			continue
		}

		lines = append(lines, Line{
			Number:  i + 1,
			Keyword: tokens[0],
			Tokens:  tokens[1:],
		})
	}

	return lines
}
