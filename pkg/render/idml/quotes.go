package idml

import (
	"strings"
	"unicode"
)

// elisions are the words whose leading apostrophe stands for dropped letters.
var elisions = []string{"tis", "twas", "twere", "em", "cause"}

// CurlQuotes replaces straight quotes with typographic ones.
//
// A single quote becomes a right quote when it elides the start of a word
// ('tis), sits inside a word (isn't) or precedes a digit ('98). Otherwise it
// opens at the start of s or after a space or opening bracket when a word
// follows, and closes everywhere else. A double quote opens in the same
// positions when any non-space follows, and closes everywhere else.
func CurlQuotes(s string) string {
	if !strings.ContainsAny(s, `'"`) {
		return s
	}

	rs := []rune(s)
	for i, r := range rs {
		prev, next := at(rs, i-1), at(rs, i+1)
		switch r {
		case '\'':
			switch {
			case !isASCIILetter(prev) && elides(rs[i+1:]),
				isWord(prev) && isWord(next),
				unicode.IsDigit(next):
				rs[i] = '’'
			case opens(i, prev) && isWord(next):
				rs[i] = '‘'
			default:
				rs[i] = '’'
			}
		case '"':
			if opens(i, prev) && next != 0 && !unicode.IsSpace(next) {
				rs[i] = '“'
			} else {
				rs[i] = '”'
			}
		}
	}
	return string(rs)
}

func at(rs []rune, i int) rune {
	if i < 0 || i >= len(rs) {
		return 0
	}
	return rs[i]
}

func elides(rest []rune) bool {
	s := string(rest)
	for _, w := range elisions {
		if strings.HasPrefix(s, w) {
			return true
		}
	}
	return false
}

func opens(i int, prev rune) bool {
	return i == 0 || unicode.IsSpace(prev) || strings.ContainsRune("([{", prev)
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
