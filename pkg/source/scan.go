package source

import "strings"

// indexFrom finds substr in s starting no earlier than from, returning
// -1 (the Go analogue of std::string::npos) if absent.
func indexFrom(s, substr string, from int) int {
	if from < 0 || from > len(s) {
		return -1
	}
	idx := strings.Index(s[from:], substr)
	if idx == -1 {
		return -1
	}
	return idx + from
}

func indexByteFrom(s string, b byte, from int) int {
	if from < 0 || from > len(s) {
		return -1
	}
	idx := strings.IndexByte(s[from:], b)
	if idx == -1 {
		return -1
	}
	return idx + from
}

// burnSpaces returns the index of the first char at or after start that
// is not a space or tab, or -1 if none remain.
func burnSpaces(s string, start int) int {
	for i := start; i >= 0 && i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return -1
}

func firstNonDigitFrom(s string, start int) int {
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return i
		}
	}
	return -1
}

// findLastNotOfSet scans backward from the end of s for the last byte
// not in set.
func findLastNotOfSet(s, set string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if !strings.ContainsRune(set, rune(s[i])) {
			return i
		}
	}
	return -1
}

// findLastNotOf scans backward from pos (inclusive) for the last byte
// that is not b.
func findLastNotOf(s string, b byte, pos int) int {
	if pos >= len(s) {
		pos = len(s) - 1
	}
	for i := pos; i >= 0; i-- {
		if s[i] != b {
			return i
		}
	}
	return -1
}

// nextOpenQuote finds the next `"` at or after start that is not
// flanked by single quotes on either side (which would make it part of
// a `'"'` character literal rather than the start of a string).
func nextOpenQuote(s string, start int) int {
	pos := start
	for {
		idx := indexByteFrom(s, '"', pos)
		if idx == -1 {
			return -1
		}
		leftOK := idx == 0 || s[idx-1] != '\''
		rightOK := idx == len(s)-1 || s[idx+1] != '\''
		if leftOK && rightOK {
			return idx
		}
		pos = idx + 1
	}
}

// nextCloseQuote finds the next `"` at or after start that is not
// escaped by a preceding backslash.
func nextCloseQuote(s string, start int) int {
	pos := start
	for {
		idx := indexByteFrom(s, '"', pos)
		if idx == -1 {
			return -1
		}
		if idx == 0 || s[idx-1] != '\\' {
			return idx
		}
		pos = idx + 1
	}
}

// getEscNewline returns the index of a trailing escaped-newline
// backslash, or -1 if the line does not end with one. Inside a
// multi-line quote, a run of trailing backslashes only escapes the
// newline when its length is odd; an even run is a literal run of
// backslash characters in the string.
func getEscNewline(s string, multiLineQuote bool) int {
	idx := findLastNotOfSet(s, " \t")
	if idx == -1 || s[idx] != '\\' {
		return -1
	}
	if !multiLineQuote {
		return idx
	}
	testPos := findLastNotOf(s, '\\', idx)
	var runLen int
	if testPos == -1 {
		runLen = idx + 1
	} else {
		runLen = idx - testPos
	}
	if runLen%2 == 1 {
		return idx
	}
	return -1
}

func hasEscNewline(s string, multiLineQuote bool) bool {
	return getEscNewline(s, multiLineQuote) != -1
}

// BurnSpaces exposes the space/tab skip used internally by the cursor so
// the lexer can apply the same rule to its own line buffer.
func BurnSpaces(s string, start int) int {
	return burnSpaces(s, start)
}

// GetEscNewline exposes the trailing-escaped-newline check so the lexer
// can decide when a token's text spans a line continuation.
func GetEscNewline(s string, multiLineQuote bool) int {
	return getEscNewline(s, multiLineQuote)
}

// NextCloseQuote exposes the closing-quote search so the lexer can scan
// quoted string literals directly against a line buffer.
func NextCloseQuote(s string, start int) int {
	return nextCloseQuote(s, start)
}
