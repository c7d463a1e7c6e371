// Package lexer implements the Lexer and TokenBuffer stages: a
// classifying scanner over a source.Cursor's logical lines, and a
// lookahead buffer in front of it that the recognizer drives.
package lexer

import (
	"strings"

	"programindexer/pkg/source"
	"programindexer/pkg/token"
)

const (
	digitChars = "1234567890"
	alphaChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	declChars  = "*[], \t"
	otherChars = "`!@#$%^+=|\\<>?/"
)

// Lexer classifies the raw text a source.Cursor produces into Tokens.
// A token's text may span a line continuation; Lexer caches the
// position of the line a token started on and only refreshes it once
// the char pointer has caught up to freshly loaded text, so multi-line
// tokens report the position of their first line.
type Lexer struct {
	cursor *source.Cursor

	buffer  string
	charPtr int

	location     token.FilePosition
	loadLineData bool
	newLinePos   int
}

// New starts a lexer over cursor, priming its first line of text.
func New(cursor *source.Cursor) *Lexer {
	l := &Lexer{cursor: cursor}
	l.reloadBuffer(false)
	l.location = cursor.Position()
	return l
}

// HaveEOF reports whether every line from the cursor has been consumed.
func (l *Lexer) HaveEOF() bool {
	return l.cursor.HaveEOF() && l.charPtr >= len(l.buffer)
}

func (l *Lexer) isLineWrap(pos int, multiLineQuote bool) bool {
	if l.cursor.HaveEOF() {
		return false
	}
	if pos >= len(l.buffer) {
		return false
	}
	if l.buffer[pos] != '\\' {
		return false
	}
	return source.GetEscNewline(l.buffer, multiLineQuote) == pos
}

// reloadBuffer pulls the next logical line from the cursor, keeping
// any unconsumed text before an escaped-newline that a wrapping token
// needs to see continued.
func (l *Lexer) reloadBuffer(multiLineQuote bool) {
	var numKeep int
	if l.charPtr >= len(l.buffer) {
		numKeep = 0
	} else {
		firstIgnore := source.GetEscNewline(l.buffer, multiLineQuote)
		if firstIgnore == -1 {
			firstIgnore = len(l.buffer)
		}
		if firstIgnore <= l.charPtr {
			numKeep = 0
		} else {
			numKeep = firstIgnore - l.charPtr
		}
	}

	var kept string
	if numKeep > 0 {
		kept = l.buffer[l.charPtr : l.charPtr+numKeep]
	}
	l.buffer = kept
	l.newLinePos = numKeep

	if !l.cursor.HaveEOF() {
		if next, ok := l.cursor.NextLine(); ok {
			l.buffer += next
		}
		l.loadLineData = true
	}
	l.charPtr = 0
}

// handleOtherChars consumes a run of consecutive symbol characters as a
// single token, distinguishing the small set legal in declarations
// (`*[], `) from everything else.
func (l *Lexer) handleOtherChars() token.Token {
	ch := l.buffer[l.charPtr]
	var wantType token.Type
	var end int
	if strings.IndexByte(declChars, ch) != -1 {
		wantType = token.DeclSymbol
		end = firstNotOf(l.buffer, declChars, l.charPtr+1)
	} else {
		wantType = token.OtherSymbol
		end = firstNotOf(l.buffer, declChars+otherChars, l.charPtr+1)
	}
	if end == -1 {
		end = len(l.buffer) - 1
	} else {
		end--
	}
	lexeme := l.buffer[l.charPtr : end+1]
	l.charPtr = end
	return token.New(lexeme, l.location, wantType)
}

func (l *Lexer) getNumeric() token.Token {
	end := l.charPtr
	seenE := false
	haveLexeme := false
	for !haveLexeme {
		if end > len(l.buffer)-1 {
			end = -1
		} else {
			end = firstNotOf(l.buffer, digitChars+".", end)
		}
		switch {
		case end == -1:
			end = len(l.buffer)
			haveLexeme = true
		case l.isLineWrap(end, false):
			l.reloadBuffer(false)
			end = l.newLinePos
		case l.buffer[end] == 'E' && !seenE:
			end++
			seenE = true
		default:
			haveLexeme = true
		}
	}
	end--
	lexeme := l.buffer[l.charPtr : end+1]
	l.charPtr = end
	return token.New(lexeme, l.location, token.Literal)
}

func (l *Lexer) getQuotedString() token.Token {
	end := l.charPtr + 1
	haveValue := false
	for !haveValue {
		end = source.NextCloseQuote(l.buffer, end)
		if !l.cursor.HaveEOF() && end == -1 {
			l.reloadBuffer(true)
			end = l.newLinePos
		} else {
			haveValue = true
		}
	}
	if end == -1 {
		end = len(l.buffer) - 1
	}
	upper := end + 1
	if upper > len(l.buffer) {
		upper = len(l.buffer)
	}
	lexeme := l.buffer[l.charPtr:upper]
	l.charPtr = end
	return token.New(lexeme, l.location, token.Literal)
}

func (l *Lexer) getIdentifier() token.Token {
	lexeme := string(l.buffer[l.charPtr])
	l.charPtr++
	end := l.charPtr
	haveLexeme := false
	for !haveLexeme {
		if end > len(l.buffer)-1 {
			end = -1
		} else {
			end = firstNotOf(l.buffer, alphaChars+digitChars, end)
		}
		switch {
		case end == -1:
			haveLexeme = true
		case l.isLineWrap(end, false):
			l.reloadBuffer(false)
			end = l.newLinePos
		default:
			haveLexeme = true
		}
	}
	if end == -1 {
		end = len(l.buffer)
	} else {
		end--
	}
	if end >= l.charPtr {
		lexeme += l.buffer[l.charPtr : end+1]
	}
	l.charPtr = end
	return token.New(lexeme, l.location, token.Identifier)
}

func (l *Lexer) handleMinus() token.Token {
	if l.charPtr == len(l.buffer)-1 {
		return token.New(string(l.buffer[l.charPtr]), l.location, token.OtherSymbol)
	}
	if l.isLineWrap(l.charPtr+1, false) {
		l.reloadBuffer(false)
	}
	if l.buffer[l.charPtr+1] == '>' {
		lexeme := l.buffer[l.charPtr : l.charPtr+2]
		l.charPtr++
		return token.New(lexeme, l.location, token.FieldAccess)
	}
	return l.handleOtherChars()
}

func (l *Lexer) handleAmpersand() token.Token {
	if l.charPtr == len(l.buffer)-1 {
		return token.New(string(l.buffer[l.charPtr]), l.location, token.Ampersand)
	}
	if l.isLineWrap(l.charPtr+1, false) {
		l.reloadBuffer(false)
	}
	if l.buffer[l.charPtr+1] == '&' {
		lexeme := l.buffer[l.charPtr : l.charPtr+2]
		l.charPtr++
		return token.New(lexeme, l.location, token.OtherSymbol)
	}
	return token.New(string(l.buffer[l.charPtr]), l.location, token.Ampersand)
}

// handleSinQuote recognizes a C character literal: 'c', '\c' for the
// standard escape set, '\ddd' octal, or '\xHH' hex with exactly two hex
// digits. A literal with one hex digit is not accepted here and falls
// back to handleOtherChars, matching how the reference tool always
// treated it.
func (l *Lexer) handleSinQuote() token.Token {
	haveError := false
	haveValue := false
	haveEscape := false
	haveHex := false
	haveOct := false
	haveZero := false
	length := 1

	for !haveValue && !haveError {
		length++
		if l.charPtr+length-1 >= len(l.buffer) {
			haveError = true
			continue
		}
		if l.isLineWrap(l.charPtr+length-1, true) {
			l.reloadBuffer(true)
			length--
			continue
		}

		testChar := l.buffer[l.charPtr+length-1]
		switch length {
		case 2:
			switch testChar {
			case '\'':
				haveError = true
			case '\\':
				haveEscape = true
			}
		case 3:
			switch {
			case !haveEscape:
				if testChar == '\'' {
					haveValue = true
				} else {
					haveError = true
				}
			case testChar == '0':
				haveZero = true
			case isDigit(testChar):
				haveOct = true
			case testChar == 'x':
				haveHex = true
			case !isCEscapeChar(testChar):
				haveError = true
			}
		case 4:
			if haveZero && isDigit(testChar) {
				haveOct = true
			}
			switch {
			case haveOct:
				haveError = !isDigit(testChar)
			case haveHex:
				haveError = !isHexDigit(testChar)
			case haveEscape && testChar == '\'':
				haveValue = true
			default:
				haveError = true
			}
		case 5:
			switch {
			case haveOct:
				haveError = !isDigit(testChar)
			case haveHex:
				haveError = !isHexDigit(testChar)
			default:
				haveError = true
			}
		case 6:
			if (haveHex || haveOct) && testChar == '\'' {
				haveValue = true
			} else {
				haveError = true
			}
		default:
			haveError = true
		}
	}

	if haveValue {
		lexeme := l.buffer[l.charPtr : l.charPtr+length]
		l.charPtr += length - 1
		return token.New(lexeme, l.location, token.Literal)
	}
	return l.handleOtherChars()
}

// NextToken lexes and returns the next token, advancing past any
// trailing whitespace or escaped newlines so the char pointer sits on
// the next meaningful character (or off the end of the file).
func (l *Lexer) NextToken() token.Token {
	if l.HaveEOF() {
		pos := l.location
		pos.IncrLine()
		return token.Token{Position: pos, Type: token.EOF}
	}

	var result token.Token
	ch := l.buffer[l.charPtr]
	switch {
	case isAlpha(ch) || ch == '_' || ch == '~':
		result = l.getIdentifier()
	case isDigit(ch):
		result = l.getNumeric()
	default:
		switch ch {
		case '"':
			result = l.getQuotedString()
		case '-':
			result = l.handleMinus()
		case '\'':
			result = l.handleSinQuote()
		case '&':
			result = l.handleAmpersand()
		case '.':
			if l.charPtr == len(l.buffer)-1 || !isDigit(l.buffer[l.charPtr+1]) {
				result = token.New(string(ch), l.location, token.FieldAccess)
			} else {
				result = l.getNumeric()
			}
		case ';':
			result = token.New(string(ch), l.location, token.Semicolon)
		case '{':
			result = token.New(string(ch), l.location, token.OpenBrace)
		case '}':
			result = token.New(string(ch), l.location, token.CloseBrace)
		case '(':
			result = token.New(string(ch), l.location, token.OpenParen)
		case ')':
			result = token.New(string(ch), l.location, token.CloseParen)
		default:
			result = l.handleOtherChars()
		}
	}

	l.charPtr++
	haveChar := false
	for !haveChar && (!l.cursor.HaveEOF() || l.charPtr < len(l.buffer)) {
		if l.charPtr < len(l.buffer) {
			l.charPtr = source.BurnSpaces(l.buffer, l.charPtr)
		}
		if l.charPtr == -1 {
			l.charPtr = len(l.buffer)
		} else if l.isLineWrap(l.charPtr, false) {
			l.charPtr = len(l.buffer)
		}
		if l.charPtr >= len(l.buffer) {
			l.reloadBuffer(false)
		} else {
			haveChar = true
		}
	}

	if l.loadLineData && l.charPtr >= l.newLinePos {
		l.location = l.cursor.Position()
		l.loadLineData = false
	}
	return result
}

func firstNotOf(s, set string, start int) int {
	for i := start; i < len(s); i++ {
		if !strings.ContainsRune(set, rune(s[i])) {
			return i
		}
	}
	return -1
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func isCEscapeChar(c byte) bool {
	switch c {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '?', '"', '\'':
		return true
	default:
		return false
	}
}
