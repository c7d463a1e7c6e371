package lexer

import "programindexer/pkg/token"

// TokenBuffer sits in front of a Lexer and gives the recognizer
// unbounded one-pass lookahead: NextLookahead can be called repeatedly
// to peek further ahead without consuming, and NextToken always
// returns whatever token was consumed least recently, whether or not
// it was previously seen as lookahead.
type TokenBuffer struct {
	lexer *Lexer

	hold    []token.Token
	lookIdx int // index into hold currently exposed by NextLookahead; -1 means none yet
}

// NewTokenBuffer wraps lexer with a lookahead buffer.
func NewTokenBuffer(lexer *Lexer) *TokenBuffer {
	return &TokenBuffer{lexer: lexer, lookIdx: -1}
}

// NextToken returns the next token to process and invalidates any
// pending lookahead.
func (b *TokenBuffer) NextToken() token.Token {
	var t token.Token
	if len(b.hold) == 0 {
		t = b.lexer.NextToken()
	} else {
		t = b.hold[0]
		b.hold = b.hold[1:]
	}
	b.ResetLookahead()
	return t
}

// NextLookahead advances the lookahead pointer by one token without
// consuming it, pulling a fresh token from the lexer only when the
// lookahead runs past what has already been buffered.
func (b *TokenBuffer) NextLookahead() token.Token {
	if b.lookIdx == -1 {
		if len(b.hold) == 0 {
			b.hold = append(b.hold, b.lexer.NextToken())
		}
		b.lookIdx = 0
	} else {
		b.lookIdx++
		if b.lookIdx >= len(b.hold) {
			b.hold = append(b.hold, b.lexer.NextToken())
		}
	}
	return b.hold[b.lookIdx]
}

// LastLookahead returns the most recently returned lookahead token, or
// the zero Token if NextToken was called since the last lookahead.
func (b *TokenBuffer) LastLookahead() token.Token {
	if b.lookIdx == -1 {
		return token.Token{}
	}
	return b.hold[b.lookIdx]
}

// ResetLookahead discards the lookahead position so the next
// NextLookahead call starts over from the token after the last one
// NextToken returned.
func (b *TokenBuffer) ResetLookahead() {
	b.lookIdx = -1
}

// HaveEOF reports whether the source is exhausted and no unconsumed
// tokens remain buffered.
func (b *TokenBuffer) HaveEOF() bool {
	return b.lexer.HaveEOF() && (len(b.hold) == 0 || b.hold[0].Type == token.EOF)
}
