// Package recognizer implements the Recognizer stage: a bottom-up
// statement classifier that walks the token stream one token at a
// time, using a small stack of pending operators to disambiguate
// declarations, control statements, and expressions, and consulting a
// symbol table to tell a function call from a plain variable use.
//
// The parser makes a deliberate set of assumptions where the input is
// ambiguous, always biased toward reporting an extra function call
// rather than suppressing a genuine one:
//
//  1. Openbraces, semicolons (outside control/compound statements),
//     and control keywords always start a new statement.
//  2. In a declaration, a second identifier or a literal starts the
//     initial value; the rest of the statement is treated as an
//     expression.
//  3. In expressions, type tokens are assumed to be casts.
//  4. In compound types, everything up to the matching close brace is
//     assumed to belong to the type.
//  5. Argument lists are parsed by counting parentheses.
package recognizer

import (
	"programindexer/internal/diag"
	"programindexer/pkg/lexer"
	"programindexer/pkg/symtab"
	"programindexer/pkg/token"
)

type statementType int

const (
	stUndet statementType = iota
	stDeclaration
	stExpression
	stControl
)

// tokenStack is a LIFO of pending operators and statement markers.
// Equality/ordering elsewhere is by lexeme, but here it is only ever
// searched or popped by Type.
type tokenStack []token.Token

func (s *tokenStack) push(t token.Token) {
	*s = append(*s, t)
}

// pop removes and returns the top token, or the zero Token if empty.
func (s *tokenStack) pop() token.Token {
	if len(*s) == 0 {
		return token.Token{}
	}
	t := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return t
}

// popTillType discards tokens from the top until one of wantType is
// found and removed, and returns it; if the stack empties first, it
// returns the zero Token.
func (s *tokenStack) popTillType(wantType token.Type) token.Token {
	for len(*s) > 0 && (*s)[len(*s)-1].Type != wantType {
		*s = (*s)[:len(*s)-1]
	}
	return s.pop()
}

func (s tokenStack) hasType(wantType token.Type) bool {
	for _, t := range s {
		if t.Type == wantType {
			return true
		}
	}
	return false
}

func (s tokenStack) empty() bool { return len(s) == 0 }
func (s tokenStack) back() token.Token {
	return s[len(s)-1]
}
func (s tokenStack) front() token.Token {
	if len(s) == 0 {
		return token.Token{}
	}
	return s[0]
}
func (s *tokenStack) clear() { *s = nil }

// Recognizer turns a token stream into a sequence of function tokens:
// each NextFunction call returns the next function declaration or call
// it finds, resolving names against sym and reporting problems through
// sink as it goes. Prototypes and function typedefs are registered with
// sym but are never returned.
type Recognizer struct {
	buffer *lexer.TokenBuffer
	symtab *symtab.SymbolTable
	sink   diag.Sink

	parseStack    tokenStack
	readNextToken bool
	currToken     token.Token
	functToken    token.Token
	statementType statementType
	braceCount    int
}

// New builds a Recognizer over buffer and primes its first function
// lookahead so HaveEOF is accurate before the first NextFunction call.
func New(buffer *lexer.TokenBuffer, sym *symtab.SymbolTable, sink diag.Sink) *Recognizer {
	r := &Recognizer{buffer: buffer, symtab: sym, sink: sink}
	r.init()
	r.findNextFunction()
	return r
}

func (r *Recognizer) init() {
	r.readNextToken = true
	r.currToken = token.Token{}
	r.functToken = token.Token{}
	r.statementType = stUndet
	r.braceCount = 0
	r.symtab.ClearGlobalNames()
	r.newStatement()
}

// HaveEOF reports whether the underlying token stream is exhausted and
// no function is waiting to be returned.
func (r *Recognizer) HaveEOF() bool {
	return r.buffer.HaveEOF() && r.functToken.Type == token.NoToken
}

// NextFunction returns the function found by the previous scan and
// advances to the next one, so the caller sees exactly one function
// behind the scanner's actual position.
func (r *Recognizer) NextFunction() token.Token {
	result := r.functToken
	r.findNextFunction()
	return result
}

// newStatement resets statement tracking between statements, warning
// about any function call left on the stack with its argument list
// still open.
func (r *Recognizer) newStatement() {
	for !r.parseStack.empty() {
		found := r.parseStack.popTillType(token.FunctCall)
		if found.Type == token.FunctCall {
			r.warn(found, "Call of function ", " is incomplete")
		}
	}
	r.statementType = stUndet
}

func (r *Recognizer) warn(t token.Token, lead, trail string) {
	r.sink.Warn(t.Position, lead, t.Lexeme, trail)
}

// procCombType handles a struct/union/enum tag: it decides whether the
// combination type introduces a declaration or is only referenced as a
// type, and in the declaration case burns the whole body up to its
// matching close brace so the outer statement never sees its contents.
func (r *Recognizer) procCombType() {
	next := r.buffer.NextLookahead()
	next2 := r.buffer.NextLookahead()

	usedAsType := (next.Type != token.Identifier && next.Type != token.OpenBrace) ||
		(next.Type == token.Identifier && next2.Type != token.OpenBrace) ||
		r.statementType == stExpression || r.statementType == stControl

	if usedAsType {
		if next.Type == token.Identifier {
			r.buffer.NextToken() // burn the tag, assuming it was left out on purpose
		}
		r.currToken.Type = token.TypeToken
		return
	}

	readNext := false
	if next.Type == token.Identifier {
		next = next2
		readNext = true
	}

	braceCount := 1
	parenCount := 0
	for r.currToken.Type == token.Compound {
		for next.Type != token.CloseBrace && next.Type != token.Semicolon &&
			next.Type != token.FunctCall && next.Type != token.Control &&
			next.Type != token.Reserved && next.Type != token.EOF {
			if readNext {
				next = r.buffer.NextLookahead()
			} else {
				next = r.buffer.LastLookahead()
			}
			readNext = true

			if next.Type == token.Identifier {
				r.symtab.CheckForSymbol(&next)
			}

			if next.Type == token.Compound {
				next2 = r.buffer.NextLookahead()
				if next2.Type == token.Identifier {
					next2 = r.buffer.NextLookahead()
				}
				if next2.Type == token.OpenBrace {
					next = next2
					braceCount++
				} else {
					next.Type = token.TypeToken
					readNext = false
				}
			} else if next.Type == token.Identifier {
				for r.buffer.NextLookahead().Type == token.CloseParen && parenCount > 0 {
					parenCount--
				}
				if r.buffer.LastLookahead().Type == token.OpenParen {
					next.Type = token.FunctCall
				}
				readNext = false
			}

			if next.Type == token.OpenParen {
				parenCount++
			} else {
				parenCount = 0
			}
		}

		if next.Type == token.CloseBrace || next.Type == token.Semicolon {
			r.buffer.NextToken() // burn the previous separator
			for r.buffer.NextLookahead().Type != token.Semicolon &&
				r.buffer.LastLookahead().Type != token.CloseBrace {
				r.buffer.NextToken()
			}
			if next.Type == token.CloseBrace {
				braceCount--
				if braceCount <= 0 {
					r.buffer.NextToken()
					r.currToken.Type = token.TypeToken
				}
			}
			next = token.Token{}
		} else {
			// Early termination: drop the statement at the most recent
			// separator instead. A close brace here would really mean a
			// nested compound declaration finished, but that never comes
			// up in practice, so it is folded into a plain semicolon.
			r.currToken = r.buffer.NextToken()
			if r.currToken.Type == token.CloseBrace {
				r.currToken.Type = token.Semicolon
			}
		}
	}
}

// procDeclaration consumes tokens for the rest of a declaration
// statement once its leading type has been seen, splitting off
// function declarations from ordinary variable declarations.
func (r *Recognizer) procDeclaration() {
	declToken := r.currToken
	var varNames tokenStack

	var haveFunction, insideParams bool
	var parenCount int
	if r.buffer.LastLookahead().Type == token.OpenParen {
		haveFunction = true
		insideParams = true
		parenCount = 1
		r.buffer.NextToken() // burn the paren so it isn't mistaken for an argument declaration
	}

	consParenCount := 0
	for r.statementType == stDeclaration {
		r.currToken = r.buffer.NextToken()
		if r.currToken.Type == token.Identifier {
			r.symtab.CheckForSymbol(&r.currToken)
		}
		if r.currToken.Type == token.Compound {
			r.procCombType()
		}

		switch r.currToken.Type {
		case token.Identifier:
			for r.buffer.NextLookahead().Type == token.CloseParen && consParenCount > 0 {
				r.buffer.NextToken()
				consParenCount--
			}
			if r.buffer.LastLookahead().Type == token.OpenParen {
				// Function call: ends a function declaration, or starts a
				// variable's initial value.
				r.statementType = stExpression
			} else {
				// A parameter name in a function, or another declared
				// variable. K&R parameter declarations need no parens.
				r.currToken.Type = token.VarName
				if haveFunction || r.braceCount > 0 {
					r.currToken.Scope = token.LocalScope
				} else {
					r.currToken.Scope = token.FileScope
				}
				varNames.push(r.currToken)
				if haveFunction && !insideParams && r.buffer.LastLookahead().Type == token.Semicolon {
					r.buffer.NextToken() // trailing semicolon of a K&R parameter declaration
				}
			}

		case token.OpenParen:
			parenCount++

		case token.CloseParen:
			parenCount--
			if insideParams && parenCount <= 0 {
				insideParams = false
			}

		case token.TypedefToken, token.StaticToken:
			if !insideParams {
				r.parseStack.push(r.currToken)
			}

		case token.Ampersand, token.OtherSymbol:
			// Reached the initializer list; an error for a function.
			if haveFunction {
				r.statementType = stUndet
			} else {
				r.statementType = stExpression
			}

		case token.TypeToken, token.DeclSymbol:
			// ignore

		case token.FieldAccess:
			if !insideParams || r.currToken.Lexeme != "." {
				r.statementType = stUndet
			}
			// else assume a varargs ellipsis inside a parameter list

		default:
			r.statementType = stUndet
		}

		if r.currToken.Type == token.OpenParen {
			consParenCount++
		} else {
			consParenCount = 0
		}
	}

	if haveFunction {
		r.procFunctDeclaration(&declToken, r.currToken, insideParams)
	} else {
		if r.parseStack.hasType(token.TypedefToken) {
			declToken.Type = token.TypeToken
		} else {
			declToken.Type = token.VarName
		}
		if r.braceCount > 0 {
			declToken.Scope = token.LocalScope
		} else {
			declToken.Scope = token.FileScope
		}
		r.symtab.UpdateNameSpace(declToken)
	}

	// Parameters of a prototype are not real declarations; only add
	// them once it is clear the function actually has a body.
	if declToken.Type == token.VarName || declToken.Type == token.FunctDecl {
		for !varNames.empty() {
			r.symtab.UpdateNameSpace(varNames.pop())
		}
	}
	r.readNextToken = false // the token that ended the declaration still needs processing
}

// procFunctDeclaration classifies a function's leading name as a
// typedef, a full declaration, or a bare prototype, and registers it.
func (r *Recognizer) procFunctDeclaration(declToken *token.Token, nextToken token.Token, insideParams bool) {
	switch {
	case r.parseStack.hasType(token.TypedefToken) && !r.symtab.IsKeyword(*declToken) && r.braceCount == 0:
		declToken.Type = token.FunctTypedef
	case nextToken.Type == token.OpenBrace:
		declToken.Type = token.FunctDecl
	default:
		declToken.Type = token.FunctProto
	}

	if insideParams || (declToken.Type != token.FunctDecl && nextToken.Type != token.Semicolon) {
		switch declToken.Type {
		case token.FunctTypedef:
			r.warn(*declToken, "Function type definition ", " is incomplete")
		case token.FunctDecl:
			r.warn(*declToken, "Declaration of function ", " is incomplete")
		default:
			r.warn(*declToken, "Prototype of function ", " is incomplete")
		}
	}

	if r.parseStack.hasType(token.StaticToken) {
		declToken.Scope = token.FileScope
	} else {
		declToken.Scope = token.GlobalScope
	}

	if r.braceCount > 0 {
		if declToken.Type == token.FunctDecl {
			r.warn(*declToken, "Declaration of function ", " occurs within another function")
		} else {
			r.warn(*declToken, "Prototype of function ", " occurs within another function")
		}
	}

	r.symtab.UpdateNameSpace(*declToken)

	if declToken.Type == token.FunctDecl {
		r.functToken = *declToken
	}
	r.parseStack.clear()
}

// findNextFunction drives the token-by-token state machine until it
// produces a function token or the input runs out.
func (r *Recognizer) findNextFunction() {
	conParenCount := 0
	var tempToken token.Token

	r.functToken = token.Token{}
	for r.functToken.Type == token.NoToken && !r.buffer.HaveEOF() {
		if r.readNextToken {
			r.currToken = r.buffer.NextToken()
		} else {
			r.readNextToken = true
			r.buffer.ResetLookahead()
		}

		if r.currToken.Type == token.Identifier {
			r.symtab.CheckForSymbol(&r.currToken)
		}
		if r.currToken.Type == token.Compound {
			r.procCombType()
		}

		switch r.currToken.Type {
		case token.Ampersand:
			if r.parseStack.empty() || r.parseStack.back().Type == token.OpenParen {
				r.parseStack.push(r.currToken)
			}
			// else a bitwise AND, or an error either way; ignore it

		case token.FieldAccess:
			if r.statementType == stExpression {
				if !r.parseStack.empty() && r.parseStack.back().Type == token.Ampersand {
					r.parseStack.pop() // assume the struct name was left out
				}
				r.parseStack.push(r.currToken)
			}

		case token.Semicolon:
			if r.statementType == stControl {
				tempToken = r.parseStack.front()
			} else {
				tempToken = token.Token{}
			}
			r.newStatement()
			if tempToken.Type == token.Control && tempToken.Modifier != token.OneArg {
				r.statementType = stControl
				if tempToken.Modifier == token.TwoArg {
					tempToken.Modifier = token.OneArg
				} else {
					tempToken.Modifier = token.TwoArg
				}
				r.parseStack.push(tempToken)
				// Replace the opening paren popped above, assuming it is
				// on the same line as the semicolon just found.
				r.parseStack.push(token.New("(", r.currToken.Position, token.OpenParen))
			}

		case token.OpenBrace:
			r.braceCount++
			r.newStatement()

		case token.CloseBrace:
			if r.braceCount == 1 {
				r.symtab.ClearLocalNames()
			}
			if r.braceCount > 0 {
				r.braceCount--
			}
			r.newStatement()

		case token.OpenParen:
			if r.statementType == stUndet && r.parseStack.empty() {
				r.statementType = stExpression
			}
			if r.statementType != stDeclaration {
				r.parseStack.push(r.currToken)
			}
			conParenCount++

		case token.CloseParen:
			if r.statementType != stDeclaration {
				r.parseStack.popTillType(token.OpenParen)
				if !r.parseStack.empty() && r.parseStack.back().Type == token.FunctCall {
					r.parseStack.pop()
				}
				if !r.parseStack.empty() && r.parseStack.back().Type == token.Control {
					r.statementType = stUndet
					r.parseStack.pop()
				}
				if !r.parseStack.empty() &&
					(r.parseStack.back().Type == token.Ampersand || r.parseStack.back().Type == token.FunctCall) {
					r.parseStack.pop()
				}
			}

		case token.DeclSymbol, token.OtherSymbol:
			// ignore; in a declaration, assume it was inserted by accident

		case token.Literal:
			if r.statementType == stUndet {
				r.statementType = stExpression
			}

		case token.Identifier:
			for r.buffer.NextLookahead().Type == token.CloseParen && conParenCount > 0 {
				r.buffer.NextToken()
				conParenCount--
				if r.statementType != stDeclaration {
					r.parseStack.pop()
				}
			}
			if r.statementType == stDeclaration {
				r.procDeclaration()
			} else {
				if r.buffer.LastLookahead().Type == token.OpenParen {
					r.currToken.Type = token.FunctCall
					if !r.parseStack.empty() && r.parseStack.back().Type == token.Ampersand {
						r.currToken.Modifier = token.FuncRef
					}
					if !r.parseStack.empty() && r.parseStack.back().Type == token.FieldAccess {
						r.warn(r.currToken, "Function call ", " is an element of a structured type")
					}
				} else {
					r.currToken.Type = token.VarName
					if r.braceCount > 0 {
						r.currToken.Scope = token.LocalScope
					} else {
						r.currToken.Scope = token.FileScope
					}
				}

				r.symtab.UpdateNameSpace(r.currToken)

				if !r.parseStack.empty() &&
					(r.parseStack.back().Type == token.FieldAccess || r.parseStack.back().Type == token.Ampersand) {
					r.parseStack.pop()
				}
				if r.statementType == stUndet {
					r.statementType = stExpression
				}

				if r.currToken.Type == token.FunctCall {
					r.parseStack.push(r.currToken)
					// Push the following paren so it isn't folded into the
					// consecutive-parenthese count.
					r.parseStack.push(r.buffer.NextToken())
					r.functToken = r.currToken
				}
			}

		case token.TypedefToken, token.StaticToken:
			if r.statementType == stUndet {
				r.statementType = stDeclaration
			}
			if r.statementType == stDeclaration {
				r.parseStack.push(r.currToken)
			}

		case token.TypeToken:
			if r.statementType == stUndet {
				r.statementType = stDeclaration
			}

		case token.FunctTypedef:
			// A function declared through a previously defined type.
			// Legal, but rare enough that it gets its own path here
			// instead of folding into procDeclaration.
			conParenCount = 0
			for r.buffer.NextLookahead().Type == token.OpenParen {
				conParenCount++
			}
			tempToken = r.buffer.LastLookahead()
			if tempToken.Type == token.Identifier {
				r.symtab.CheckForSymbol(&tempToken)
			}
			if tempToken.Type == token.Identifier {
				for r.buffer.NextLookahead().Type == token.CloseParen && conParenCount > 0 {
					conParenCount--
				}
				if conParenCount <= 0 {
					conParenCount = 0
					r.currToken = r.buffer.NextToken()
					for r.currToken.Type == token.OpenParen {
						conParenCount++
						r.currToken = r.buffer.NextToken()
					}
					for conParenCount > 0 {
						r.buffer.NextToken()
						conParenCount--
					}
					r.procFunctDeclaration(&r.currToken, r.buffer.NextLookahead(), false)
				}
			}

		case token.Control:
			r.newStatement()
			r.statementType = stControl
			r.parseStack.push(r.currToken)
			if r.buffer.NextLookahead().Type != token.OpenParen {
				r.parseStack.push(token.New("(", r.currToken.Position, token.OpenParen))
			}

		case token.Reserved:
			r.newStatement()

		default:
			// ignore anything else
		}

		if r.buffer.HaveEOF() {
			r.newStatement()
		}
		if r.currToken.Type != token.OpenParen {
			conParenCount = 0
		}
	}
}
