// Package symtab implements the SymbolTable stage: a three-tier
// keyword/global/local dictionary that resolves bare identifiers to
// their meaning and tracks the collisions, shadows, and missing
// prototypes that arise as declarations accumulate.
package symtab

import (
	"programindexer/internal/diag"
	"programindexer/pkg/token"
)

// SymbolTable is keyed purely by lexeme in each of its three tiers,
// matching how Token equality is defined: a keyword, a global
// declaration, and a local variable can all separately hold an entry
// for the same spelling.
type SymbolTable struct {
	keyList    map[string]token.Token
	globalList map[string]token.Token
	localList  map[string]token.Token
	sink       diag.Sink
}

// New builds a symbol table preloaded with the C keyword vocabulary.
func New(sink diag.Sink) *SymbolTable {
	s := &SymbolTable{
		keyList:    make(map[string]token.Token),
		globalList: make(map[string]token.Token),
		localList:  make(map[string]token.Token),
		sink:       sink,
	}
	for _, kw := range keywordTable {
		s.keyList[kw.Lexeme] = kw
	}
	return s
}

var keywordTable = []token.Token{
	token.NewKeyword("auto", token.TypeToken, token.NoMod),
	token.NewKeyword("break", token.Reserved, token.NoMod),
	token.NewKeyword("case", token.Reserved, token.NoMod),
	token.NewKeyword("char", token.TypeToken, token.NoMod),
	token.NewKeyword("const", token.TypeToken, token.NoMod),
	token.NewKeyword("continue", token.Reserved, token.NoMod),
	token.NewKeyword("default", token.Reserved, token.NoMod),
	token.NewKeyword("do", token.Reserved, token.NoMod),
	token.NewKeyword("double", token.TypeToken, token.NoMod),
	token.NewKeyword("else", token.Reserved, token.NoMod),
	token.NewKeyword("enum", token.Compound, token.NoMod),
	token.NewKeyword("extern", token.TypeToken, token.NoMod),
	token.NewKeyword("float", token.TypeToken, token.NoMod),
	token.NewKeyword("for", token.Control, token.ThreeArg),
	token.NewKeyword("goto", token.Reserved, token.NoMod),
	token.NewKeyword("if", token.Control, token.OneArg),
	token.NewKeyword("int", token.TypeToken, token.NoMod),
	token.NewKeyword("long", token.TypeToken, token.NoMod),
	token.NewKeyword("register", token.TypeToken, token.NoMod),
	token.NewKeyword("return", token.Reserved, token.NoMod),
	token.NewKeyword("short", token.TypeToken, token.NoMod),
	token.NewKeyword("signed", token.TypeToken, token.NoMod),
	token.NewKeyword("sizeof", token.Literal, token.NoMod), // close enough
	token.NewKeyword("static", token.StaticToken, token.NoMod),
	token.NewKeyword("struct", token.Compound, token.NoMod),
	token.NewKeyword("switch", token.Control, token.OneArg),
	token.NewKeyword("typedef", token.TypedefToken, token.NoMod),
	token.NewKeyword("union", token.Compound, token.NoMod),
	token.NewKeyword("unsigned", token.TypeToken, token.NoMod),
	token.NewKeyword("void", token.TypeToken, token.NoMod),
	token.NewKeyword("volatile", token.TypeToken, token.NoMod),
	token.NewKeyword("while", token.Control, token.OneArg),
}

func haveVarToken(t token.Token) bool {
	return t.Type == token.VarName || t.Type == token.TypeToken
}

func haveTypeToken(t token.Token) bool {
	return t.Type == token.TypeToken || t.Type == token.FunctTypedef
}

// ClearLocalNames drops every local-scope symbol, the way leaving a
// function body resets the local dictionary.
func (s *SymbolTable) ClearLocalNames() {
	s.localList = make(map[string]token.Token)
}

// ClearGlobalNames flags any file-scope prototype that was never
// matched by a declaration, then clears the global dictionary. This
// runs both between translation units and once more when processing
// finishes, so a lone file's dangling static prototype is still
// reported even without a "next" translation unit to trigger it.
func (s *SymbolTable) ClearGlobalNames() {
	s.ClearLocalNames()
	for _, sym := range s.globalList {
		if sym.Type == token.FunctProto && sym.Scope == token.FileScope {
			s.sink.Warn(sym.Position, "Static prototype of ", sym.Lexeme, " has no matching declaration")
		}
	}
	s.globalList = make(map[string]token.Token)
}

// CheckForSymbol resolves testToken's meaning in place against the
// keyword table, then local scope, then global scope. A local
// variable is allowed to shadow a same-named function: the lookup
// still records global scope information for it, biased toward
// believing a subsequent call was intended.
func (s *SymbolTable) CheckForSymbol(testToken *token.Token) {
	if kw, ok := s.keyList[testToken.Lexeme]; ok {
		testToken.SetMeaning(kw)
		return
	}

	localVar := false
	local, haveLocal := s.localList[testToken.Lexeme]
	if haveLocal {
		if local.Type == token.TypeToken {
			testToken.SetMeaning(local)
		} else {
			localVar = true
		}
	}

	if !haveLocal || localVar {
		global, haveGlobal := s.globalList[testToken.Lexeme]
		switch {
		case !haveGlobal:
			testToken.Scope = token.NoScope
		case haveTypeToken(global):
			if !localVar {
				testToken.SetMeaning(global)
			}
		case !haveVarToken(global):
			if global.Type != token.FunctProto || global.Scope != token.FileScope {
				testToken.Scope = global.Scope
			} else {
				testToken.Scope = token.NoScope
			}
		}
	}
}

// IsKeyword reports whether testToken is a keyword or a previously
// registered user-defined name, as opposed to a plain variable.
func (s *SymbolTable) IsKeyword(testToken token.Token) bool {
	if testToken.Type != token.Identifier {
		switch testToken.Type {
		case token.Literal, token.FunctDecl, token.FunctProto, token.FunctCall,
			token.FunctTypedef, token.TypeToken, token.TypedefToken, token.StaticToken,
			token.Compound, token.Control, token.Reserved:
			return true
		default:
			return false
		}
	}

	if kw, ok := s.keyList[testToken.Lexeme]; ok && kw.Type != token.VarName {
		return true
	}
	if g, ok := s.globalList[testToken.Lexeme]; ok && g.Type != token.VarName {
		return true
	}
	l, ok := s.localList[testToken.Lexeme]
	return ok && l.Type != token.VarName
}

// UpdateNameSpace commits testToken to the appropriate scope,
// reporting every namespace collision, shadow, or missing prototype
// this causes along the way. The branch ordering here mirrors the
// reference symbol table exactly: several branches overlap in what
// they match, and later branches assume earlier ones already ran.
func (s *SymbolTable) UpdateNameSpace(testToken token.Token) {
	global, haveGlobal := s.globalList[testToken.Lexeme]
	local, haveLocal := s.localList[testToken.Lexeme]

	if testToken.Scope == token.LocalScope {
		s.updateLocal(testToken, global, haveGlobal, local, haveLocal)
		return
	}

	if haveVarToken(testToken) {
		s.updateGlobalVar(testToken, global, haveGlobal)
		return
	}

	s.updateGlobalFunction(testToken, global, haveGlobal, local, haveLocal)
}

func (s *SymbolTable) updateLocal(testToken, global token.Token, haveGlobal bool, local token.Token, haveLocal bool) {
	needsUpdate := !haveLocal || (local.Type == token.VarName && testToken.Type == token.TypeToken)
	if !needsUpdate {
		return
	}

	if haveGlobal && !haveVarToken(global) {
		switch {
		case testToken.Type == token.TypeToken && global.Type == token.FunctTypedef:
			s.warn(testToken, "Declaration of type ", " shadows function typedef with same name in outer scope")
		case testToken.Type == token.TypeToken:
			s.warn(testToken, "Declaration of type ", " shadows function with same name in outer scope")
		case global.Type == token.FunctTypedef:
			s.warn(testToken, "Local variable ", " shadows function typedef with same name in outer scope")
		default:
			s.warn(testToken, "Local variable ", " shadows function with same name in outer scope")
		}
	}

	s.localList[testToken.Lexeme] = testToken
}

func (s *SymbolTable) updateGlobalVar(testToken, global token.Token, haveGlobal bool) {
	if !haveGlobal {
		s.globalList[testToken.Lexeme] = testToken
		return
	}
	if !haveVarToken(global) {
		switch {
		case global.Type == token.FunctTypedef && testToken.Type == token.VarName:
			s.warn(testToken, "Variable ", " uses name previously used as typedef for function")
		case global.Type == token.FunctTypedef:
			s.warn(testToken, "Type declaration ", " uses name previously used as typedef for function")
		case testToken.Type == token.VarName:
			s.warn(testToken, "Variable ", " uses name previously used as a function")
		default:
			s.warn(testToken, "Type declaration ", " uses name previously used as a function")
		}
		return
	}
	if global.Type == token.VarName && testToken.Type == token.TypeToken {
		s.globalList[testToken.Lexeme] = testToken
	}
}

func (s *SymbolTable) updateGlobalFunction(testToken, global token.Token, haveGlobal bool, local token.Token, haveLocal bool) {
	if haveLocal {
		misuse := (haveGlobal && haveTypeToken(global)) ||
			(testToken.Type == token.FunctCall && (!haveGlobal || haveVarToken(global)))
		switch {
		case misuse && testToken.Type == token.FunctTypedef:
			s.warn(testToken, "Typedef for function ", " uses name previously used as a local variable")
		case misuse:
			s.warn(testToken, "Function ", " uses name previously used as a local variable")
		case !haveGlobal || haveVarToken(global):
			switch {
			case local.Type == token.TypeToken && testToken.Type == token.FunctTypedef:
				s.warn(testToken, "Declaration of type ", " shadows function typedef with same name in outer scope")
			case local.Type == token.TypeToken:
				s.warn(testToken, "Declaration of type ", " shadows function with same name in outer scope")
			case testToken.Type == token.FunctTypedef:
				s.warn(local, "Local variable ", " shadows function typedef with same name in outer scope")
			default:
				s.warn(local, "Local variable ", " shadows function with same name in outer scope")
			}
		}
	}

	if testToken.Type == token.FunctCall {
		s.updateFunctionCall(testToken, global, haveGlobal, haveLocal)
		return
	}

	if !haveGlobal {
		s.globalList[testToken.Lexeme] = testToken
		return
	}
	if haveTypeToken(global) {
		if !haveLocal {
			switch {
			case testToken.Type == token.FunctTypedef && global.Type == token.FunctTypedef:
				s.warn(testToken, "Duplicate declaration of function typedef ", "")
			case testToken.Type == token.FunctTypedef:
				s.warn(global, "Type declaration ", " uses name previously used as typedef for function")
			default:
				s.warn(global, "Type declaration ", " uses name previously used as a function")
			}
		}
		return
	}
	if haveVarToken(global) {
		if testToken.Type == token.FunctTypedef {
			s.warn(global, "Variable ", " uses name previously used as typedef for function")
		} else {
			s.warn(global, "Variable ", " uses name previously used as a function")
		}
		s.globalList[testToken.Lexeme] = testToken
		return
	}
	if testToken.Type == token.FunctTypedef {
		s.warn(testToken, "Type declaration ", " uses name previously used as a function")
		return
	}
	if global.Type == token.FunctCall {
		s.globalList[testToken.Lexeme] = testToken
		return
	}
	if testToken.Type == token.FunctProto {
		if global.Type == token.FunctProto {
			if testToken.Scope == token.FileScope && global.Scope == token.GlobalScope {
				s.warn(testToken, "Static function ", " occurs after global prototype in same file.")
				s.globalList[testToken.Lexeme] = testToken
			} else {
				s.warn(testToken, "Duplicate prototype of ", "")
			}
		} else {
			s.warn(testToken, "Prototype for ", " occurs after declaration")
		}
		return
	}
	if global.Type == token.FunctProto {
		if testToken.Scope == token.FileScope && global.Scope == token.GlobalScope {
			s.warn(testToken, "Static function ", " occurs after global prototype in same file.")
		}
		s.globalList[testToken.Lexeme] = testToken
		return
	}
	if testToken.Scope == global.Scope {
		s.warn(testToken, "Duplicate declaration of ", "")
		return
	}
	s.warn(testToken, "Duplicate declaration of ", ", with different scope. File scope assumed.")
	if global.Scope == token.GlobalScope {
		s.globalList[testToken.Lexeme] = testToken
	}
}

func (s *SymbolTable) updateFunctionCall(testToken, global token.Token, haveGlobal, haveLocal bool) {
	if haveGlobal && haveTypeToken(global) {
		if !haveLocal {
			s.warn(global, "Type declaration ", " uses name previously used as a function")
		}
		return
	}
	if !haveGlobal || (global.Type != token.FunctProto && global.Type != token.FunctDecl) {
		s.warn(testToken, "Function call ", " has no prototype")
		if !haveGlobal {
			s.globalList[testToken.Lexeme] = testToken
		} else if global.Type != token.FunctCall {
			if !haveLocal {
				s.warn(global, "Variable ", " uses name previously used as a function")
			}
			s.globalList[testToken.Lexeme] = testToken
		}
	}
}

func (s *SymbolTable) warn(t token.Token, lead, trail string) {
	s.sink.Warn(t.Position, lead, t.Lexeme, trail)
}
