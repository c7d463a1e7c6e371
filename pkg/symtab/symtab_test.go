package symtab

import (
	"testing"

	"programindexer/internal/diag"
	"programindexer/pkg/token"
)

func pos(line int) token.FilePosition {
	return token.FilePosition{FileName: "f.c", LineNo: line}
}

func TestCheckForSymbolResolvesKeyword(t *testing.T) {
	s := New(&diag.CollectingSink{})
	tok := token.New("int", pos(1), token.Identifier)
	s.CheckForSymbol(&tok)
	if tok.Type != token.TypeToken || tok.Scope != token.KeywordScope {
		t.Fatalf("expected int to resolve as a keyword type token, got %+v", tok)
	}
}

func TestCheckForSymbolResolvesGlobalFunction(t *testing.T) {
	s := New(&diag.CollectingSink{})
	decl := token.New("run", pos(1), token.FunctDecl)
	decl.Scope = token.GlobalScope
	s.UpdateNameSpace(decl)

	call := token.New("run", pos(2), token.FunctCall)
	s.CheckForSymbol(&call)
	if call.Scope != token.GlobalScope {
		t.Fatalf("expected call to resolve to global scope, got %+v", call)
	}
}

func TestCheckForSymbolLeavesUnknownIdentifierUnscoped(t *testing.T) {
	s := New(&diag.CollectingSink{})
	tok := token.New("mystery", pos(1), token.Identifier)
	s.CheckForSymbol(&tok)
	if tok.Scope != token.NoScope {
		t.Fatalf("expected an unregistered identifier to stay unscoped, got %+v", tok)
	}
}

func TestUpdateNameSpaceWarnsOnDuplicatePrototype(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	proto := token.New("run", pos(1), token.FunctProto)
	proto.Scope = token.GlobalScope
	s.UpdateNameSpace(proto)

	dup := token.New("run", pos(5), token.FunctProto)
	dup.Scope = token.GlobalScope
	s.UpdateNameSpace(dup)

	if len(sink.Messages) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(sink.Messages), sink.Messages)
	}
	if sink.Messages[0].Lead != "Duplicate prototype of " {
		t.Fatalf("expected a duplicate prototype warning, got %+v", sink.Messages[0])
	}
}

func TestUpdateNameSpaceWarnsOnCallWithoutPrototype(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	call := token.New("run", pos(1), token.FunctCall)
	call.Scope = token.GlobalScope
	s.UpdateNameSpace(call)

	if len(sink.Messages) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(sink.Messages), sink.Messages)
	}
	if sink.Messages[0].Lead != "Function call " || sink.Messages[0].Trail != " has no prototype" {
		t.Fatalf("expected a missing-prototype warning, got %+v", sink.Messages[0])
	}
}

func TestUpdateNameSpaceSuppressesMissingPrototypeAfterDeclaration(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	decl := token.New("run", pos(1), token.FunctDecl)
	decl.Scope = token.GlobalScope
	s.UpdateNameSpace(decl)

	call := token.New("run", pos(4), token.FunctCall)
	call.Scope = token.GlobalScope
	s.UpdateNameSpace(call)

	if len(sink.Messages) != 0 {
		t.Fatalf("expected no warnings once a declaration is on record, got %v", sink.Messages)
	}
}

func TestUpdateNameSpaceWarnsOnLocalShadowingGlobalFunction(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	decl := token.New("run", pos(1), token.FunctDecl)
	decl.Scope = token.GlobalScope
	s.UpdateNameSpace(decl)

	local := token.New("run", pos(3), token.VarName)
	local.Scope = token.LocalScope
	s.UpdateNameSpace(local)

	if len(sink.Messages) != 1 {
		t.Fatalf("expected exactly one shadow warning, got %d: %v", len(sink.Messages), sink.Messages)
	}
	if sink.Messages[0].Lead != "Local variable " || sink.Messages[0].Trail != " shadows function with same name in outer scope" {
		t.Fatalf("expected a shadow warning, got %+v", sink.Messages[0])
	}
}

func TestUpdateNameSpaceAllowsRedeclaredLocalVariable(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	a := token.New("count", pos(1), token.VarName)
	a.Scope = token.LocalScope
	s.UpdateNameSpace(a)

	b := token.New("count", pos(2), token.VarName)
	b.Scope = token.LocalScope
	s.UpdateNameSpace(b)

	if len(sink.Messages) != 0 {
		t.Fatalf("expected no warnings redeclaring a plain local variable, got %v", sink.Messages)
	}
}

func TestClearLocalNamesDropsLocalScope(t *testing.T) {
	s := New(&diag.CollectingSink{})
	local := token.New("count", pos(1), token.VarName)
	local.Scope = token.LocalScope
	s.UpdateNameSpace(local)

	s.ClearLocalNames()

	tok := token.New("count", pos(2), token.Identifier)
	s.CheckForSymbol(&tok)
	if tok.Scope != token.NoScope {
		t.Fatalf("expected local scope to be cleared, got %+v", tok)
	}
}

func TestClearGlobalNamesWarnsOnDanglingStaticPrototype(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	proto := token.New("helper", pos(1), token.FunctProto)
	proto.Scope = token.FileScope
	s.UpdateNameSpace(proto)

	s.ClearGlobalNames()

	if len(sink.Messages) != 1 {
		t.Fatalf("expected exactly one dangling prototype warning, got %d: %v", len(sink.Messages), sink.Messages)
	}
	if sink.Messages[0].Lead != "Static prototype of " {
		t.Fatalf("expected a dangling static prototype warning, got %+v", sink.Messages[0])
	}

	tok := token.New("helper", pos(2), token.Identifier)
	s.CheckForSymbol(&tok)
	if tok.Scope != token.NoScope {
		t.Fatalf("expected global scope cleared after ClearGlobalNames, got %+v", tok)
	}
}

func TestClearGlobalNamesIsSilentOnGlobalPrototype(t *testing.T) {
	sink := &diag.CollectingSink{}
	s := New(sink)

	proto := token.New("helper", pos(1), token.FunctProto)
	proto.Scope = token.GlobalScope
	s.UpdateNameSpace(proto)

	s.ClearGlobalNames()

	if len(sink.Messages) != 0 {
		t.Fatalf("expected no warning for a non-static dangling prototype, got %v", sink.Messages)
	}
}

func TestIsKeywordDistinguishesVariablesFromRegisteredNames(t *testing.T) {
	s := New(&diag.CollectingSink{})

	kw := token.New("int", pos(1), token.Identifier)
	s.CheckForSymbol(&kw)
	if !s.IsKeyword(kw) {
		t.Fatalf("expected int to count as a keyword")
	}

	decl := token.New("run", pos(1), token.FunctDecl)
	decl.Scope = token.GlobalScope
	s.UpdateNameSpace(decl)
	registered := token.New("run", pos(2), token.Identifier)
	if !s.IsKeyword(registered) {
		t.Fatalf("expected a registered function name to count as a keyword")
	}

	plain := token.New("x", pos(1), token.VarName)
	plain.Scope = token.LocalScope
	s.UpdateNameSpace(plain)
	plainLookup := token.New("x", pos(2), token.Identifier)
	if s.IsKeyword(plainLookup) {
		t.Fatalf("expected a plain variable name not to count as a keyword")
	}
}
