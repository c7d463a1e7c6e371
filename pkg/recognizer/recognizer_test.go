package recognizer

import (
	"os"
	"path/filepath"
	"testing"

	"programindexer/internal/diag"
	"programindexer/pkg/lexer"
	"programindexer/pkg/source"
	"programindexer/pkg/symtab"
	"programindexer/pkg/token"
)

func newRecognizer(t *testing.T, contents string) (*Recognizer, *diag.CollectingSink) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.i")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	cur, err := source.Open(path, &diag.CollectingSink{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { cur.Close() })

	sink := &diag.CollectingSink{}
	buf := lexer.NewTokenBuffer(lexer.New(cur))
	sym := symtab.New(sink)
	return New(buf, sym, sink), sink
}

func TestRecognizerFindsNoFunctionForABarePrototype(t *testing.T) {
	r, sink := newRecognizer(t, "int add(int a, int b);\n")
	if !r.HaveEOF() {
		t.Fatalf("expected a bare prototype to register silently and reach EOF")
	}
	if len(sink.Messages) != 0 {
		t.Fatalf("expected no warnings for a clean prototype, got %v", sink.Messages)
	}
}

func TestRecognizerFindsFunctionDeclarationWithBody(t *testing.T) {
	r, _ := newRecognizer(t, "int add(int a, int b) { return a; }\n")
	if r.HaveEOF() {
		t.Fatalf("expected a function declaration to be waiting")
	}
	got := r.NextFunction()
	if got.Type != token.FunctDecl || got.Lexeme != "add" || got.Scope != token.GlobalScope {
		t.Fatalf("expected add/functdecl/global, got %+v", got)
	}
	if !r.HaveEOF() {
		t.Fatalf("expected EOF once the sole declaration has been returned")
	}
}

func TestRecognizerFindsUnresolvedCallAndWarnsMissingPrototype(t *testing.T) {
	r, sink := newRecognizer(t, "foo();\n")
	if r.HaveEOF() {
		t.Fatalf("expected a call to be waiting")
	}
	got := r.NextFunction()
	if got.Type != token.FunctCall || got.Lexeme != "foo" {
		t.Fatalf("expected foo/functcall, got %+v", got)
	}
	if !r.HaveEOF() {
		t.Fatalf("expected EOF once the sole call has been returned")
	}

	var found bool
	for _, m := range sink.Messages {
		if m.Lead == "Function call " && m.Trail == " has no prototype" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a missing-prototype warning, got %v", sink.Messages)
	}
}

func TestRecognizerSuppressesMissingPrototypeAfterPriorPrototype(t *testing.T) {
	r, sink := newRecognizer(t, "int foo();\nfoo();\n")
	if r.HaveEOF() {
		t.Fatalf("expected the call to still be waiting")
	}
	got := r.NextFunction()
	if got.Type != token.FunctCall || got.Lexeme != "foo" {
		t.Fatalf("expected foo/functcall, got %+v", got)
	}
	for _, m := range sink.Messages {
		if m.Lead == "Function call " {
			t.Fatalf("expected no missing-prototype warning once a prototype is on record, got %v", sink.Messages)
		}
	}
}
