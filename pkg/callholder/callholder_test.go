package callholder

import (
	"testing"

	"programindexer/pkg/token"
)

func callToken(name string) token.Token {
	t := token.New(name, token.FilePosition{FileName: "f.c", LineNo: 1}, token.FunctCall)
	t.Scope = token.NoScope
	return t
}

func TestHoldIfNeededOnlyHoldsUnresolvedCalls(t *testing.T) {
	h := New()

	held, err := h.HoldIfNeeded(callToken("foo"), "main")
	if err != nil || !held {
		t.Fatalf("expected an unresolved call to be held, got held=%v err=%v", held, err)
	}
	if h.Empty() {
		t.Fatalf("expected the holder to be non-empty after holding a call")
	}

	resolved := callToken("bar")
	resolved.Scope = token.GlobalScope
	held, err = h.HoldIfNeeded(resolved, "main")
	if err != nil || held {
		t.Fatalf("expected an already-scoped call not to be held, got held=%v err=%v", held, err)
	}

	notACall := token.New("x", token.FilePosition{}, token.VarName)
	held, err = h.HoldIfNeeded(notACall, "main")
	if err != nil || held {
		t.Fatalf("expected a non-call token not to be held, got held=%v err=%v", held, err)
	}
}

func TestReleaseHoldMovesMatchingCallsToTheQueue(t *testing.T) {
	h := New()
	h.HoldIfNeeded(callToken("foo"), "main")
	h.HoldIfNeeded(callToken("foo"), "helper")
	h.HoldIfNeeded(callToken("bar"), "main")

	decl := token.New("foo", token.FilePosition{FileName: "f.c", LineNo: 10}, token.FunctDecl)
	decl.Scope = token.FileScope
	h.ReleaseHold(decl)

	if !h.DoingRelease() {
		t.Fatalf("expected released calls to be queued")
	}

	var got []string
	for h.DoingRelease() {
		rec := h.NextRelease()
		got = append(got, rec.Name)
		if !rec.FileScope {
			t.Fatalf("expected a call released under a file-scope declaration to carry file scope, got %+v", rec)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected exactly the 2 calls to foo to be released, got %v", got)
	}

	if h.Empty() {
		t.Fatalf("expected bar to still be held")
	}
}

func TestReleaseHoldIgnoresNonDeclarationTokens(t *testing.T) {
	h := New()
	h.HoldIfNeeded(callToken("foo"), "main")

	proto := token.New("foo", token.FilePosition{}, token.FunctProto)
	proto.Scope = token.GlobalScope
	h.ReleaseHold(proto)

	if h.DoingRelease() {
		t.Fatalf("expected a bare prototype not to release held calls")
	}
	if h.Empty() {
		t.Fatalf("expected foo to still be held after a prototype-only release attempt")
	}
}

func TestHoldIfNeededReturnsErrDoubleReleaseMidRelease(t *testing.T) {
	h := New()
	h.HoldIfNeeded(callToken("foo"), "main")
	decl := token.New("foo", token.FilePosition{}, token.FunctDecl)
	decl.Scope = token.GlobalScope
	h.ReleaseHold(decl)

	if !h.DoingRelease() {
		t.Fatalf("expected a pending release")
	}

	_, err := h.HoldIfNeeded(callToken("bar"), "main")
	if err != ErrDoubleRelease {
		t.Fatalf("expected ErrDoubleRelease while a release is in progress, got %v", err)
	}
}

func TestProcEOFReleasesRemainingHoldsAsGlobalScope(t *testing.T) {
	h := New()
	h.HoldIfNeeded(callToken("foo"), "main")

	first := h.ProcEOF()
	if first.Name != "foo" || first.FileScope {
		t.Fatalf("expected foo released at global scope, got %+v", first)
	}
	if !h.Empty() {
		t.Fatalf("expected the holder to be empty after draining the final release")
	}
}

func TestProcEOFOnEmptyHolderReturnsZeroRecord(t *testing.T) {
	h := New()
	rec := h.ProcEOF()
	if rec.Name != "" {
		t.Fatalf("expected a zero record from an empty holder, got %+v", rec)
	}
}
