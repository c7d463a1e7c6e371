// Package callholder implements the deferred function-call scope
// resolver that sits between the recognizer and the record stream: a
// call site's scope depends on the declaration for that name, but
// nothing guarantees a declaration comes before its calls in the
// input, so calls with unresolved scope wait here until one shows up.
package callholder

import (
	"errors"

	"programindexer/pkg/record"
	"programindexer/pkg/token"
)

// ErrDoubleRelease reports an attempt to hold a call while a previous
// release is still being drained. That can only happen from a caller
// bug: the Driver drains every queued release before it asks the
// recognizer for another token, so nothing should try to hold a call
// while records are still queued.
var ErrDoubleRelease = errors.New("callholder: hold requested while a release is in progress")

type heldCall struct {
	token    token.Token
	callFunc string
}

// CallHolder buffers function-call tokens whose scope is not yet known
// and, once a matching declaration fixes it, converts the whole run of
// held calls to records for the caller to drain one at a time.
type CallHolder struct {
	holdData map[string][]heldCall
	release  []record.FunctionRecord
}

// New returns an empty CallHolder.
func New() *CallHolder {
	h := &CallHolder{}
	h.Reset()
	return h
}

// Reset drops all held calls and any pending release, for reuse on a
// new file.
func (h *CallHolder) Reset() {
	h.holdData = make(map[string][]heldCall)
	h.release = nil
}

// NextRelease pops and returns the next record queued by a prior
// ReleaseHold or ProcEOF call.
func (h *CallHolder) NextRelease() record.FunctionRecord {
	n := len(h.release) - 1
	r := h.release[n]
	h.release = h.release[:n]
	return r
}

// DoingRelease reports whether records are queued waiting to be drained.
func (h *CallHolder) DoingRelease() bool {
	return len(h.release) > 0
}

// Empty reports whether nothing is held and nothing is queued.
func (h *CallHolder) Empty() bool {
	return len(h.holdData) == 0 && !h.DoingRelease()
}

func (h *CallHolder) moveToCache(calls []heldCall, wantScope token.Scope) {
	for _, c := range calls {
		t := c.token
		t.Scope = wantScope
		h.release = append(h.release, record.New(t, c.callFunc))
	}
}

// ReleaseHold, given a genuine function declaration, moves every call
// held under that name into the release queue with the declaration's
// scope.
func (h *CallHolder) ReleaseHold(declToken token.Token) {
	if declToken.Type != token.FunctDecl {
		return
	}
	calls, ok := h.holdData[declToken.Lexeme]
	if !ok {
		return
	}
	h.moveToCache(calls, declToken.Scope)
	delete(h.holdData, declToken.Lexeme)
}

// HoldIfNeeded holds testToken if it is a function call whose scope is
// still unresolved, and reports whether it did.
func (h *CallHolder) HoldIfNeeded(testToken token.Token, callFunc string) (bool, error) {
	if testToken.Type != token.FunctCall || testToken.Scope != token.NoScope {
		return false, nil
	}
	if h.DoingRelease() {
		return false, ErrDoubleRelease
	}
	h.holdData[testToken.Lexeme] = append(h.holdData[testToken.Lexeme], heldCall{token: testToken, callFunc: callFunc})
	return true, nil
}

// ProcEOF releases everything still held at end of input, since no
// further declaration can appear to resolve it; a call still held at
// this point was declared somewhere the current file cannot see, so it
// is assumed to be global. It returns the zero FunctionRecord once
// nothing remains.
func (h *CallHolder) ProcEOF() record.FunctionRecord {
	for name, calls := range h.holdData {
		h.moveToCache(calls, token.GlobalScope)
		delete(h.holdData, name)
	}
	if h.Empty() {
		return record.FunctionRecord{}
	}
	return h.NextRelease()
}
