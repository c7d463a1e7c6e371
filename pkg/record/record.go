// Package record defines the FunctionRecord emitted by the indexing
// driver, and its sort order and tabular rendering.
package record

import (
	"fmt"

	"programindexer/pkg/token"
)

// FunctionRecord captures one fact about one function name: either its
// declaration site, or a single call/reference to it.
type FunctionRecord struct {
	Name        string
	Location    token.FilePosition
	Declaration bool
	Caller      string
	Reference   bool
	FileScope   bool
}

// New builds a FunctionRecord from a resolved token and, for calls, the
// name of the function it occurred inside.
//
// Declarations always name themselves as their own caller and are never
// marked as a reference; this mirrors the constructor of the original
// FunctionData, which derives every field from the token's own
// classification rather than taking them as independent parameters.
func New(tok token.Token, caller string) FunctionRecord {
	r := FunctionRecord{
		Name:        tok.Lexeme,
		Location:    tok.Position,
		Declaration: tok.Type == token.FunctDecl,
		FileScope:   tok.Scope == token.FileScope,
	}
	if r.Declaration {
		r.Caller = r.Name
		r.Reference = false
	} else {
		r.Caller = caller
		r.Reference = tok.Modifier == token.FuncRef
	}
	return r
}

// Less orders records: by name, then file-scope before global-scope,
// then (within file scope) by defining file, then declarations before
// calls, then by location.
func (r FunctionRecord) Less(other FunctionRecord) bool {
	if r.Name != other.Name {
		return r.Name < other.Name
	}
	if r.FileScope != other.FileScope {
		return r.FileScope
	}
	if r.FileScope && r.Location.FileName != other.Location.FileName {
		return r.Location.FileName < other.Location.FileName
	}
	if r.Declaration != other.Declaration {
		return r.Declaration
	}
	return r.Location.Less(other.Location)
}

// ByOrder implements sort.Interface using Less.
type ByOrder []FunctionRecord

func (b ByOrder) Len() int           { return len(b) }
func (b ByOrder) Less(i, j int) bool { return b[i].Less(b[j]) }
func (b ByOrder) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// String renders one report row in the fixed-width layout of the
// original tool: a 20-wide name column, a scope column, a
// declared/called-from/referenced-in column, a 14-wide file column, and
// the line number.
func (r FunctionRecord) String() string {
	scope := "global"
	if r.FileScope {
		scope = "file"
	}

	var how string
	switch {
	case r.Declaration:
		how = "declared"
	case r.Reference:
		how = fmt.Sprintf("refrenced in %-20s", r.Caller)
	default:
		how = fmt.Sprintf("called from %-20s", r.Caller)
	}

	return fmt.Sprintf("%-20s %-19s %-30s %-14s  %d",
		r.Name, scope, how, r.Location.FileName, r.Location.LineNo)
}
