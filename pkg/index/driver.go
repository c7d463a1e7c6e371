// Package index implements the Driver stage: it wires a source cursor,
// lexer, and recognizer together for one file at a time against a
// symbol table shared across the whole run, and drains the recognizer
// through a CallHolder so every call comes out with its scope
// resolved.
package index

import (
	"programindexer/internal/diag"
	"programindexer/pkg/callholder"
	"programindexer/pkg/lexer"
	"programindexer/pkg/record"
	"programindexer/pkg/recognizer"
	"programindexer/pkg/source"
	"programindexer/pkg/symtab"
	"programindexer/pkg/token"
)

// Driver produces the FunctionRecord stream for a whole run: one or
// more files processed as separate translation units. The symbol
// table instance is reused across files so its keyword tier is never
// rebuilt, but starting a new file always clears its global and local
// tiers first, the way each translation unit gets its own namespace;
// that reset is also what surfaces a file's dangling static prototype
// as a warning before its declarations are forgotten.
type Driver struct {
	sink   diag.Sink
	sym    *symtab.SymbolTable
	holder *callholder.CallHolder

	cursor     *source.Cursor
	recognizer *recognizer.Recognizer

	currFunction string
}

// NewDriver returns a Driver ready to process files in sequence,
// reporting diagnostics through sink.
func NewDriver(sink diag.Sink) *Driver {
	return &Driver{
		sink:   sink,
		sym:    symtab.New(sink),
		holder: callholder.New(),
	}
}

// Start opens fileName and resets processing state for it. Any file
// previously open is closed first. The caller should fully drain
// HaveEOF/NextFunction on the returned state before starting another
// file, or unreleased calls from the previous file are lost.
func (d *Driver) Start(fileName string) error {
	if d.cursor != nil {
		d.cursor.Close()
		d.cursor = nil
	}

	cur, err := source.Open(fileName, d.sink)
	if err != nil {
		return err
	}
	d.cursor = cur

	lx := lexer.New(cur)
	buf := lexer.NewTokenBuffer(lx)
	d.recognizer = recognizer.New(buf, d.sym, d.sink)

	d.currFunction = "NONE"
	d.holder.Reset()
	return nil
}

// HaveEOF reports whether the current file has been fully processed:
// the recognizer has nothing left, and no held call is waiting on a
// scope that will never arrive.
func (d *Driver) HaveEOF() bool {
	return d.recognizer.HaveEOF() && d.holder.Empty()
}

// NextFunction returns the next function fact found in the current
// file: a declaration, or a call or reference with its scope finally
// resolved. Prototypes and function typedefs are registered with the
// symbol table but never come back as records.
func (d *Driver) NextFunction() (record.FunctionRecord, error) {
	if d.holder.DoingRelease() {
		return d.holder.NextRelease(), nil
	}

	var functToken token.Token
	haveFunct := false
	for !haveFunct && !d.recognizer.HaveEOF() {
		functToken = d.recognizer.NextFunction()
		if functToken.Type == token.FunctDecl {
			d.holder.ReleaseHold(functToken)
			d.currFunction = functToken.Lexeme
			haveFunct = true
		} else {
			held, err := d.holder.HoldIfNeeded(functToken, d.currFunction)
			if err != nil {
				return record.FunctionRecord{}, err
			}
			if !held {
				haveFunct = true
			}
		}
	}

	if haveFunct {
		return record.New(functToken, d.currFunction), nil
	}
	return d.holder.ProcEOF(), nil
}

// Close releases the file handle for whatever file is currently open,
// if any, and runs a final global-name sweep so a static prototype
// left dangling at the end of the whole run is still reported even
// though no further file will trigger the same check between files.
func (d *Driver) Close() error {
	var err error
	if d.cursor != nil {
		err = d.cursor.Close()
		d.cursor = nil
	}
	d.sym.ClearGlobalNames()
	return err
}
