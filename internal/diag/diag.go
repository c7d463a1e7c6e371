// Package diag defines the diagnostic sink the pipeline reports through.
// Nothing in pkg/source, pkg/symtab, or pkg/recognizer prints directly;
// they all take a Sink at construction, so callers choose whether
// warnings go to a writer, get collected for a test, or are dropped.
package diag

import (
	"fmt"
	"io"

	"programindexer/pkg/token"
)

// Sink receives one warning at a time. Warn's arguments mirror the
// three pieces of the original tool's fixed message shape: text before
// the offending lexeme, the lexeme itself, and text after the position.
type Sink interface {
	Warn(pos token.FilePosition, lead, lexeme, trail string)
}

// WriterSink formats warnings exactly as the original tool did:
// "WARNING: <lead><lexeme> found <pos><trail>".
type WriterSink struct {
	W io.Writer
}

// NewWriterSink returns a Sink that writes formatted warnings to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{W: w}
}

func (s *WriterSink) Warn(pos token.FilePosition, lead, lexeme, trail string) {
	fmt.Fprintf(s.W, "WARNING: %s%s found %s%s\n", lead, lexeme, pos, trail)
}

// Message is one recorded warning, kept structured for assertions in
// tests rather than parsed back out of formatted text.
type Message struct {
	Position token.FilePosition
	Lead     string
	Lexeme   string
	Trail    string
}

// String renders a Message the same way WriterSink would.
func (m Message) String() string {
	return fmt.Sprintf("WARNING: %s%s found %s%s", m.Lead, m.Lexeme, m.Position, m.Trail)
}

// CollectingSink buffers warnings in memory for test assertions.
type CollectingSink struct {
	Messages []Message
}

func (s *CollectingSink) Warn(pos token.FilePosition, lead, lexeme, trail string) {
	s.Messages = append(s.Messages, Message{Position: pos, Lead: lead, Lexeme: lexeme, Trail: trail})
}

// Discard drops every warning. Useful when only the FunctionRecord
// stream matters to a caller.
type Discard struct{}

func (Discard) Warn(token.FilePosition, string, string, string) {}
