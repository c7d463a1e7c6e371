// Package source implements the SourceCursor stage: it turns a
// preprocessed C translation unit into a stream of logical lines with
// comments collapsed to a single space, quoted strings passed through
// untouched, and GCC-style `# <line> "<file>"` markers consumed to keep
// reported positions in terms of the original source rather than the
// preprocessor's concatenated output.
package source

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"programindexer/internal/diag"
	"programindexer/pkg/token"
)

type textState int

const (
	stateOther textState = iota
	stateComment
	stateQuote
	statePreproc
)

// Cursor reads one already-preprocessed file and hands back logical
// lines one at a time via NextLine. It looks one line ahead internally
// so that HaveEOF is accurate without ever over-reading the file.
type Cursor struct {
	file    *os.File
	scanner *bufio.Scanner

	buffer string
	state  textState
	haveWrap bool
	fileEOF  bool

	sourcePosition token.FilePosition
	bufferPosition token.FilePosition
	inputPosition  token.FilePosition

	sink diag.Sink
}

// Open opens fileName and primes the first lookahead line. The returned
// error is a plain wrapped os.PathError; callers that need to treat a
// missing file as recoverable per translation unit should check with
// errors.Is(err, os.ErrNotExist).
func Open(fileName string, sink diag.Sink) (*Cursor, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	pos := token.FilePosition{FileName: fileName, LineNo: 0}
	c := &Cursor{
		file:           f,
		scanner:        scanner,
		state:          stateOther,
		sourcePosition: pos,
		bufferPosition: pos,
		inputPosition:  pos,
		sink:           sink,
	}
	c.fetchNextLine()
	return c, nil
}

// Close releases the underlying file handle.
func (c *Cursor) Close() error {
	return c.file.Close()
}

// HaveEOF reports whether the cursor has no more logical lines.
func (c *Cursor) HaveEOF() bool {
	return c.fileEOF && c.buffer == ""
}

// Position returns the source position of the line most recently
// returned by NextLine.
func (c *Cursor) Position() token.FilePosition {
	return c.sourcePosition
}

// NextLine returns the next logical line of text and advances the
// lookahead. The second return value is false once the cursor is
// exhausted.
func (c *Cursor) NextLine() (string, bool) {
	if c.HaveEOF() {
		return "", false
	}
	result := c.buffer
	c.sourcePosition = c.bufferPosition
	c.fetchNextLine()
	return result, true
}

func (c *Cursor) readPhysicalLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}

// fetchNextLine is the state machine at the heart of the cursor. It
// keeps pulling physical lines until it has produced a non-blank
// logical line or run out of input, folding comments to a single
// space, passing quoted text through untouched, and diverting
// preprocessor line markers to handlePreproc instead of the output.
func (c *Cursor) fetchNextLine() {
	c.buffer = ""
	for c.buffer == "" && !c.fileEOF {
		line, ok := c.readPhysicalLine()
		if !ok {
			c.fileEOF = true
			break
		}
		c.bufferPosition.IncrLine()
		c.inputPosition.IncrLine()

		if c.state == stateOther {
			if fc := burnSpaces(line, 0); fc != -1 && line[fc] == '#' {
				c.state = statePreproc
				c.haveWrap = false
			}
		}

		nextState := stateOther
		end := 0
		for end != -1 {
			start := end
			switch c.state {
			case stateComment:
				if !c.haveWrap {
					end += 2
				}
				end = indexFrom(line, "*/", end)
				c.haveWrap = end == -1
				if !c.haveWrap {
					end += 2
					nextState = stateOther
				}
				c.buffer += " "

			case stateQuote:
				if !c.haveWrap {
					end++
				}
				end = nextCloseQuote(line, end)
				c.haveWrap = end == -1
				if c.haveWrap {
					c.buffer += line[min(start, len(line)):]
					if !hasEscNewline(c.buffer, true) {
						c.sink.Warn(c.bufferPosition, "Unterminated string literal found", "", "")
						c.buffer += "\\"
					}
				} else {
					end++
					c.buffer += line[start:end]
					nextState = stateOther
				}

			case statePreproc:
				c.handlePreproc(line)
				if !c.haveWrap {
					nextState = stateOther
				}
				end = -1

			case stateOther:
				c.haveWrap = false
				nextQuote := nextOpenQuote(line, start)
				nextComment := indexFrom(line, "/*", start)
				switch {
				case nextQuote == -1 && nextComment == -1:
					end = -1
					c.haveWrap = true
				case nextQuote == -1 || (nextComment != -1 && nextComment < nextQuote):
					end = nextComment
					nextState = stateComment
				default:
					end = nextQuote
					nextState = stateQuote
				}
				if c.haveWrap {
					c.buffer += line[start:]
				} else if start < end {
					c.buffer += line[start:end]
				}
			}

			if !c.haveWrap {
				c.state = nextState
			}
			if end != -1 && end >= len(line) {
				end = -1
			}
		}

		testChar := burnSpaces(c.buffer, 0)
		if testChar == -1 || (testChar == getEscNewline(c.buffer, false) && (!c.haveWrap || c.state != stateQuote)) {
			c.buffer = ""
		}
	}
}

// handlePreproc looks for a GCC line marker of the form
// `# <digits> "<path>"` and, if found, retargets bufferPosition at it.
// Anything else beginning with `#` means the input was not actually
// preprocessed, and is reported through the sink instead of retried.
func (c *Cursor) handlePreproc(line string) {
	wasWrapped := c.haveWrap
	c.haveWrap = hasEscNewline(line, false)
	haveLocation := false

	if !wasWrapped && !c.haveWrap {
		start := strings.IndexByte(line, '#')
		start = burnSpaces(line, start+1)
		if start != -1 && line[start] >= '0' && line[start] <= '9' {
			end := firstNonDigitFrom(line, start)
			if end != -1 {
				lineNo, _ := strconv.Atoi(line[start:end])
				lineNo--

				start = burnSpaces(line, end)
				if start != -1 && line[start] == '"' {
					start++
					if closeQuote := strings.IndexByte(line[start:], '"'); closeQuote != -1 {
						end = start + closeQuote
						if end > start {
							fileName := line[start:end]
							end++
							if end != len(line) {
								end = burnSpaces(line, end)
								haveLocation = end == -1
							} else {
								haveLocation = true
							}
							if haveLocation {
								c.bufferPosition = token.FilePosition{FileName: fileName, LineNo: lineNo}
							}
						}
					}
				}
			}
		}
	}

	if !haveLocation && !wasWrapped {
		c.sink.Warn(c.inputPosition, "Preprocessor directive ", line,
			" ignored, input must be preprocessed first")
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
