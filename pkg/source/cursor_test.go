package source

import (
	"os"
	"path/filepath"
	"testing"

	"programindexer/internal/diag"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.i")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func drainLines(t *testing.T, c *Cursor) []string {
	t.Helper()
	var lines []string
	for !c.HaveEOF() {
		line, ok := c.NextLine()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

func TestCursorFoldsCommentsToASpace(t *testing.T) {
	path := writeTempFile(t, "int x /* a comment */ = 1;\n")
	sink := &diag.CollectingSink{}
	c, err := Open(path, sink)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	lines := drainLines(t, c)
	if len(lines) != 1 {
		t.Fatalf("expected 1 logical line, got %d: %v", len(lines), lines)
	}
	if lines[0] != "int x   = 1;" {
		t.Fatalf("expected comment folded to a single space, got %q", lines[0])
	}
}

func TestCursorPassesQuotedTextThrough(t *testing.T) {
	path := writeTempFile(t, `char *s = "a /* not a comment */ string";` + "\n")
	sink := &diag.CollectingSink{}
	c, err := Open(path, sink)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	lines := drainLines(t, c)
	if len(lines) != 1 {
		t.Fatalf("expected 1 logical line, got %d: %v", len(lines), lines)
	}
	want := `char *s = "a /* not a comment */ string";`
	if lines[0] != want {
		t.Fatalf("expected quoted text untouched, got %q want %q", lines[0], want)
	}
}

func TestCursorFollowsLineMarkers(t *testing.T) {
	contents := "# 5 \"original.c\"\nint x;\n"
	path := writeTempFile(t, contents)
	sink := &diag.CollectingSink{}
	c, err := Open(path, sink)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	if c.HaveEOF() {
		t.Fatalf("expected at least one line")
	}
	_, ok := c.NextLine()
	if !ok {
		t.Fatalf("expected a line")
	}
	pos := c.Position()
	if pos.FileName != "original.c" || pos.LineNo != 5 {
		t.Fatalf("expected position retargeted to original.c:5, got %+v", pos)
	}
}

func TestCursorWarnsOnUnpreprocessedDirective(t *testing.T) {
	path := writeTempFile(t, "#define FOO 1\nint x;\n")
	sink := &diag.CollectingSink{}
	c, err := Open(path, sink)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	drainLines(t, c)
	if len(sink.Messages) == 0 {
		t.Fatalf("expected a warning about the unpreprocessed directive")
	}
}

func TestCursorSkipsBlankLines(t *testing.T) {
	path := writeTempFile(t, "\n\nint x;\n\n")
	sink := &diag.CollectingSink{}
	c, err := Open(path, sink)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	lines := drainLines(t, c)
	if len(lines) != 1 || lines[0] != "int x;" {
		t.Fatalf("expected blank lines skipped, got %v", lines)
	}
}

func TestOpenMissingFile(t *testing.T) {
	sink := &diag.CollectingSink{}
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.i"), sink)
	if err == nil {
		t.Fatalf("expected an error opening a missing file")
	}
}
