package token

import "testing"

func TestTokenEqualityIsLexemeOnly(t *testing.T) {
	a := New("foo", FilePosition{FileName: "a.c", LineNo: 1}, Identifier)
	b := New("foo", FilePosition{FileName: "b.c", LineNo: 99}, FunctCall)
	if !a.Equal(b) {
		t.Fatalf("expected tokens with the same lexeme to be equal regardless of type/position")
	}

	c := New("bar", FilePosition{FileName: "a.c", LineNo: 1}, Identifier)
	if a.Equal(c) {
		t.Fatalf("expected tokens with different lexemes to be unequal")
	}
}

func TestTokenLessOrdersByLexeme(t *testing.T) {
	a := New("alpha", FilePosition{}, Identifier)
	b := New("beta", FilePosition{}, Identifier)
	if !a.Less(b) {
		t.Fatalf("expected alpha < beta")
	}
	if b.Less(a) {
		t.Fatalf("expected beta not less than alpha")
	}
}

func TestSetMeaningLeavesLexemeAndPositionAlone(t *testing.T) {
	pos := FilePosition{FileName: "f.c", LineNo: 3}
	tok := New("count", pos, Identifier)
	model := NewKeyword("int", TypeToken, NoMod)

	tok.SetMeaning(model)

	if tok.Lexeme != "count" || tok.Position != pos {
		t.Fatalf("SetMeaning must not touch lexeme or position, got %+v", tok)
	}
	if tok.Type != TypeToken || tok.Scope != KeywordScope {
		t.Fatalf("SetMeaning should copy the model's classification, got %+v", tok)
	}
}

func TestFilePositionLess(t *testing.T) {
	a := FilePosition{FileName: "a.c", LineNo: 10}
	b := FilePosition{FileName: "a.c", LineNo: 20}
	c := FilePosition{FileName: "b.c", LineNo: 1}

	if !a.Less(b) {
		t.Fatalf("expected same-file positions to order by line number")
	}
	if !a.Less(c) {
		t.Fatalf("expected file name to take precedence over line number")
	}
}

func TestIncrLine(t *testing.T) {
	pos := FilePosition{FileName: "f.c", LineNo: 5}
	pos.IncrLine()
	if pos.LineNo != 6 {
		t.Fatalf("expected line 6, got %d", pos.LineNo)
	}
}
