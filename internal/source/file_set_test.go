package source

import (
	"testing"
)

func TestFileSetPosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("main.pyr", []byte("def f():\n    x = 1\n    return x\n"))

	cases := []struct {
		offset uint32
		line   int
		col    int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{9, 2, 1},
		{13, 2, 5},
		{23, 3, 5},
	}
	for _, tc := range cases {
		pos := fs.Position(Span{File: id, Start: tc.offset, End: tc.offset + 1})
		if pos.Line != tc.line || pos.Col != tc.col {
			t.Fatalf("offset %d: got %d:%d, want %d:%d", tc.offset, pos.Line, pos.Col, tc.line, tc.col)
		}
		if pos.Path != "main.pyr" {
			t.Fatalf("offset %d: unexpected path %q", tc.offset, pos.Path)
		}
	}
}

func TestFileSetNormalize(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("crlf.pyr", []byte("\xEF\xBB\xBFa = 1\r\nb = 2\r\n"))
	f := fs.Get(id)
	if f == nil {
		t.Fatalf("expected registered file")
	}
	if string(f.Content) != "a = 1\nb = 2\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	pos := fs.Position(Span{File: id, Start: 6, End: 7})
	if pos.Line != 2 || pos.Col != 1 {
		t.Fatalf("got %d:%d, want 2:1", pos.Line, pos.Col)
	}
}

func TestFileSetReAdd(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("m.pyr", []byte("a"))
	second := fs.Add("m.pyr", []byte("b"))
	if first == second {
		t.Fatalf("expected distinct IDs for re-added file")
	}
	got, ok := fs.Lookup("m.pyr")
	if !ok || got != second {
		t.Fatalf("index should point at the latest version, got %v", got)
	}
	if fs.Position(Span{}) != (Position{}) {
		t.Fatalf("invalid span should resolve to zero position")
	}
}
