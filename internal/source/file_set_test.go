package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("app.js", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("app.js", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("app.js")
	if !exists || latestID != id2 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first version content changed: %q", got)
	}
	if fs.Get(FileID(42)) != nil {
		t.Error("Expected nil for unknown FileID")
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("\xEF\xBB\xBFa\r\nb\n"))
	file := fs.Get(id)

	if string(file.Content) != "a\nb\n" {
		t.Fatalf("unexpected normalized content %q", file.Content)
	}
	if file.Flags&FileVirtual == 0 || file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("unexpected flags %b", file.Flags)
	}
	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if got := string(Restore(file.Content, file.Flags)); got != "\xEF\xBB\xBFa\r\nb\r\n" {
		t.Errorf("Restore returned %q", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("ab\ncd\n\nx"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}}, // EOF
	}
	for _, tt := range tests {
		if got := fs.Position(id, tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 3}) {
		t.Errorf("Resolve = %+v..%+v", start, end)
	}
}

func TestValidAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("abc"))
	file := fs.Get(id)

	if !fs.Valid(Span{File: id, Start: 0, End: 3}) {
		t.Error("full span should be valid")
	}
	if fs.Valid(Span{File: id, Start: 0, End: 4}) {
		t.Error("span past EOF should be invalid")
	}
	if fs.Valid(Span{File: id, Start: 2, End: 1}) {
		t.Error("inverted span should be invalid")
	}
	if fs.Valid(Span{File: id + 1, Start: 0, End: 0}) {
		t.Error("unknown file should be invalid")
	}
	if got := file.Text(Span{File: id, Start: 1, End: 3}); got != "bc" {
		t.Errorf("Text = %q", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.js", []byte("one\ntwo\nthree")))

	for line, want := range map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""} {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestRuneColumn(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("x\n\u2014\U0001F600y"))
	file := fs.Get(id)

	// 'y' sits after a 3-byte and a 4-byte rune on line 2.
	pos := fs.Position(id, 2+3+4)
	if pos != (LineCol{2, 8}) {
		t.Fatalf("byte position = %+v", pos)
	}
	if got := file.RuneColumn(pos, false); got != 3 {
		t.Errorf("code point column = %d, want 3", got)
	}
	if got := file.RuneColumn(pos, true); got != 4 {
		t.Errorf("utf16 column = %d, want 4", got)
	}
}

func TestUTF16Offset(t *testing.T) {
	fs := NewFileSet()
	crlf := fs.Get(fs.AddVirtual("a.js", []byte("x\r\n\u2014\U0001F600y\r\n")))
	bom := fs.Get(fs.AddVirtual("b.js", []byte("\xEF\xBB\xBFab")))

	tests := []struct {
		file *File
		off  uint32
		want uint32
	}{
		{crlf, 0, 0},
		{crlf, 1, 1},
		{crlf, 2, 3},  // line 2 starts after CR LF
		{crlf, 5, 4},  // after the em-dash
		{crlf, 9, 6},  // surrogate pair counts twice
		{crlf, 99, 9}, // clamped to the end
		{bom, 2, 2},
	}
	for _, tt := range tests {
		if got := tt.file.UTF16Offset(tt.off); got != tt.want {
			t.Errorf("%s: UTF16Offset(%d) = %d, want %d", tt.file.Path, tt.off, got, tt.want)
		}
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")
	for _, dir := range []string{baseDir, otherDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	target := filepath.Join(otherDir, "file.js")
	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	baseDir := t.TempDir()
	target := filepath.Join(baseDir, "nested", "file.js")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := "nested/file.js"; got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}
