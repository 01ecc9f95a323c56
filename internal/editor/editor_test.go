package editor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFirstLine(t *testing.T) {
	if got := FirstLine("  hello\nworld\n"); got != "hello" {
		t.Fatalf("FirstLine=%q", got)
	}
	// Long text gets truncated to 120 chars
	long := "x"
	for len(long) < 130 {
		long += "y"
	}
	fl := FirstLine(long)
	if len(fl) != 120 {
		t.Fatalf("FirstLine length=%d want 120", len(fl))
	}
}

func TestPathForID(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	path, err := PathForID("note/id 1")
	if err != nil {
		t.Fatalf("PathForID error: %v", err)
	}
	if base := filepath.Base(path); base != "note-id-1.mdnote.md" {
		t.Fatalf("PathForID base=%q", base)
	}

	path, err = PathForID("")
	if err != nil {
		t.Fatalf("PathForID error: %v", err)
	}
	if base := filepath.Base(path); base != "new.mdnote.md" {
		t.Fatalf("PathForID base=%q", base)
	}
}

func TestEditWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("VISUAL", "")
	script := filepath.Join(dir, "fake-editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nprintf 'edited\\n' > \"$1\"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	t.Setenv("EDITOR", script)

	out, changed, err := Edit("abc", "original")
	if err != nil {
		t.Fatalf("Edit error: %v", err)
	}
	if !changed || out != "edited" {
		t.Fatalf("Edit=%q changed=%v", out, changed)
	}
	path, _ := PathForID("abc")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrepareAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n.md")
	if err := PrepareAt(path, []byte("body\r\n")); err != nil {
		t.Fatalf("PrepareAt: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm=%v", info.Mode().Perm())
	}
	got, err := ReadBack(path)
	if err != nil || got != "body" {
		t.Fatalf("ReadBack=%q err=%v", got, err)
	}
}
