package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mithrel/mdnote/pkg/api"
)

func decodeNotes(t *testing.T, out string) []api.Note {
	t.Helper()
	var list []api.Note
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode list json: %v\n%s", err, out)
	}
	return list
}

func TestNoteListFilterAndLimit(t *testing.T) {
	cfgPath, _ := setupCLI(t)
	addNote(t, cfgPath, "Apple pie recipe")
	addNote(t, cfgPath, "Banana bread")
	addNote(t, cfgPath, "Cherry tart")

	list := decodeNotes(t, mustRun(t, cfgPath, "", "note", "list", "--output", "json"))
	if len(list) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(list))
	}
	if list[0].Title() != "Cherry tart" {
		t.Fatalf("expected newest first, got %q", list[0].Title())
	}

	list = decodeNotes(t, mustRun(t, cfgPath, "", "note", "list", "--output", "json", "--limit", "2"))
	if len(list) != 2 {
		t.Fatalf("expected 2 notes with --limit, got %d", len(list))
	}

	list = decodeNotes(t, mustRun(t, cfgPath, "", "note", "list", "--output", "json", "--filter", "BREAD"))
	if len(list) != 1 || list[0].Title() != "Banana bread" {
		t.Fatalf("substring filter = %v", list)
	}

	// Nothing contains "chrt", so the fuzzy title match takes over.
	list = decodeNotes(t, mustRun(t, cfgPath, "", "note", "list", "--output", "json", "--filter", "chrt"))
	if len(list) != 1 || list[0].Title() != "Cherry tart" {
		t.Fatalf("fuzzy filter = %v", list)
	}

	out := mustRun(t, cfgPath, "", "note", "list", "--output", "plain")
	if !strings.HasPrefix(out, "id") || !strings.Contains(out, "Today") {
		t.Fatalf("plain list = %q", out)
	}
	out = mustRun(t, cfgPath, "", "note", "list", "--output", "plain", "--noheaders")
	if strings.HasPrefix(out, "id") {
		t.Fatalf("--noheaders still printed a header: %q", out)
	}

	list = decodeNotes(t, mustRun(t, cfgPath, "", "note", "list", "--output", "json", "--until", "2000-01-01"))
	if len(list) != 0 {
		t.Fatalf("expected no notes before 2000, got %d", len(list))
	}
	if _, err := runCLI(t, cfgPath, "", "note", "list", "--since", "someday"); err == nil {
		t.Fatal("expected invalid --since to fail")
	}
	if _, err := runCLI(t, cfgPath, "", "note", "list", "--output", "yaml"); err == nil {
		t.Fatal("expected invalid --output to fail")
	}
}

func TestCompleteNoteIDs(t *testing.T) {
	cfgPath, _ := setupCLI(t)
	groceries := addNote(t, cfgPath, "Groceries for the week")
	addNote(t, cfgPath, "Meeting notes")

	out := mustRun(t, cfgPath, "", "__complete", "note", "show", "grocer")
	if !strings.Contains(out, groceries+"\tGroceries for the week") {
		t.Fatalf("completion missing groceries note:\n%s", out)
	}
	if strings.Contains(out, "Meeting notes") {
		t.Fatalf("completion matched an unrelated note:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	cfgPath, dir := setupCLI(t)
	src := filepath.Join(dir, "doc.md")
	md := "# Title\n\nSome *Markdown*\n\n<script>alert(1)</script>\n"
	if err := os.WriteFile(src, []byte(md), 0o600); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, cfgPath, "", "render", src)
	if !strings.Contains(out, `<h1 id="title">Title</h1>`) || !strings.Contains(out, "<em>Markdown</em>") {
		t.Fatalf("render html = %q", out)
	}
	if !strings.Contains(out, "<script>") {
		t.Fatalf("raw html should pass through without --sanitize: %q", out)
	}

	out = mustRun(t, cfgPath, "", "render", src, "--sanitize", "--standalone")
	if strings.Contains(out, "<script>") {
		t.Fatalf("--sanitize kept a script tag: %q", out)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "<title>Title</title>") {
		t.Fatalf("--standalone page = %q", out)
	}

	out = mustRun(t, cfgPath, "Some **Markdown**", "render", "-")
	if out != "<p>Some <strong>Markdown</strong></p>\n" {
		t.Fatalf("render stdin = %q", out)
	}

	out = mustRun(t, cfgPath, md, "render", "--format", "txt")
	if out != md {
		t.Fatalf("txt passthrough = %q", out)
	}

	dst := filepath.Join(dir, "doc.html")
	mustRun(t, cfgPath, "", "render", src, "--out", dst)
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read --out: %v", err)
	}
	if !strings.Contains(string(b), "<h1") {
		t.Fatalf("--out file = %q", b)
	}

	if _, err := runCLI(t, cfgPath, "", "render", "--watch"); err == nil {
		t.Fatal("expected --watch on stdin to fail")
	}
	if _, err := runCLI(t, cfgPath, "", "render", src, "--format", "pdf"); err == nil {
		t.Fatal("expected unknown format to fail")
	}
}

func TestImportCommand(t *testing.T) {
	cfgPath, dir := setupCLI(t)
	notesDir := filepath.Join(dir, "src", "nested")
	if err := os.MkdirAll(notesDir, 0o700); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "src", "a.md"): "---\ncreated: 2024-03-01T10:00:00Z\nupdated: 2024-03-02T10:00:00Z\n---\n# Alpha\n",
		filepath.Join(notesDir, "b.md"):   "# Beta\n",
		filepath.Join(notesDir, "c.md"):   "   \n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	jsonPath := filepath.Join(dir, "notes.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"text":"From JSON"}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, cfgPath, "", "import", filepath.Join(dir, "src", "**", "*.md"), jsonPath)
	if !strings.Contains(out, "Imported: 3") || !strings.Contains(out, "Skipped: 1") {
		t.Fatalf("import output = %q", out)
	}

	list := decodeNotes(t, mustRun(t, cfgPath, "", "note", "list", "--output", "json"))
	if len(list) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(list))
	}
	alpha := list[len(list)-1]
	if alpha.Title() != "# Alpha" || alpha.CreatedAt.Year() != 2024 {
		t.Fatalf("front matter not applied: %+v", alpha)
	}
}
