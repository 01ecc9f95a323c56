package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/mithrel/mdnote/pkg/api"
)

// setupCLI isolates XDG dirs and writes a config pointing at a temp store.
func setupCLI(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	for _, env := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_RUNTIME_DIR", "XDG_DOCUMENTS_DIR"} {
		t.Setenv(env, filepath.Join(dir, strings.ToLower(env)))
	}
	t.Setenv("VISUAL", "")
	cfgPath = filepath.Join(dir, "config.toml")
	content := `data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"

[export]
dir = "` + filepath.ToSlash(filepath.Join(dir, "exports")) + `"

[log]
level = "error"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath, dir
}

// runCLI executes one command line in-process and returns combined output.
func runCLI(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	root, s := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	if cerr := s.close(); cerr != nil {
		t.Fatalf("close app: %v", cerr)
	}
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, cfgPath, stdin, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// addNote adds text via stdin and returns the new id.
func addNote(t *testing.T, cfgPath, text string) string {
	t.Helper()
	out := mustRun(t, cfgPath, text, "note", "add")
	line := strings.TrimSpace(out)
	id, _, ok := strings.Cut(line, "\t")
	if !ok || id == "" {
		t.Fatalf("unexpected add output: %q", out)
	}
	return id
}

func TestCLIAddShowDeleteJSON(t *testing.T) {
	cfgPath, _ := setupCLI(t)

	out := mustRun(t, cfgPath, "", "note", "add", "CLI", "Title")
	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) != 2 || parts[1] != "CLI Title" {
		t.Fatalf("unexpected add output: %q", out)
	}
	id := parts[0]

	out = mustRun(t, cfgPath, "", "note", "show", id, "--output", "json")
	var n api.Note
	if err := json.Unmarshal([]byte(out), &n); err != nil {
		t.Fatalf("decode show json: %v\n%s", err, out)
	}
	if n.ID != id || n.Text != "CLI Title" || n.Version != 1 {
		t.Fatalf("show mismatch: %+v", n)
	}

	out = mustRun(t, cfgPath, "", "note", "delete", id, "--force")
	if !strings.Contains(out, id) {
		t.Fatalf("delete output missing id: %q", out)
	}
	if out, err := runCLI(t, cfgPath, "", "note", "show", id); err == nil {
		t.Fatalf("expected show to fail after delete, output=%q", out)
	}
}

func TestNoteAddFromStdin(t *testing.T) {
	cfgPath, _ := setupCLI(t)

	id := addNote(t, cfgPath, "# Piped\n\nfrom stdin")
	out := mustRun(t, cfgPath, "", "note", "show", id[:8], "--output", "plain")
	if out != "# Piped\n\nfrom stdin\n" {
		t.Fatalf("plain show = %q", out)
	}

	out = mustRun(t, cfgPath, "", "note", "show", id, "--output", "html")
	if !strings.Contains(out, `<h1 id="piped">Piped</h1>`) {
		t.Fatalf("html show = %q", out)
	}
}

func TestNoteAddBlankAborts(t *testing.T) {
	cfgPath, _ := setupCLI(t)

	out := mustRun(t, cfgPath, "  \n\n", "note", "add")
	if !strings.Contains(out, "aborted") {
		t.Fatalf("expected abort message, got %q", out)
	}
	out = mustRun(t, cfgPath, "", "note", "list", "--output", "json")
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected no notes, got %q", out)
	}
}

func TestNoteEditWithEditor(t *testing.T) {
	cfgPath, dir := setupCLI(t)
	id := addNote(t, cfgPath, "before")

	script := filepath.Join(dir, "fake-editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nprintf 'after\\n' > \"$1\"\n"), 0o700); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", script)

	mustRun(t, cfgPath, "", "note", "edit", id)
	out := mustRun(t, cfgPath, "", "note", "show", id, "--output", "json")
	var n api.Note
	if err := json.Unmarshal([]byte(out), &n); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Text != "after" || n.Version != 2 {
		t.Fatalf("edited note = %+v", n)
	}

	// Saving the same text again is a no-op.
	out = mustRun(t, cfgPath, "", "note", "edit", id)
	if !strings.Contains(out, "No changes.") {
		t.Fatalf("expected no-op edit, got %q", out)
	}
}

func TestNoteDeleteNeedsConfirmation(t *testing.T) {
	cfgPath, _ := setupCLI(t)
	id := addNote(t, cfgPath, "keep me")

	if _, err := runCLI(t, cfgPath, "", "note", "delete", id); err == nil {
		t.Fatal("expected delete without --force to fail off a terminal")
	}
	mustRun(t, cfgPath, "", "note", "show", id)
}

func TestNoteExport(t *testing.T) {
	cfgPath, dir := setupCLI(t)
	id := addNote(t, cfgPath, "# Export me\n\nbody")
	outDir := filepath.Join(dir, "out")

	mustRun(t, cfgPath, "", "note", "export", id, "--format", "html", "--dir", outDir, "--name", "note.html")
	b, err := os.ReadFile(filepath.Join(outDir, "note.html"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), `<h1 id="export-me">Export me</h1>`) {
		t.Fatalf("export html = %q", b)
	}

	if _, err := runCLI(t, cfgPath, "", "note", "export", id, "--format", "html", "--dir", outDir, "--name", "note.html"); err == nil {
		t.Fatal("expected existing file to be refused without --force")
	}
	mustRun(t, cfgPath, "", "note", "export", id, "--format", "html", "--dir", outDir, "--name", "note.html", "--force")

	// Default name and config export.dir.
	mustRun(t, cfgPath, "", "note", "export", id, "--format", "txt")
	entries, err := os.ReadDir(filepath.Join(dir, "exports"))
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 || !regexp.MustCompile(`^memo_\d{8}_\d{6}\.txt$`).MatchString(entries[0].Name()) {
		t.Fatalf("unexpected export files: %v", entries)
	}

	out := mustRun(t, cfgPath, "", "note", "export", id, "--format", "md", "--stdout")
	if out != "# Export me\n\nbody" {
		t.Fatalf("stdout export = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath, dir := setupCLI(t)

	out := mustRun(t, cfgPath, "", "config", "path")
	if strings.TrimSpace(out) != cfgPath {
		t.Fatalf("config path = %q, want %q", out, cfgPath)
	}
	mustRun(t, cfgPath, "", "config", "check")
	if _, err := runCLI(t, cfgPath, "", "--set", "list.page_size=0", "config", "check"); err == nil {
		t.Fatal("expected check to reject list.page_size=0")
	}

	gen := filepath.Join(dir, "gen", "config.toml")
	mustRun(t, cfgPath, "", "config", "generate", "-o", gen)
	if _, err := os.Stat(gen); err != nil {
		t.Fatalf("generated config missing: %v", err)
	}
	if _, err := runCLI(t, cfgPath, "", "config", "generate", "-o", gen); err == nil {
		t.Fatal("expected generate to refuse an existing file")
	}
	out = mustRun(t, cfgPath, "", "config", "update", "-o", gen)
	if !strings.Contains(out, "already up to date") {
		t.Fatalf("update output = %q", out)
	}

	// The temp config lacks most keys, so update fills them in and backs up.
	out = mustRun(t, cfgPath, "", "config", "update", "-o", cfgPath)
	if !strings.Contains(out, "Backup:") {
		t.Fatalf("update output = %q", out)
	}
	mustRun(t, cfgPath, "", "config", "check")
}

func TestSetOverrides(t *testing.T) {
	cfgPath, _ := setupCLI(t)

	if _, err := runCLI(t, cfgPath, "", "--set", "nope=1", "config", "check"); err == nil {
		t.Fatal("expected unknown key to fail")
	}
	if _, err := runCLI(t, cfgPath, "", "--set", "render.gfm_refs", "config", "check"); err == nil {
		t.Fatal("expected missing value to fail")
	}
	if _, err := runCLI(t, cfgPath, "", "--set", "pretty.width=wide", "config", "check"); err == nil {
		t.Fatal("expected non-integer width to fail")
	}

	id := addNote(t, cfgPath, "see #42")
	out := mustRun(t, cfgPath, "", "--set", "render.gfm_refs=true", "--set", "render.issues_url=https://example.com/issues/",
		"note", "show", id, "--output", "html")
	if !strings.Contains(out, `href="https://example.com/issues/42"`) {
		t.Fatalf("expected issue link, got %q", out)
	}
}

func TestCompletionScripts(t *testing.T) {
	cfgPath, _ := setupCLI(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out := mustRun(t, cfgPath, "", "completion", shell)
		if !strings.Contains(out, "mdnote") {
			t.Fatalf("%s completion missing program name", shell)
		}
	}
	if _, err := runCLI(t, cfgPath, "", "completion", "tcsh"); err == nil {
		t.Fatal("expected unsupported shell to fail")
	}
}
