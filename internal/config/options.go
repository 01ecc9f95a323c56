package config

import (
	"os"
	"path/filepath"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths and conventions
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/mdnote.db"},
		{Key: "db_url", Default: "", Comment: "Store DSN override (sqlite://path or mem://); empty uses data_dir"},

		{Key: "editor.delete_empty", Default: true, Comment: "Delete a note when it is saved with no content"},

		{Key: "export.dir", Default: defaultExportDir(), Comment: "Directory exported files are written to"},
		{Key: "export.format", Default: "md", Comment: "Default export format: txt, md or html"},
		{Key: "export.overwrite", Default: false, Comment: "Replace existing files instead of failing"},

		{Key: "render.gfm_refs", Default: false, Comment: "Link #123 issues and @user mentions"},
		{Key: "render.issues_url", Default: "issues/", Comment: "URL prefix for #123 issue links"},
		{Key: "render.users_url", Default: "https://github.com/", Comment: "URL prefix for @user links"},

		{Key: "preview.addr", Default: "127.0.0.1:7777", Comment: "Listen address for the HTTP preview server"},
		{Key: "preview.sanitize", Default: true, Comment: "Strip unsafe HTML from previews"},

		{Key: "pretty.style", Default: "dracula", Comment: "Glamour style for terminal output (dracula, dark, light, notty, auto)"},
		{Key: "pretty.width", Default: 80, Comment: "Word wrap width for terminal Markdown"},

		{Key: "list.page_size", Default: 200, Comment: "Batch size for list/search paging"},

		{Key: "log.level", Default: "warn", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.file", Default: "", Comment: "Append logs to this file instead of stderr"},
	}
}

// LookupOption returns the option registered under key.
func LookupOption(key string) (ConfigOption, bool) {
	for _, o := range GetConfigOptions() {
		if o.Key == key {
			return o, true
		}
	}
	return ConfigOption{}, false
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/mdnote or ~/.local/share/mdnote
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdnote")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mdnote")
}

// defaultExportDir is $XDG_DOCUMENTS_DIR or ~/Documents.
func defaultExportDir() string {
	if xdg := os.Getenv("XDG_DOCUMENTS_DIR"); xdg != "" {
		return xdg
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Documents")
}
