package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigValidityValid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/mdnote")
	v.Set("render.gfm_refs", true)

	assert.NoError(t, CheckConfigValidity(v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "")
	v.Set("export.dir", "")
	v.Set("export.format", "pdf")
	v.Set("pretty.width", 0)
	v.Set("list.page_size", -1)
	v.Set("log.level", "loud")
	v.Set("preview.addr", "nope")
	v.Set("render.gfm_refs", true)
	v.Set("render.issues_url", "")
	v.Set("render.users_url", "https://")

	err := CheckConfigValidity(v)
	require.Error(t, err)

	msg := err.Error()
	expected := []string{
		"data_dir is required",
		"export.dir is required",
		"export.format",
		"pretty.width must be greater than 0",
		"list.page_size must be greater than 0",
		`log.level "loud" is not a known level`,
		"preview.addr",
		"render.issues_url is required",
		"render.users_url has invalid url",
	}
	for _, want := range expected {
		assert.Contains(t, msg, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[export]\nformat = \"html\"\n\n[pretty]\nwidth = 100\n"), 0o600))
	t.Setenv("MDNOTE_PRETTY_WIDTH", "120")

	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, "html", v.GetString("export.format"), "file overrides default")
	assert.Equal(t, 120, v.GetInt("pretty.width"), "env overrides file")
	assert.Equal(t, "dracula", v.GetString("pretty.style"), "default kept")
}

func TestLoadMissingFileIsFine(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, Load(context.Background(), v))
	assert.NotEmpty(t, v.GetString("data_dir"))
}

func TestResolvePaths(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", "/var/lib/mdnote")
	v.Set("export.dir", "/srv/out")
	assert.Equal(t, filepath.Join("/var/lib/mdnote", "mdnote.db"), ResolveDBPath(v))
	assert.Equal(t, "/srv/out", ResolveExportDir(v))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), ExpandPath("~/notes"))
}
