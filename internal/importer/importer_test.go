package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdnote/internal/db"
	"github.com/mithrel/mdnote/pkg/api"
)

var now = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func newTestImporter(t *testing.T) (*Importer, db.Store) {
	t.Helper()
	store, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	seq := 0
	im := New(store,
		WithClock(func() time.Time { return now }),
		WithIDs(func() string { seq++; return fmt.Sprintf("imp-%d", seq) }),
	)
	return im, store
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseFrontMatter(t *testing.T) {
	fm, body, ok := ParseFrontMatter("---\nid: abc\ncreated: 2024-05-01T08:00:00Z\n---\n\n# Title\nbody")
	require.True(t, ok)
	assert.Equal(t, "abc", fm.ID)
	assert.True(t, fm.Created.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, fm.Updated.IsZero())
	assert.Equal(t, "# Title\nbody", body)

	_, body, ok = ParseFrontMatter("# No header\n---\n")
	assert.False(t, ok)
	assert.Equal(t, "# No header\n---\n", body)

	_, _, ok = ParseFrontMatter("---\nunterminated")
	assert.False(t, ok)

	_, _, ok = ParseFrontMatter("---\n: : bad yaml [\n---\nx")
	assert.False(t, ok)
}

func TestImportGlobs(t *testing.T) {
	ctx := context.Background()
	im, store := newTestImporter(t)
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.md"), "---\nid: fixed\nupdated: 2024-01-02T03:04:05Z\n---\nAlpha")
	write(t, filepath.Join(dir, "sub", "deep", "b.md"), "Beta\r\nline")
	write(t, filepath.Join(dir, "sub", "empty.md"), "   \n")
	write(t, filepath.Join(dir, "skip.txt"), "not markdown")

	rep, err := im.ImportGlobs(ctx, filepath.Join(dir, "**", "*.md"), filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Imported)
	assert.Equal(t, 1, rep.Skipped)
	assert.ErrorIs(t, rep.Failures[filepath.Join(dir, "sub", "empty.md")], ErrEmpty)

	got, err := store.GetNote(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Text)
	assert.True(t, got.UpdatedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))

	got, err = store.GetNote(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, "Beta\nline", got.Text)

	_, err = im.ImportGlobs(ctx, "[")
	assert.Error(t, err)
}

func TestImportFileConflict(t *testing.T) {
	ctx := context.Background()
	im, _ := newTestImporter(t)
	path := filepath.Join(t.TempDir(), "n.md")
	write(t, path, "---\nid: same\n---\ntext")
	_, err := im.ImportFile(ctx, path)
	require.NoError(t, err)
	_, err = im.ImportFile(ctx, path)
	assert.ErrorIs(t, err, db.ErrConflict)
}

func TestImportJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("array", func(t *testing.T) {
		im, store := newTestImporter(t)
		rep, err := im.ImportJSON(ctx, strings.NewReader(`[
			{"id":"j1","text":"one","created_at":"2024-01-01T00:00:00Z"},
			{"text":"two"},
			{"text":""}
		]`))
		require.NoError(t, err)
		assert.Equal(t, 2, rep.Imported)
		assert.Equal(t, 1, rep.Skipped)

		n, err := store.GetNote(ctx, "j1")
		require.NoError(t, err)
		assert.True(t, n.UpdatedAt.Equal(n.CreatedAt))

		n, err = store.GetNote(ctx, "imp-1")
		require.NoError(t, err)
		assert.True(t, n.CreatedAt.Equal(now))
	})

	t.Run("ndjson", func(t *testing.T) {
		im, store := newTestImporter(t)
		rep, err := im.ImportJSON(ctx, strings.NewReader("{\"text\":\"a\"}\n{\"text\":\"b\"}\n"))
		require.NoError(t, err)
		assert.Equal(t, 2, rep.Imported)
		all, _, err := store.ListNotes(ctx, api.ListQuery{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		im, _ := newTestImporter(t)
		rep, err := im.ImportJSON(ctx, strings.NewReader("  "))
		require.NoError(t, err)
		assert.Zero(t, rep.Imported)
	})

	t.Run("bad json", func(t *testing.T) {
		im, _ := newTestImporter(t)
		_, err := im.ImportJSON(ctx, strings.NewReader("[{"))
		assert.Error(t, err)
	})
}

func TestIsJSON(t *testing.T) {
	assert.True(t, IsJSON("dump.JSON"))
	assert.True(t, IsJSON("x.ndjson"))
	assert.False(t, IsJSON("x.md"))
}
