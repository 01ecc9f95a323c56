package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.January, 2, 3, 4, 5, 0, time.Local)
}

func TestWriteTextFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	t.Run("creates dir and returns absolute path", func(t *testing.T) {
		path, err := WriteTextFile(dir, "a.txt", "hello", false)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("refuses to clobber without overwrite", func(t *testing.T) {
		_, err := WriteTextFile(dir, "a.txt", "other", false)
		assert.ErrorIs(t, err, ErrExists)
		data, _ := os.ReadFile(filepath.Join(dir, "a.txt"))
		assert.Equal(t, "hello", string(data))
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		_, err := WriteTextFile(dir, "a.txt", "new", true)
		require.NoError(t, err)
		data, _ := os.ReadFile(filepath.Join(dir, "a.txt"))
		assert.Equal(t, "new", string(data))
	})

	t.Run("rejects names with separators", func(t *testing.T) {
		for _, name := range []string{"", "..", "../x.txt", "sub/x.txt"} {
			_, err := WriteTextFile(dir, name, "x", true)
			assert.ErrorIs(t, err, ErrInvalidName, name)
		}
	})
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(newFormatter(), dir, WithClock(fixedClock))
	ctx := context.Background()

	assert.Equal(t, "memo_20250102_030405.html", e.SuggestName(HTML))

	t.Run("default name and dir", func(t *testing.T) {
		res, err := e.Export(ctx, Request{Text: "# Hi", Format: HTML})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "memo_20250102_030405.html"), res.Path)
		data, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		assert.Equal(t, "<h1 id=\"hi\">Hi</h1>\n", string(data))
		assert.Equal(t, len(data), res.Bytes)
	})

	t.Run("markdown is written verbatim", func(t *testing.T) {
		res, err := e.Export(ctx, Request{Text: "# Hi\n", Format: Markdown, Name: "note.md"})
		require.NoError(t, err)
		data, _ := os.ReadFile(res.Path)
		assert.Equal(t, "# Hi\n", string(data))
	})

	t.Run("collision reports ErrExists", func(t *testing.T) {
		_, err := e.Export(ctx, Request{Text: "x", Format: Markdown, Name: "note.md"})
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("overwrite per request", func(t *testing.T) {
		_, err := e.Export(ctx, Request{Text: "x", Format: Markdown, Name: "note.md", Overwrite: true})
		assert.NoError(t, err)
	})

	t.Run("cancelled context writes nothing", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := e.Export(cctx, Request{Text: "x", Format: PlainText, Name: "never.txt"})
		assert.ErrorIs(t, err, context.Canceled)
		_, statErr := os.Stat(filepath.Join(dir, "never.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestExportAsync(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(newFormatter(), dir, WithClock(fixedClock))

	ch := e.ExportAsync(context.Background(), Request{Text: "body", Format: PlainText})
	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(dir, "memo_20250102_030405.txt"), res.Path)

	_, ok = <-ch
	assert.False(t, ok, "channel is closed after the single result")

	res = <-e.ExportAsync(context.Background(), Request{Text: "again", Format: PlainText})
	assert.ErrorIs(t, res.Err, ErrExists)
}
