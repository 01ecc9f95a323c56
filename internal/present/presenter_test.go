package present

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/pkg/api"
)

func TestParseMode(t *testing.T) {
	for _, name := range ModeNames() {
		m, ok := ParseMode(name)
		require.True(t, ok, name)
		assert.Equal(t, name, m.String())
	}
	_, ok := ParseMode("yaml")
	assert.False(t, ok)
}

func TestRenderNotesModes(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	list := []api.Note{{ID: "n1", Text: "# One\nbody", UpdatedAt: now}}
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, RenderNotes(ctx, &buf, list, Options{Mode: ModePlain, Now: now}))
	assert.Contains(t, buf.String(), "# One")
	assert.Contains(t, buf.String(), "Today")

	buf.Reset()
	require.NoError(t, RenderNotes(ctx, &buf, list, Options{Mode: ModeJSON}))
	assert.True(t, strings.HasPrefix(buf.String(), "[{"))

	buf.Reset()
	err := RenderNotes(ctx, &buf, list, Options{Mode: ModeHTML})
	assert.ErrorIs(t, err, errNoRenderer)

	buf.Reset()
	r := render.New(render.DefaultOptions())
	require.NoError(t, RenderNote(ctx, &buf, list[0], Options{Mode: ModeHTML, Renderer: r}))
	assert.Equal(t, "<h1 id=\"one\">One</h1>\n<p>body</p>\n", buf.String())

	assert.Error(t, RenderNotes(ctx, &buf, list, Options{Mode: ModeTUI}))
}

func TestNewStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStreamWriter(&buf, Options{Mode: ModeNDJSON})
	require.NoError(t, sw.WriteNotes([]api.Note{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, sw.Close())
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}
