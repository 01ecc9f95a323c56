package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdnote/internal/render"
	"github.com/mithrel/mdnote/pkg/api"
)

var now = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

func sample() []api.Note {
	return []api.Note{
		{ID: "n1", Text: "Groceries\n- milk", UpdatedAt: time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)},
		{ID: "n2", Text: "tab\there", UpdatedAt: time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)},
	}
}

func TestWritePlainNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainNotes(&buf, sample(), true, now))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id"))
	assert.Contains(t, lines[1], "Today")
	assert.Contains(t, lines[1], "09:30")
	assert.Contains(t, lines[2], `tab\there`)
	assert.Contains(t, lines[2], "2024/07/01(Mon)")
}

func TestPlainStreamWriterHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPlainStreamWriter(&buf, true, now)
	require.NoError(t, pw.WriteNotes(sample()[:1]))
	require.NoError(t, pw.WriteNotes(sample()[1:]))
	require.NoError(t, pw.Close())
	assert.Equal(t, 1, strings.Count(buf.String(), "title"))
}

func TestWritePlainNote(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainNote(&buf, api.Note{Text: "hello"}))
	assert.Equal(t, "hello\n", buf.String())
}

func TestJSONStreamWriter(t *testing.T) {
	for _, indent := range []bool{false, true} {
		var buf bytes.Buffer
		jw := NewJSONStreamWriter(&buf, indent)
		require.NoError(t, jw.WriteNotes(sample()[:1]))
		require.NoError(t, jw.WriteNotes(sample()[1:]))
		require.NoError(t, jw.Close())

		var got []api.Note
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
		assert.Len(t, got, 2)
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONStreamWriter(&buf, false).Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSONNotes(&buf, sample()))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestWriteHTMLNote(t *testing.T) {
	r := render.New(render.DefaultOptions())
	var buf bytes.Buffer
	n := api.Note{Text: "# Title\n**bold**"}
	require.NoError(t, WriteHTMLNote(&buf, r, n, false))
	assert.Contains(t, buf.String(), "<strong>bold</strong>")
	assert.NotContains(t, buf.String(), "<html>")

	buf.Reset()
	require.NoError(t, WriteHTMLNote(&buf, r, n, true))
	assert.Contains(t, buf.String(), "<title># Title</title>")
}

func TestWritePretty(t *testing.T) {
	p := Pretty{Style: "notty", Width: 60}
	var buf bytes.Buffer
	require.NoError(t, WritePrettyNote(&buf, sample()[0], p, now))
	assert.Contains(t, buf.String(), "Groceries")
	assert.Contains(t, buf.String(), "n1")

	buf.Reset()
	require.NoError(t, WritePrettyNotes(&buf, sample(), p, now))
	assert.Contains(t, buf.String(), "Groceries")
	assert.Contains(t, buf.String(), "Today")
}
