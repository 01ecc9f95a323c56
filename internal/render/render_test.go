package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New(DefaultOptions())

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty input", "", ""},
		{"spaces only", "   ", ""},
		{"newlines only", "\n\n\n", ""},
		{"whitespace line between paragraphs", "a\n\n  \nb", "<p>a</p>\n<p>b</p>\n"},
		{"emphasis", "Some *Markdown*", "<p>Some <em>Markdown</em></p>\n"},
		{"strong emphasis", "Some **Markdown**", "<p>Some <strong>Markdown</strong></p>\n"},
		{"strikethrough", "~~gone~~", "<p><del>gone</del></p>\n"},
		{"soft break is forced", "line one\nline two", "<p>line one<br />\nline two</p>\n"},
		{"single blank line separates paragraphs", "first\n\nsecond", "<p>first</p>\n<p>second</p>\n"},
		{"extra blank lines become breaks", "first\n\n\n\nsecond", "<p>first</p>\n<br />\n<br />\n<p>second</p>\n"},
		{"heading gets an id", "# Title", "<h1 id=\"title\">Title</h1>\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Render(tc.in))
		})
	}
}

func TestRenderBlankLineRuns(t *testing.T) {
	r := New(DefaultOptions())

	one := r.Render("first\n\nsecond")
	three := r.Render("first\n\n\n\nsecond")

	assert.NotEqual(t, one, three)
	assert.NotContains(t, one, "<br />")
	assert.Contains(t, three, "<br />")
}

func TestRenderTables(t *testing.T) {
	r := New(DefaultOptions())

	t.Run("pipe table", func(t *testing.T) {
		out := r.Render("| a | b |\n| --- | --- |\n| 1 | 2 |")
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, "<th>a</th>")
		assert.Contains(t, out, "<td>2</td>")
	})

	t.Run("header without separator is a paragraph", func(t *testing.T) {
		out := r.Render("| a | b |\n| 1 | 2 |")
		assert.NotContains(t, out, "<table")
		assert.True(t, strings.HasPrefix(out, "<p>"), out)
	})
}

func TestRenderTOC(t *testing.T) {
	r := New(DefaultOptions())

	t.Run("nested by level in document order", func(t *testing.T) {
		out := r.Render("[TOC]\n\n# A\n\n## B")
		want := "<ul>\n" +
			"<li><a href=\"#a\">A</a>\n" +
			"<ul>\n" +
			"<li><a href=\"#b\">B</a></li>\n" +
			"</ul>\n" +
			"</li>\n" +
			"</ul>\n" +
			"<h1 id=\"a\">A</h1>\n" +
			"<h2 id=\"b\">B</h2>\n"
		assert.Equal(t, want, out)
	})

	t.Run("no headings renders an empty list", func(t *testing.T) {
		assert.Equal(t, "<ul>\n</ul>\n<p>text</p>\n", r.Render("[TOC]\n\ntext"))
	})

	t.Run("marker inside a paragraph stays text", func(t *testing.T) {
		out := r.Render("intro\n[TOC]")
		assert.NotContains(t, out, "<ul>")
		assert.Contains(t, out, "[TOC]")
	})

	t.Run("heading text is escaped and stripped of markup", func(t *testing.T) {
		out := r.Render("[TOC]\n\n# *Tom* & Jerry")
		assert.Contains(t, out, ">Tom &amp; Jerry</a>")
	})
}

func TestBuildTOCTree(t *testing.T) {
	roots := buildTOCTree([]TOCEntry{
		{Level: 2, ID: "a"},
		{Level: 3, ID: "b"},
		{Level: 1, ID: "c"},
		{Level: 3, ID: "d"},
		{Level: 2, ID: "e"},
	})
	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].entry.ID)
	require.Len(t, roots[0].children, 1)
	assert.Equal(t, "b", roots[0].children[0].entry.ID)
	assert.Equal(t, "c", roots[1].entry.ID)
	require.Len(t, roots[1].children, 2)
	assert.Equal(t, "d", roots[1].children[0].entry.ID)
	assert.Equal(t, "e", roots[1].children[1].entry.ID)
}

func TestRenderDeterministic(t *testing.T) {
	r := New(DefaultOptions())
	doc := "[TOC]\n\n# One\n\ntext *here*\n\n\n\n## Two\n\n| a |\n| - |\n| 1 |\n"
	first := r.Render(doc)
	assert.Equal(t, first, r.Render(doc))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Render(doc)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, first, got)
	}
}

func TestRenderReferences(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		out := New(DefaultOptions()).Render("see #12 and @octo")
		assert.Equal(t, "<p>see #12 and @octo</p>\n", out)
	})

	opts := DefaultOptions()
	opts.GFMRefs = true
	r := New(opts)

	t.Run("issue and user", func(t *testing.T) {
		out := r.Render("see #12 and @octo")
		assert.Contains(t, out, `<a href="issues/12" class="gfm-issue">#12</a>`)
		assert.Contains(t, out, `<a href="https://github.com/octo" class="gfm-user"><strong>@octo</strong></a>`)
	})

	t.Run("inside words is left alone", func(t *testing.T) {
		out := r.Render("mail me@example.com about a#1 or #12abc")
		assert.NotContains(t, out, "gfm-user")
		assert.NotContains(t, out, "gfm-issue")
	})

	t.Run("custom roots", func(t *testing.T) {
		custom := New(Options{GFMRefs: true, IssuesURL: "https://git.example/p/issues/", UsersURL: "https://git.example/"})
		out := custom.Render("#7 by @dev")
		assert.Contains(t, out, `href="https://git.example/p/issues/7"`)
		assert.Contains(t, out, `href="https://git.example/dev"`)
	})
}

func TestPage(t *testing.T) {
	out := Page("a <b>", "<p>x</p>\n")
	assert.Contains(t, out, "<title>a &lt;b&gt;</title>")
	assert.Contains(t, out, "<p>x</p>\n</body>")
}
