package render

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var tocMarker = []byte("[TOC]")

// KindTOC is the node kind of a table-of-contents block.
var KindTOC = ast.NewNodeKind("TOC")

// TOCEntry is one heading listed by a table of contents.
type TOCEntry struct {
	Level int
	ID    string
	Text  string
}

// TOCNode is a block that renders as a nested list of the document headings.
type TOCNode struct {
	ast.BaseBlock
	Entries []TOCEntry
}

// NewTOCNode returns an empty TOC block; entries are filled after parsing.
func NewTOCNode() *TOCNode { return &TOCNode{} }

func (n *TOCNode) Kind() ast.NodeKind { return KindTOC }

func (n *TOCNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Entries": strconv.Itoa(len(n.Entries))}, nil)
}

type tocParser struct{}

func (tocParser) Trigger() []byte { return []byte{'['} }

func (tocParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	if !bytes.Equal(util.TrimRightSpace(util.TrimLeftSpace(line)), tocMarker) {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return NewTOCNode(), parser.NoChildren
}

func (tocParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (tocParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (tocParser) CanInterruptParagraph() bool { return false }

func (tocParser) CanAcceptIndentedLine() bool { return false }

// tocTransformer collects headings once the whole document is parsed, so a
// marker placed before the headings still sees them.
type tocTransformer struct{}

func (tocTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var tocs []*TOCNode
	var entries []TOCEntry
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *TOCNode:
			tocs = append(tocs, node)
		case *ast.Heading:
			entries = append(entries, TOCEntry{
				Level: node.Level,
				ID:    headingID(node),
				Text:  plainText(node, source),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, t := range tocs {
		t.Entries = entries
	}
}

func headingID(n ast.Node) string {
	v, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// plainText concatenates the literal text below n, dropping inline markup.
func plainText(n ast.Node, source []byte) string {
	var b bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(b.Bytes()))
}

type tocHTMLRenderer struct{}

func (r tocHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTOC, r.renderTOC)
}

func (tocHTMLRenderer) renderTOC(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	writeTOCList(w, buildTOCTree(n.(*TOCNode).Entries))
	return ast.WalkSkipChildren, nil
}

type tocItem struct {
	entry    TOCEntry
	children []*tocItem
}

// buildTOCTree nests every entry under the closest earlier entry of a lower
// level. Skipped levels do not create empty intermediate lists.
func buildTOCTree(entries []TOCEntry) []*tocItem {
	var roots, stack []*tocItem
	for _, e := range entries {
		item := &tocItem{entry: e}
		for len(stack) > 0 && stack[len(stack)-1].entry.Level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, item)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, item)
		}
		stack = append(stack, item)
	}
	return roots
}

func writeTOCList(w util.BufWriter, items []*tocItem) {
	_, _ = w.WriteString("<ul>\n")
	for _, it := range items {
		_, _ = w.WriteString(`<li><a href="#`)
		_, _ = w.Write(util.EscapeHTML([]byte(it.entry.ID)))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(it.entry.Text)))
		_, _ = w.WriteString("</a>")
		if len(it.children) > 0 {
			_ = w.WriteByte('\n')
			writeTOCList(w, it.children)
		}
		_, _ = w.WriteString("</li>\n")
	}
	_, _ = w.WriteString("</ul>\n")
}

type tocExtension struct{}

// TOC replaces a line consisting of [TOC] with a nested list of the
// document headings. It relies on heading ids, so parsers using it should
// enable parser.WithAutoHeadingID.
var TOC goldmark.Extender = tocExtension{}

func (tocExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(tocParser{}, 950)),
		parser.WithASTTransformers(util.Prioritized(tocTransformer{}, 100)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(tocHTMLRenderer{}, 500)),
	)
}
