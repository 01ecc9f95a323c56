package render

import (
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	DefaultIssuesURL = "issues/"
	DefaultUsersURL  = "https://github.com/"

	issueClass = "gfm-issue"
	userClass  = "gfm-user"

	maxUserLen = 39
)

// issueParser turns #123 into a link below IssuesURL.
type issueParser struct{ root string }

func (p *issueParser) Trigger() []byte { return []byte{'#'} }

func (p *issueParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if !refBoundary(block.PrecendingCharacter()) {
		return nil
	}
	line, seg := block.PeekLine()
	n := 1
	for n < len(line) && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	if n == 1 || (n < len(line) && isWordByte(line[n])) {
		return nil
	}
	number := line[1:n]
	link := ast.NewLink()
	link.Destination = append([]byte(p.root), number...)
	link.SetAttributeString("class", []byte(issueClass))
	link.AppendChild(link, ast.NewTextSegment(text.NewSegment(seg.Start, seg.Start+n)))
	block.Advance(n)
	return link
}

// userParser turns @name into a bold link to the user's profile.
type userParser struct{ root string }

func (p *userParser) Trigger() []byte { return []byte{'@'} }

func (p *userParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if !refBoundary(block.PrecendingCharacter()) {
		return nil
	}
	line, seg := block.PeekLine()
	n := 1
	for n < len(line) && n <= maxUserLen && (isAlnumByte(line[n]) || (line[n] == '-' && n > 1)) {
		n++
	}
	for n > 1 && line[n-1] == '-' {
		n--
	}
	if n == 1 || (n < len(line) && isWordByte(line[n])) {
		return nil
	}
	name := line[1:n]
	link := ast.NewLink()
	link.Destination = append([]byte(p.root), name...)
	link.SetAttributeString("class", []byte(userClass))
	strong := ast.NewEmphasis(2)
	strong.AppendChild(strong, ast.NewTextSegment(text.NewSegment(seg.Start, seg.Start+n)))
	link.AppendChild(link, strong)
	block.Advance(n)
	return link
}

// refBoundary reports whether a reference may start after r. References
// inside words (foo#1, mail@host) are left alone.
func refBoundary(r rune) bool {
	return r == '\n' || r == ' ' || unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '#' && r != '@' && r != '/')
}

func isAlnumByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordByte(c byte) bool { return isAlnumByte(c) || c == '_' }

// References links GitHub-style issue (#123) and user (@name) mentions.
type References struct {
	IssuesURL string
	UsersURL  string
}

func (e *References) Extend(m goldmark.Markdown) {
	issues, users := e.IssuesURL, e.UsersURL
	if issues == "" {
		issues = DefaultIssuesURL
	}
	if users == "" {
		users = DefaultUsersURL
	}
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&issueParser{root: issues}, 600),
		util.Prioritized(&userParser{root: users}, 600),
	))
}
