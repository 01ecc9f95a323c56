package render

import (
	"strings"
)

// lineBreak is the forced break emitted for the second and later blank
// lines of a run.
const lineBreak = "<br />"

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(s string) string {
	return newlines.Replace(s)
}

// Preprocess normalizes runs of blank lines before parsing.
//
// Only empty lines are blank; a line holding spaces is content and is
// emitted unchanged. A single blank line is kept as an ordinary paragraph
// separator. Every further blank line in the same run becomes a literal
// <br /> line, and the content line that ends the run is preceded by one
// blank line so the forced breaks stay a block of their own.
func Preprocess(markdown string) string {
	lines := strings.Split(NormalizeLineEndings(markdown), "\n")
	out := make([]string, 0, len(lines)+2)
	blanks := 0
	for _, line := range lines {
		if line != "" {
			if blanks >= 2 {
				out = append(out, "")
			}
			out = append(out, line)
			blanks = 0
			continue
		}
		blanks++
		if blanks >= 2 {
			out = append(out, lineBreak)
		} else {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}
