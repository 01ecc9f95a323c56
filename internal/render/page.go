package render

import (
	"html/template"
	"strings"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}</body>
</html>
`))

// Page wraps an HTML fragment into a standalone document.
func Page(title, fragment string) string {
	var b strings.Builder
	_ = pageTmpl.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(fragment)})
	return b.String()
}
