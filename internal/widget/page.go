package widget

import (
	"embed"
	"html/template"
)

// PageName is the template name of the widget page.
const PageName = "index.html"

//go:embed templates/index.html
var templates embed.FS

// PageData feeds the widget page template.
type PageData struct {
	Title     string
	StreamURL string
	View      View
}

// Page parses the embedded widget page.
func Page() (*template.Template, error) {
	return template.New(PageName).ParseFS(templates, "templates/"+PageName)
}
