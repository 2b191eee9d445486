package site

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names
const (
	TemplateArticle   = "article.html"
	TemplateNewspaper = "newspaper.html"
	TemplateMenu      = "menu.html"
	TemplateEdit      = "edit.html"
	TemplateMessage   = "message.html"
)

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("site").
		Funcs(template.FuncMap{"formatDate": FormatDate}).
		ParseFS(templatesFS, "templates/*.html")
}
