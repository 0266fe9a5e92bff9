package adapter

import (
	"embed"
	"strings"
	"sync"
	"text/template"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/util"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"add":    func(a, b int) int { return a + b },
	"orDash": util.OrDash,
	"title": func(s string) string {
		return util.TruncateString(s, constants.StringLimits.Title)
	},
}

var loadTemplates = sync.OnceValues(func() (*template.Template, error) {
	return template.New("formatter").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
})

// render executes the named template with trailing newlines trimmed.
func render(name string, data any) (string, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
