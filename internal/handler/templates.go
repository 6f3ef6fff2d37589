package handler

import (
	"embed"
	"html/template"

	"github.com/gin-contrib/multitemplate"
	"github.com/stemsi/questbank/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var uiFuncs = template.FuncMap{
	"has": func(values []string, v string) bool {
		for _, s := range values {
			if s == v {
				return true
			}
		}
		return false
	},
	"modeLabel": func(m model.DisplayMode) string {
		if m == model.DisplayModeSubjective {
			return "Discursiva"
		}
		return "Objetiva"
	},
}

// NewRenderer builds the HTML renderer of the form pages. Every page is parsed together
// with the shared layout.
func NewRenderer() multitemplate.Render {
	layout := mustRead("templates/layout.html")
	r := multitemplate.New()
	for _, page := range []string{"bank", "register", "about"} {
		r.AddFromStringsFuncs(page, uiFuncs, layout, mustRead("templates/"+page+".html"))
	}
	return r
}

func mustRead(name string) string {
	b, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}
