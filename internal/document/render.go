package document

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"strings"
	"unicode"

	"github.com/stemsi/questbank/internal/schema"
)

// MIMEType is the content type of rendered documents.
const MIMEType = "text/html; charset=utf-8"

//go:embed templates/document.html.tmpl
var documentSource string

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(documentSource))

// Render writes doc as a single HTML page with inlined styles and images.
func Render(w io.Writer, doc *Document) error {
	return documentTemplate.Execute(w, doc)
}

// RenderString renders doc into a string.
func RenderString(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Filename suggests a download name such as "prova-escola-estadual.html".
func Filename(doc *Document) string {
	name := slug(doc.Header.Title)
	if inst := slug(doc.Header.Institution); inst != "" {
		name += "-" + inst
	}
	if name == "" {
		name = "documento"
	}
	return name + ".html"
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range schema.Normalize(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
