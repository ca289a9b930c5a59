package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"reflect"
	"time"

	"github.com/raysh454/vulnscan-web/internal/format"
	"github.com/raysh454/vulnscan-web/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"home", "result", "history", "pricing", "notfound"}

// page is the data every template receives; Data is page specific.
type page struct {
	Title string
	Nav   string
	Width string
	Data  any
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(now func() time.Time) (*renderer, error) {
	funcs := template.FuncMap{
		"severityEmoji": func(s model.Severity) string { return format.SeverityEmoji(s) },
		"severityBadge": func(s model.Severity) string { return format.SeverityBadgeClass(s) },
		"severityStyle": func(s model.Severity) template.CSS {
			c := format.SeverityColor(s)
			return template.CSS("color: " + c + "; background-color: " + c + "20")
		},
		"severityBorder": func(s model.Severity) template.CSS {
			return template.CSS("border-color: " + format.SeverityColor(s) + "40")
		},
		"formatDate":  format.FormatDate,
		"timeAgo":     func(s string) string { return format.FormatTimeAgo(s, now()) },
		"count":       format.Count,
		"plural":      format.Plural,
		"size":        format.Size,
		"threatLabel": format.ThreatLabel,
		"deref":       deref,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &renderer{pages: pages}, nil
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (rd *renderer) render(w http.ResponseWriter, status int, name string, p page) error {
	t, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("executing %s template: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}
