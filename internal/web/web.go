package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

// Link is one entry on the admin index.
type Link struct {
	Title string
	URL   string
}

// PageData is handed to every admin page.
type PageData struct {
	Title        string
	SiteName     string
	AdminPrefix  string
	OperatorName string
	CSRFToken    string
	Next         string
	Error        string
	Links        []Link
	Report       map[string]any
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcMap = template.FuncMap{
	"formatTime": func(v any) string {
		t, ok := v.(time.Time)
		if !ok || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04 MST")
	},
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, page := range []string{"index.html", "login.html", "error.html", "league_dashboard.html"} {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(files, layoutFile, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never leaves a half-written
// response behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data *PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("template %s not found", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
