// Package pages renders the static marketing pages from embedded markdown.
package pages

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/spec-kit/lead-capture-service/internal/forms"
	"github.com/spec-kit/lead-capture-service/internal/markdown"
	"github.com/spec-kit/lead-capture-service/internal/validation"
)

//go:embed content/*.md templates/layout.html
var assets embed.FS

// ErrNotFound is returned by Render for an unknown slug.
var ErrNotFound = errors.New("page not found")

// Page is one entry of the site navigation.
type Page struct {
	Slug  string
	Path  string
	Title string
}

var site = []Page{
	{Slug: "home", Path: "/", Title: "Home"},
	{Slug: "about", Path: "/about", Title: "About"},
	{Slug: "services", Path: "/services", Title: "Services"},
	{Slug: "contact", Path: "/contact", Title: "Contact"},
	{Slug: "forms", Path: "/forms", Title: "Forms"},
}

type navItem struct {
	Page
	Active bool
}

type formSection struct {
	Kind   forms.Kind
	Anchor string
	Title  string
	Fields []validation.Field
}

type layoutData struct {
	Title   string
	Company string
	Year    int
	Nav     []navItem
	Body    template.HTML
	Forms   []formSection
}

// Renderer holds the parsed layout and the pre-rendered page bodies.
type Renderer struct {
	company string
	layout  *template.Template
	bodies  map[string]template.HTML
}

// NewRenderer parses the layout and converts every page's markdown once.
func NewRenderer(company string) (*Renderer, error) {
	layout, err := template.New("layout.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(assets, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{company: company, layout: layout, bodies: make(map[string]template.HTML, len(site))}
	for _, p := range site {
		src, err := assets.ReadFile("content/" + p.Slug + ".md")
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", p.Slug, err)
		}
		body, err := markdown.ToHTML(string(src))
		if err != nil {
			return nil, fmt.Errorf("render page %s: %w", p.Slug, err)
		}
		r.bodies[p.Slug] = body
	}
	return r, nil
}

// Pages returns the navigation in display order.
func Pages() []Page {
	return append([]Page(nil), site...)
}

// Render produces the full HTML document for slug.
func (r *Renderer) Render(slug string) ([]byte, error) {
	body, ok := r.bodies[slug]
	if !ok {
		return nil, ErrNotFound
	}

	data := layoutData{Company: r.company, Year: time.Now().Year(), Body: body}
	for _, p := range site {
		if p.Slug == slug {
			data.Title = p.Title
		}
		data.Nav = append(data.Nav, navItem{Page: p, Active: p.Slug == slug})
	}
	if slug == "forms" {
		for _, def := range forms.Definitions() {
			data.Forms = append(data.Forms, formSection{
				Kind:   def.Kind,
				Anchor: strings.ReplaceAll(string(def.Kind), "_", "-"),
				Title:  def.Title,
				Fields: def.Schema.Fields,
			})
		}
	}

	var buf bytes.Buffer
	if err := r.layout.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute layout: %w", err)
	}
	return buf.Bytes(), nil
}
