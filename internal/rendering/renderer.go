package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/cv-forge/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// DefaultTemplate is used when no template name is given
const DefaultTemplate = "modern"

// Renderer draws a CV as a standalone HTML document
type Renderer interface {
	// Name is the template identifier clients select
	Name() string
	// Render writes the read-only document.
	Render(w io.Writer, cv types.CVData) error
	// RenderEditable writes the document with edit controls that post
	// intents to intentURL.
	RenderEditable(w io.Writer, cv types.CVData, intentURL string) error
}

// layout describes one registered template
type layout struct {
	name   string
	accent string
}

var layouts = []layout{
	{name: "modern", accent: types.DefaultThemeColor},
	{name: "classic", accent: "#111827"},
	{name: "minimal", accent: "#475569"},
}

var (
	parsed   *template.Template
	parseErr error
)

func init() {
	parsed, parseErr = template.New("cv").Funcs(template.FuncMap{
		"editField":  editField,
		"editItem":   editItem,
		"removeItem": removeItem,
		"addItem":    addItem,
	}).ParseFS(templateFS, "templates/*.html.tmpl")
}

// pageData is the value every layout executes against
type pageData struct {
	CV        types.CVData
	Accent    template.CSS
	Headline  string
	Photo     template.URL
	Editable  bool
	IntentURL string
}

type htmlRenderer struct {
	layout layout
}

// Lookup returns the renderer registered under name. An empty name selects
// DefaultTemplate.
func Lookup(name string) (Renderer, error) {
	if parseErr != nil {
		return nil, &TemplateError{Template: "cv", Message: "failed to parse templates", Cause: parseErr}
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultTemplate
	}
	for _, l := range layouts {
		if l.name == name {
			return &htmlRenderer{layout: l}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// Names returns the registered template names in sorted order
func Names() []string {
	names := make([]string, 0, len(layouts))
	for _, l := range layouts {
		names = append(names, l.name)
	}
	sort.Strings(names)
	return names
}

func (r *htmlRenderer) Name() string {
	return r.layout.name
}

func (r *htmlRenderer) Render(w io.Writer, cv types.CVData) error {
	return r.execute(w, r.page(cv, false, ""))
}

func (r *htmlRenderer) RenderEditable(w io.Writer, cv types.CVData, intentURL string) error {
	return r.execute(w, r.page(cv, true, intentURL))
}

func (r *htmlRenderer) page(cv types.CVData, editable bool, intentURL string) pageData {
	cv = cv.Normalize()
	return pageData{
		CV:        cv,
		Accent:    accentCSS(cv.ThemeColor, r.layout.accent),
		Headline:  cv.DisplayHeadline(),
		Photo:     photoURL(cv.PhotoURL),
		Editable:  editable,
		IntentURL: intentURL,
	}
}

func (r *htmlRenderer) execute(w io.Writer, p pageData) error {
	if err := parsed.ExecuteTemplate(w, r.layout.name, p); err != nil {
		return &TemplateError{
			Template: r.layout.name,
			Message:  "failed to execute template",
			Cause:    err,
		}
	}
	return nil
}
