// Package templates renders the generator's pages and htmx fragments as
// templ components.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/csg33k/wages-generator/internal/domain"
)

// IndexData feeds the main page.
type IndexData struct {
	Operator     string
	Runs         []domain.Run
	DefaultBatch string
	Year         int
	Quarter      int
	TrailingCRLF bool
	GridRows     int
	Error        string
}

func Login(username, errMsg string) templ.Component {
	return view("login", struct{ Operator, Username, Error string }{"", username, errMsg})
}

func Index(d IndexData) templ.Component {
	if d.GridRows == 0 {
		d.GridRows = 5
	}
	return view("index", d)
}

// RunList is the run history table, re-rendered after a delete.
func RunList(runs []domain.Run) templ.Component { return view("runs", runs) }

// Preview is the field audit of one encoded record.
func Preview(rec *domain.EncodedRecord) templ.Component { return view("preview", rec) }

// Error is an inline error box for htmx targets.
func Error(msg string) templ.Component { return view("error", msg) }

// view adapts a named html/template to templ.Component.
func view(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"visible":  visible,
	"stamp":    stamp,
	"quarters": quarters,
	"gridRows": gridRows,
}).Parse(layout + loginTmpl + indexTmpl + fragmentsTmpl))
