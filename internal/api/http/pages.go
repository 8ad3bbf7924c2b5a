package http

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/session"
	"github.com/mind-engage/pathology-prep/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).ParseFS(templateFS, "templates/page.html"))

// PageHandler renders the visitor's current page as HTML.
func PageHandler(b *bank.Bank, codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := codec.FromRequest(r)
		v, err := views.Render(b, st)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, v); err != nil {
			log.Printf("render %s: %v", v.Page, err)
		}
	}
}

// ViewHandler returns the visitor's current page as JSON.
func ViewHandler(b *bank.Bank, codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := views.Render(b, codec.FromRequest(r))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// SessionStateHandler returns the decoded session.
func SessionStateHandler(codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, codec.FromRequest(r))
	}
}
