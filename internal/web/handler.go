// Package web serves the city-facts form as a single server-rendered page.
// The form state machine stays authoritative: POST /lookup runs a submit
// and redirects back to GET /, which renders whatever state the form holds.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/cityfacts/internal/facts"
	"github.com/kalambet/cityfacts/internal/form"
)

//go:embed page.html
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "page.html"))

type Deps struct {
	Form *form.Form
}

// NewHandler builds the router for the form UI.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/", handleIndex(deps))
	r.Post("/lookup", handleLookup(deps))
	r.Get("/health", handleHealth)

	return r
}

// pageData is the template's view of the form state. Facts arrive as
// pre-split lines so the page renders one paragraph per line.
type pageData struct {
	CityName string
	City     string
	Lines    []string
	Error    string
	Loading  bool
}

func handleIndex(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := deps.Form.State()
		data := pageData{
			CityName: st.CityName,
			City:     st.City,
			Lines:    facts.Lines(st.Facts),
			Error:    st.Error,
			Loading:  st.Loading,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			slog.Error("rendering page", "error", err)
		}
	}
}

func handleLookup(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}

		deps.Form.SetCityName(r.PostFormValue("city"))

		// A submit racing an in-flight one is dropped; the redirect lands
		// on the page in its loading state.
		if err := deps.Form.Submit(r.Context()); err != nil && !errors.Is(err, form.ErrBusy) {
			slog.Error("submit failed", "error", err)
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
