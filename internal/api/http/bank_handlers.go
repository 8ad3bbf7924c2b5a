package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/grading"
)

// MountAPI installs the read-only JSON API over b.
func MountAPI(r chi.Router, b *bank.Bank, g *grading.Grader) {
	r.Get("/bank", BankCountsHandler(b))
	r.Get("/{collection}", ListCollectionHandler(b))
	r.Post("/{kind}/{key}/evaluate", EvaluateHandler(b, g))
}

func BankCountsHandler(b *bank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, b.Counts())
	}
}

// itemJSON pairs an item with its interaction key, which is not part of
// the authored document.
type itemJSON struct {
	Key  string `json:"key"`
	Item any    `json:"item"`
}

func withKeys[T interface{ Key() string }](items []T) []itemJSON {
	out := make([]itemJSON, len(items))
	for i, it := range items {
		out[i] = itemJSON{Key: it.Key(), Item: it}
	}
	return out
}

// GET /{collection}?system=Renal
func ListCollectionHandler(b *bank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel := r.URL.Query().Get("system")
		if sel == "" {
			sel = bank.SelectorAll
		}
		if !bank.ValidSelector(sel) {
			http.Error(w, "unknown system", http.StatusBadRequest)
			return
		}
		kind, ok := bank.ParseKind(chi.URLParam(r, "collection"))
		if !ok {
			http.Error(w, "unknown collection", http.StatusNotFound)
			return
		}
		var out []itemJSON
		switch kind {
		case bank.KindMCQ:
			out = withKeys(bank.FilterBySystem(b.MCQ(), sel))
		case bank.KindSBA:
			out = withKeys(bank.FilterBySystem(b.SBA(), sel))
		case bank.KindProblem:
			out = withKeys(bank.FilterBySystem(b.Problems(), sel))
		case bank.KindNote:
			out = withKeys(bank.FilterBySystem(b.Notes(), sel))
		}
		respondJSON(w, http.StatusOK, map[string]any{"system": sel, "count": len(out), "items": out})
	}
}

// POST /{kind}/{key}/evaluate  {"selected": 1}
func EvaluateHandler(b *bank.Bank, g *grading.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Selected *int `json:"selected"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Selected == nil {
			http.Error(w, "selected required", http.StatusBadRequest)
			return
		}
		kind, ok := bank.ParseKind(chi.URLParam(r, "kind"))
		if !ok || (kind != bank.KindMCQ && kind != bank.KindSBA) {
			http.Error(w, "unknown question kind", http.StatusNotFound)
			return
		}
		v, found, err := g.EvaluateByKey(b, kind, pathParam(r, "key"), *req.Selected)
		if !found {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		if err != nil {
			var ise *grading.InvalidSelectionError
			if errors.As(err, &ise) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}
