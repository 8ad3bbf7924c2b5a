package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/session"
)

// MountSession installs the form endpoints that drive one visitor's state.
// Each applies a single transition, re-issues the cookie and redirects home.
func MountSession(r chi.Router, b *bank.Bank, codec *session.Codec) {
	transition := func(fn transitionFunc) http.HandlerFunc { return transitionHandler(b, codec, fn) }

	r.Post("/page", transition(func(r *http.Request, st session.State) (session.State, int, error) {
		p, err := session.ParsePage(r.FormValue("page"))
		if err != nil {
			return st, http.StatusBadRequest, err
		}
		st, err = st.Navigate(p)
		return st, http.StatusBadRequest, err
	}))

	r.Post("/system", transition(func(r *http.Request, st session.State) (session.State, int, error) {
		p := st.Page
		if v := r.FormValue("page"); v != "" {
			var err error
			if p, err = session.ParsePage(v); err != nil {
				return st, http.StatusBadRequest, err
			}
		}
		st, err := st.SelectSystem(p, r.FormValue("system"))
		return st, http.StatusBadRequest, err
	}))

	r.Post("/show-answers", transition(func(r *http.Request, st session.State) (session.State, int, error) {
		on, err := strconv.ParseBool(r.FormValue("on"))
		if err != nil {
			return st, http.StatusBadRequest, errors.New("on must be a boolean")
		}
		return st.SetShowAnswers(on), 0, nil
	}))

	r.Post("/select", transition(func(r *http.Request, st session.State) (session.State, int, error) {
		key, opt, status, err := answerForm(r, b)
		if err != nil {
			return st, status, err
		}
		return st.Select(key, opt), 0, nil
	}))

	r.Post("/submit", transition(func(r *http.Request, st session.State) (session.State, int, error) {
		key, opt, status, err := answerForm(r, b)
		if err != nil {
			return st, status, err
		}
		return st.Submit(key, opt), 0, nil
	}))

	r.Post("/reveal", transition(func(r *http.Request, st session.State) (session.State, int, error) {
		kind, ok := bank.ParseKind(r.FormValue("kind"))
		if !ok || (kind != bank.KindProblem && kind != bank.KindNote) {
			return st, http.StatusBadRequest, errors.New("only problems and notes can be revealed")
		}
		key := r.FormValue("key")
		if !b.HasKey(kind, key) {
			return st, http.StatusNotFound, errors.New("item not found")
		}
		return st.ToggleReveal(session.Key(kind, key)), 0, nil
	}))
}

type transitionFunc func(r *http.Request, st session.State) (next session.State, status int, err error)

func transitionHandler(b *bank.Bank, codec *session.Codec, fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		next, status, err := fn(r, codec.FromRequest(r))
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		// entries for items the bank no longer has only grow the cookie
		next = next.Prune(b.HasKey)
		if err := codec.Write(w, next); err != nil {
			if errors.Is(err, session.ErrSessionTooLarge) {
				http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
				return
			}
			log.Printf("session encode: %v", err)
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// answerForm validates kind, key and selected against the bank.
func answerForm(r *http.Request, b *bank.Bank) (key string, option int, status int, err error) {
	kind, ok := bank.ParseKind(r.FormValue("kind"))
	if !ok {
		return "", 0, http.StatusBadRequest, errors.New("unknown question kind")
	}
	itemKey := r.FormValue("key")
	q, ok := b.QuestionByKey(kind, itemKey)
	if !ok {
		return "", 0, http.StatusNotFound, errors.New("question not found")
	}
	opt, err := strconv.Atoi(r.FormValue("selected"))
	if err != nil {
		return "", 0, http.StatusBadRequest, errors.New("selected must be an option index")
	}
	if opt < 0 || opt >= len(q.Choices()) {
		return "", 0, http.StatusBadRequest, errors.New("selected out of range")
	}
	return session.Key(kind, itemKey), opt, 0, nil
}
