package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/pathology-prep/internal/bank"
)

var (
	ErrUnknownPage   = errors.New("unknown page")
	ErrUnknownSystem = errors.New("unknown system selector")
)

// Page is one navigation destination.
type Page string

const (
	PageHome     Page = "home"
	PageMCQ      Page = "mcq"
	PageSBA      Page = "sba"
	PageProblems Page = "problems"
	PageNotes    Page = "notes"
	PageAbout    Page = "about"
)

// Pages lists every destination in navigation order.
func Pages() []Page {
	return []Page{PageHome, PageMCQ, PageSBA, PageProblems, PageNotes, PageAbout}
}

var pageTitles = map[Page]string{
	PageHome:     "Home",
	PageMCQ:      "MCQ Questions",
	PageSBA:      "SBA Questions",
	PageProblems: "Clinical Problems",
	PageNotes:    "Study Notes",
	PageAbout:    "About",
}

func (p Page) Title() string { return pageTitles[p] }

func ParsePage(s string) (Page, error) {
	if _, ok := pageTitles[Page(s)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
	}
	return Page(s), nil
}

// Key identifies one item across collections, e.g. "mcq:12".
func Key(kind bank.Kind, itemKey string) string { return string(kind) + ":" + itemKey }

// ParseKey splits a key built by Key.
func ParseKey(key string) (kind bank.Kind, itemKey string, ok bool) {
	k, item, ok := strings.Cut(key, ":")
	if !ok {
		return "", "", false
	}
	return bank.Kind(k), item, true
}

// State is everything one visitor has done in the current session.
// Transitions never modify the receiver; they return an updated copy.
type State struct {
	Page        Page            `json:"page"`
	Systems     map[Page]string `json:"systems,omitempty"`
	ShowAnswers bool            `json:"show_answers,omitempty"`
	Selected    map[string]int  `json:"selected,omitempty"`
	Revealed    map[string]bool `json:"revealed,omitempty"`
}

// New returns the state of a fresh visit.
func New() State { return State{Page: PageHome} }

func (s State) clone() State {
	out := State{Page: s.Page, ShowAnswers: s.ShowAnswers}
	if s.Page == "" {
		out.Page = PageHome
	}
	out.Systems = make(map[Page]string, len(s.Systems))
	for k, v := range s.Systems {
		out.Systems[k] = v
	}
	out.Selected = make(map[string]int, len(s.Selected))
	for k, v := range s.Selected {
		out.Selected[k] = v
	}
	out.Revealed = make(map[string]bool, len(s.Revealed))
	for k, v := range s.Revealed {
		out.Revealed[k] = v
	}
	return out
}

func (s State) Navigate(p Page) (State, error) {
	if _, ok := pageTitles[p]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownPage, p)
	}
	out := s.clone()
	out.Page = p
	return out, nil
}

// System returns the selector in effect on page p.
func (s State) System(p Page) string {
	if v, ok := s.Systems[p]; ok {
		return v
	}
	return bank.SelectorAll
}

func (s State) SelectSystem(p Page, selector string) (State, error) {
	if _, ok := pageTitles[p]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownPage, p)
	}
	if !bank.ValidSelector(selector) {
		return s, fmt.Errorf("%w: %q", ErrUnknownSystem, selector)
	}
	out := s.clone()
	if selector == bank.SelectorAll {
		delete(out.Systems, p)
	} else {
		out.Systems[p] = selector
	}
	return out, nil
}

// SetShowAnswers flips the global reveal override.
func (s State) SetShowAnswers(on bool) State {
	out := s.clone()
	out.ShowAnswers = on
	return out
}

// Selection returns the chosen option for key; the first option is preselected.
func (s State) Selection(key string) int { return s.Selected[key] }

// Select records a choice. Changing the answer hides the previous verdict
// until it is submitted again.
func (s State) Select(key string, option int) State {
	out := s.clone()
	out.Selected[key] = option
	delete(out.Revealed, key)
	return out
}

// Submit records a choice and reveals the verdict.
func (s State) Submit(key string, option int) State {
	out := s.Select(key, option)
	out.Revealed[key] = true
	return out
}

// ToggleReveal flips the reveal flag of a problem answer or a note body.
func (s State) ToggleReveal(key string) State {
	out := s.clone()
	if out.Revealed[key] {
		delete(out.Revealed, key)
	} else {
		out.Revealed[key] = true
	}
	return out
}

// IsRevealed reports whether key's answer is shown, counting the global
// override for answerable items.
func (s State) IsRevealed(key string) bool {
	return s.ShowAnswers || s.Revealed[key]
}

// IsExpanded reports a note's own toggle; the answer override does not apply.
func (s State) IsExpanded(key string) bool { return s.Revealed[key] }

// Prune drops selections and reveal flags whose item exists(kind, key)
// rejects, such as items removed from the bank since the session began.
func (s State) Prune(exists func(kind bank.Kind, itemKey string) bool) State {
	out := s.clone()
	keep := func(key string) bool {
		kind, item, ok := ParseKey(key)
		return ok && exists(kind, item)
	}
	for k := range out.Selected {
		if !keep(k) {
			delete(out.Selected, k)
		}
	}
	for k := range out.Revealed {
		if !keep(k) {
			delete(out.Revealed, k)
		}
	}
	return out
}
