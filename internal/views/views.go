package views

import (
	"fmt"
	"strconv"

	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/grading"
	"github.com/mind-engage/pathology-prep/internal/session"
)

// View is everything a template needs to draw one page.
type View struct {
	Page      session.Page   `json:"page"`
	Title     string         `json:"title"`
	Nav       []NavEntry     `json:"nav"`
	Selectors []string       `json:"selectors,omitempty"`
	System    string         `json:"system,omitempty"`
	ShowAll   bool           `json:"show_answers"`
	Info      string         `json:"info,omitempty"`
	Warning   string         `json:"warning,omitempty"`
	Counts    *bank.Counts   `json:"counts,omitempty"`
	Questions []QuestionView `json:"questions,omitempty"`
	Problems  []ProblemView  `json:"problems,omitempty"`
	Notes     []NoteView     `json:"notes,omitempty"`
}

type NavEntry struct {
	Page    session.Page `json:"page"`
	Title   string       `json:"title"`
	Current bool         `json:"current"`
}

type OptionView struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type QuestionView struct {
	Kind     bank.Kind        `json:"kind"`
	Key      string           `json:"key"`
	Heading  string           `json:"heading"`
	Text     string           `json:"text"`
	Options  []OptionView     `json:"options"`
	Revealed bool             `json:"revealed"`
	Verdict  *grading.Verdict `json:"verdict,omitempty"`
}

type ProblemView struct {
	Key         string   `json:"key"`
	Heading     string   `json:"heading"`
	Text        string   `json:"text"`
	Revealed    bool     `json:"revealed"`
	Answer      string   `json:"answer,omitempty"`
	KeyConcepts []string `json:"key_concepts,omitempty"`
}

type NoteView struct {
	Key      string `json:"key"`
	Heading  string `json:"heading"`
	Expanded bool   `json:"expanded"`
	Content  string `json:"content,omitempty"`
}

// RenderFunc builds the view of one page.
type RenderFunc func(b *bank.Bank, st session.State) (View, error)

var renderers = map[session.Page]RenderFunc{
	session.PageHome:     renderHome,
	session.PageMCQ:      renderMCQ,
	session.PageSBA:      renderSBA,
	session.PageProblems: renderProblems,
	session.PageNotes:    renderNotes,
	session.PageAbout:    renderAbout,
}

// Render dispatches to the current page of st.
func Render(b *bank.Bank, st session.State) (View, error) {
	page := st.Page
	if page == "" {
		page = session.PageHome
	}
	fn, ok := renderers[page]
	if !ok {
		return View{}, fmt.Errorf("%w: %q", session.ErrUnknownPage, page)
	}
	v, err := fn(b, st)
	if err != nil {
		return View{}, err
	}
	v.Page = page
	v.Title = page.Title()
	v.ShowAll = st.ShowAnswers
	v.Nav = nav(page)
	return v, nil
}

func nav(current session.Page) []NavEntry {
	pages := session.Pages()
	out := make([]NavEntry, len(pages))
	for i, p := range pages {
		out[i] = NavEntry{Page: p, Title: p.Title(), Current: p == current}
	}
	return out
}

func renderHome(b *bank.Bank, _ session.State) (View, error) {
	c := b.Counts()
	return View{Counts: &c}, nil
}

func renderAbout(b *bank.Bank, _ session.State) (View, error) {
	c := b.Counts()
	return View{Counts: &c}, nil
}

func renderMCQ(b *bank.Bank, st session.State) (View, error) {
	items := bank.FilterBySystem(b.MCQ(), st.System(session.PageMCQ))
	qs := make([]bank.Question, len(items))
	for i, it := range items {
		qs[i] = it
	}
	return questionPage(qs, systemsOf(items), st, session.PageMCQ)
}

func renderSBA(b *bank.Bank, st session.State) (View, error) {
	items := bank.FilterBySystem(b.SBA(), st.System(session.PageSBA))
	qs := make([]bank.Question, len(items))
	for i, it := range items {
		qs[i] = it
	}
	return questionPage(qs, systemsOf(items), st, session.PageSBA)
}

func systemsOf[T bank.Systemed](items []T) []bank.System {
	out := make([]bank.System, len(items))
	for i, it := range items {
		out[i] = it.SystemTag()
	}
	return out
}

func questionPage(qs []bank.Question, systems []bank.System, st session.State, page session.Page) (View, error) {
	v := View{Selectors: bank.Selectors(), System: st.System(page)}
	if len(qs) == 0 {
		v.Warning = "No questions found for the selected filters."
		return v, nil
	}
	v.Info = found(len(qs), "question")
	v.Questions = make([]QuestionView, 0, len(qs))
	for i, q := range qs {
		key := session.Key(q.Kind(), q.Key())
		sel := st.Selection(key)
		if sel < 0 || sel >= len(q.Choices()) {
			// stale selection from a session that predates the current bank
			sel = 0
		}
		qv := QuestionView{
			Kind:     q.Kind(),
			Key:      q.Key(),
			Heading:  "Question " + strconv.Itoa(i+1) + " - " + systems[i].Label(),
			Text:     questionText(q),
			Revealed: st.IsRevealed(key),
		}
		for j, opt := range q.Choices() {
			qv.Options = append(qv.Options, OptionView{Index: j, Label: grading.OptionLabel(j, opt), Selected: j == sel})
		}
		if qv.Revealed {
			verdict, err := grading.Evaluate(q, sel)
			if err != nil {
				return View{}, fmt.Errorf("%s: %w", key, err)
			}
			qv.Verdict = &verdict
		}
		v.Questions = append(v.Questions, qv)
	}
	return v, nil
}

func questionText(q bank.Question) string {
	switch it := q.(type) {
	case bank.McqItem:
		return it.Question
	case bank.SbaItem:
		return it.Question
	}
	return ""
}

func renderProblems(b *bank.Bank, st session.State) (View, error) {
	items := bank.FilterBySystem(b.Problems(), st.System(session.PageProblems))
	v := View{Selectors: bank.Selectors(), System: st.System(session.PageProblems)}
	if len(items) == 0 {
		v.Warning = "No problems found for the selected filters."
		return v, nil
	}
	v.Info = found(len(items), "problem")
	for i, p := range items {
		pv := ProblemView{
			Key:      p.Key(),
			Heading:  "Problem " + strconv.Itoa(i+1) + " - " + p.System.Label(),
			Text:     p.Question,
			Revealed: st.IsRevealed(session.Key(bank.KindProblem, p.Key())),
		}
		if pv.Revealed {
			pv.Answer = p.Answer
			pv.KeyConcepts = p.KeyConcepts
		}
		v.Problems = append(v.Problems, pv)
	}
	return v, nil
}

func renderNotes(b *bank.Bank, st session.State) (View, error) {
	items := bank.FilterBySystem(b.Notes(), st.System(session.PageNotes))
	v := View{Selectors: bank.Selectors(), System: st.System(session.PageNotes)}
	if len(items) == 0 {
		v.Warning = "No study notes found for the selected system."
		return v, nil
	}
	v.Info = found(len(items), "note")
	for _, n := range items {
		nv := NoteView{
			Key:      n.Key(),
			Heading:  n.Title + " - " + string(n.System),
			Expanded: st.IsExpanded(session.Key(bank.KindNote, n.Key())),
		}
		if nv.Expanded {
			nv.Content = n.Content
		}
		v.Notes = append(v.Notes, nv)
	}
	return v, nil
}

func found(n int, noun string) string {
	return fmt.Sprintf("Found %d %s(s)", n, noun)
}
