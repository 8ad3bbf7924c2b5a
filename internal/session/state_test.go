package session

import (
	"errors"
	"testing"

	"github.com/mind-engage/pathology-prep/internal/bank"
)

func TestNewStartsAtHome(t *testing.T) {
	s := New()
	if s.Page != PageHome {
		t.Fatalf("page = %q", s.Page)
	}
	if s.System(PageMCQ) != "All" {
		t.Fatalf("default system = %q", s.System(PageMCQ))
	}
}

func TestNavigate(t *testing.T) {
	s, err := New().Navigate(PageSBA)
	if err != nil || s.Page != PageSBA {
		t.Fatalf("navigate: %v %q", err, s.Page)
	}
	if _, err := s.Navigate("quiz"); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("want ErrUnknownPage, got %v", err)
	}
}

func TestPageTitles(t *testing.T) {
	for _, p := range Pages() {
		if p.Title() == "" {
			t.Errorf("page %q has no title", p)
		}
	}
	if PageProblems.Title() != "Clinical Problems" {
		t.Errorf("title = %q", PageProblems.Title())
	}
}

func TestSelectSystemIsPerPage(t *testing.T) {
	s, err := New().SelectSystem(PageMCQ, "Renal")
	if err != nil {
		t.Fatal(err)
	}
	if s.System(PageMCQ) != "Renal" || s.System(PageSBA) != "All" {
		t.Fatalf("systems = %+v", s.Systems)
	}
	s, _ = s.SelectSystem(PageMCQ, "All")
	if s.System(PageMCQ) != "All" {
		t.Fatalf("reset failed: %+v", s.Systems)
	}
	if _, err := s.SelectSystem(PageMCQ, "renal"); !errors.Is(err, ErrUnknownSystem) {
		t.Fatalf("want ErrUnknownSystem, got %v", err)
	}
}

func TestSubmitThenReselect(t *testing.T) {
	k := "mcq:1"
	s := New().Submit(k, 2)
	if !s.IsRevealed(k) || s.Selection(k) != 2 {
		t.Fatalf("after submit: %+v", s)
	}
	s = s.Select(k, 0)
	if s.IsRevealed(k) {
		t.Fatal("reselect should return to unanswered")
	}
	s = s.Submit(k, 0)
	if !s.IsRevealed(k) || s.Selection(k) != 0 {
		t.Fatalf("resubmit: %+v", s)
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := New().Submit("mcq:1", 1)
	_ = base.Select("mcq:1", 3)
	_ = base.ToggleReveal("problems:p1")
	if base.Selection("mcq:1") != 1 || !base.IsRevealed("mcq:1") || base.Revealed["problems:p1"] {
		t.Fatalf("receiver changed: %+v", base)
	}
}

func TestShowAnswersOverride(t *testing.T) {
	s := New().SetShowAnswers(true)
	if !s.IsRevealed("sba:anything") {
		t.Fatal("override should reveal every question")
	}
	if s.IsExpanded("notes:#0") {
		t.Fatal("override should not expand notes")
	}
	s = s.SetShowAnswers(false)
	if s.IsRevealed("sba:anything") {
		t.Fatal("override off should hide unanswered questions")
	}
}

func TestToggleReveal(t *testing.T) {
	k := Key("problems", "p1")
	if k != "problems:p1" {
		t.Fatalf("key = %q", k)
	}
	s := New().ToggleReveal(k)
	if !s.IsExpanded(k) {
		t.Fatal("toggle on failed")
	}
	if s.ToggleReveal(k).IsExpanded(k) {
		t.Fatal("toggle off failed")
	}
}

func TestPruneDropsUnknownItems(t *testing.T) {
	s := New().Submit("mcq:1", 1).Submit("mcq:gone", 0).ToggleReveal("notes:#0").ToggleReveal("junk")
	live := map[string]bool{"mcq:1": true, "notes:#0": true}
	p := s.Prune(func(kind bank.Kind, item string) bool { return live[Key(kind, item)] })

	if len(p.Selected) != 1 || p.Selection("mcq:1") != 1 {
		t.Fatalf("selected = %v", p.Selected)
	}
	if len(p.Revealed) != 2 || !p.Revealed["mcq:1"] || !p.Revealed["notes:#0"] {
		t.Fatalf("revealed = %v", p.Revealed)
	}
	if _, ok := s.Selected["mcq:gone"]; !ok {
		t.Fatal("receiver changed")
	}
}

func TestParseKey(t *testing.T) {
	kind, item, ok := ParseKey("notes:a:b")
	if !ok || kind != bank.KindNote || item != "a:b" {
		t.Fatalf("got %q %q %v", kind, item, ok)
	}
	if _, _, ok := ParseKey("nocolon"); ok {
		t.Fatal("key without kind accepted")
	}
}
