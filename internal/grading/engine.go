package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/pathology-prep/internal/bank"
)

// ErrUnsupportedKind is returned for items that cannot be answered.
var ErrUnsupportedKind = errors.New("item kind cannot be evaluated")

// Verdict is the outcome of answering one question.
type Verdict struct {
	Kind     bank.Kind `json:"kind"`
	Correct  bool      `json:"correct"`
	Selected string    `json:"selected"`
	// CorrectAnswer is set only when the selection was wrong.
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation"`
	// WhyOthersWrong is set only for a wrong SBA answer.
	WhyOthersWrong string `json:"why_others_wrong,omitempty"`
}

// TwoPart reports whether the verdict carries separate "why correct" and
// "why others are incorrect" sections. That holds for every wrong SBA
// answer, even when the item has no explanation_incorrect text.
func (v Verdict) TwoPart() bool { return v.Kind == bank.KindSBA && !v.Correct }

// Detail joins the explanation sections for display.
func (v Verdict) Detail() string {
	if !v.TwoPart() {
		return v.Explanation
	}
	var sb strings.Builder
	sb.WriteString("Why this is correct: ")
	sb.WriteString(v.Explanation)
	sb.WriteString("\n\nWhy others are incorrect: ")
	sb.WriteString(v.WhyOthersWrong)
	return sb.String()
}

// Strategy attaches explanation text to a judged verdict.
type Strategy interface {
	Explain(q bank.Question, v Verdict) Verdict
}

type mcqStrategy struct{}

func (mcqStrategy) Explain(q bank.Question, v Verdict) Verdict {
	var item bank.McqItem
	switch it := q.(type) {
	case bank.McqItem:
		item = it
	case *bank.McqItem:
		item = *it
	}
	if !v.Correct {
		v.CorrectAnswer = item.CorrectAnswer
	}
	v.Explanation = item.Explanation
	return v
}

type sbaStrategy struct{}

func (sbaStrategy) Explain(q bank.Question, v Verdict) Verdict {
	var item bank.SbaItem
	switch it := q.(type) {
	case bank.SbaItem:
		item = it
	case *bank.SbaItem:
		item = *it
	}
	v.Explanation = item.ExplanationCorrect
	if !v.Correct {
		v.CorrectAnswer = item.CorrectAnswer
		v.WhyOthersWrong = item.ExplanationIncorrect
	}
	return v
}

// Grader routes by question kind to the correct Strategy.
type Grader struct {
	strategies map[bank.Kind]Strategy
}

// NewGrader installs the MCQ and SBA strategies.
func NewGrader() *Grader {
	return &Grader{strategies: map[bank.Kind]Strategy{
		bank.KindMCQ: mcqStrategy{},
		bank.KindSBA: sbaStrategy{},
	}}
}

var defaultGrader = NewGrader()

// Evaluate judges selected against q using the default strategies.
func Evaluate(q bank.Question, selected int) (Verdict, error) {
	return defaultGrader.Evaluate(q, selected)
}

// Evaluate judges the option at index selected. An index outside the
// item's options fails with *InvalidSelectionError rather than producing
// a label that matches nothing.
func (g *Grader) Evaluate(q bank.Question, selected int) (Verdict, error) {
	s, ok := g.strategies[q.Kind()]
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, q.Kind())
	}
	n := len(q.Choices())
	if selected < 0 || selected >= n {
		return Verdict{}, &InvalidSelectionError{Index: selected, Options: n}
	}
	label, err := LetterAt(selected)
	if err != nil {
		return Verdict{}, err
	}
	v := Verdict{Kind: q.Kind(), Selected: label, Correct: label == q.Answer()}
	return s.Explain(q, v), nil
}

// EvaluateByKey looks the question up in b and evaluates it.
// found is false when no item of that kind carries key.
func (g *Grader) EvaluateByKey(b *bank.Bank, kind bank.Kind, key string, selected int) (v Verdict, found bool, err error) {
	q, ok := b.QuestionByKey(kind, key)
	if !ok {
		return Verdict{}, false, nil
	}
	v, err = g.Evaluate(q, selected)
	return v, true, err
}
