package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// System tags an item with the body system it belongs to.
// Values outside the known set are kept verbatim; filtering is exact-match.
type System string

const (
	SystemRenal        System = "Renal"
	SystemReproductive System = "Reproductive"
)

// SelectorAll disables system filtering.
const SelectorAll = "All"

// Selectors lists the values offered by the system filter, in display order.
func Selectors() []string {
	return []string{SelectorAll, string(SystemRenal), string(SystemReproductive)}
}

// Label is the heading form of the system; an absent tag reads "Unknown".
func (s System) Label() string {
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// ItemID is the author-supplied identifier of an item. Content files use
// both numbers and strings for it, and may leave it out.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// Kind names one of the four collections.
type Kind string

const (
	KindMCQ     Kind = "mcq"
	KindSBA     Kind = "sba"
	KindProblem Kind = "problems"
	KindNote    Kind = "notes"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindMCQ, KindSBA, KindProblem, KindNote:
		return Kind(s), true
	}
	return "", false
}

type McqItem struct {
	ID            ItemID   `json:"id"`
	System        System   `json:"system"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`

	key string
}

type SbaItem struct {
	ID                   ItemID   `json:"id"`
	System               System   `json:"system"`
	Question             string   `json:"question"`
	Options              []string `json:"options"`
	CorrectAnswer        string   `json:"correct_answer"`
	ExplanationCorrect   string   `json:"explanation_correct"`
	ExplanationIncorrect string   `json:"explanation_incorrect"`

	key string
}

type ClinicalProblem struct {
	ID          ItemID   `json:"id"`
	System      System   `json:"system"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	KeyConcepts []string `json:"key_concepts"`

	key string
}

type StudyNote struct {
	ID      ItemID `json:"id"`
	System  System `json:"system"`
	Title   string `json:"title"`
	Content string `json:"content"`

	key string
}

// Question is the shape shared by MCQ and SBA items.
type Question interface {
	Kind() Kind
	Key() string
	Choices() []string
	Answer() string
}

func (q McqItem) Kind() Kind                { return KindMCQ }
func (q McqItem) Key() string               { return q.key }
func (q McqItem) Choices() []string         { return q.Options }
func (q McqItem) Answer() string            { return q.CorrectAnswer }
func (q McqItem) SystemTag() System         { return q.System }
func (q SbaItem) Kind() Kind                { return KindSBA }
func (q SbaItem) Key() string               { return q.key }
func (q SbaItem) Choices() []string         { return q.Options }
func (q SbaItem) Answer() string            { return q.CorrectAnswer }
func (q SbaItem) SystemTag() System         { return q.System }
func (p ClinicalProblem) Key() string       { return p.key }
func (p ClinicalProblem) SystemTag() System { return p.System }
func (n StudyNote) Key() string             { return n.key }
func (n StudyNote) SystemTag() System       { return n.System }

// HasKeyConcepts reports whether the problem lists any key concepts.
func (p ClinicalProblem) HasKeyConcepts() bool { return len(p.KeyConcepts) > 0 }

// itemKey is the interaction key: the author id, or the position when absent.
func itemKey(id ItemID, pos int) string {
	if id != "" {
		return string(id)
	}
	return "#" + strconv.Itoa(pos)
}
