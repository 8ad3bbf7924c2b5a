package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// DataLoadError reports a question document that could not be loaded.
// The bank is all-or-nothing: one bad item rejects the whole document.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load question bank %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Source yields the raw question document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// document mirrors the on-disk shape authored by content writers.
type document struct {
	MCQ        []McqItem         `json:"mcq"`
	SBA        []SbaItem         `json:"sba"`
	Problems   []ClinicalProblem `json:"problems"`
	ShortNotes []StudyNote       `json:"shortNotes"`
}

// Bank is the immutable, loaded set of all collections.
type Bank struct {
	mcq      []McqItem
	sba      []SbaItem
	problems []ClinicalProblem
	notes    []StudyNote
}

// Counts holds per-collection sizes.
type Counts struct {
	MCQ      int `json:"mcq"`
	SBA      int `json:"sba"`
	Problems int `json:"problems"`
	Notes    int `json:"notes"`
}

// Load reads and parses the whole document from src.
func Load(ctx context.Context, src Source) (*Bank, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &DataLoadError{Source: src.String(), Err: err}
	}
	defer rc.Close()
	b, err := Parse(rc)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			dle.Source = src.String()
		}
		return nil, err
	}
	return b, nil
}

// Parse decodes a question document.
func Parse(r io.Reader) (*Bank, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataLoadError{Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, &DataLoadError{Err: errors.New("document must be a JSON object")}
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &DataLoadError{Err: err}
	}
	b, err := build(doc)
	if err != nil {
		return nil, &DataLoadError{Err: err}
	}
	return b, nil
}

func build(doc document) (*Bank, error) {
	b := &Bank{
		mcq:      make([]McqItem, len(doc.MCQ)),
		sba:      make([]SbaItem, len(doc.SBA)),
		problems: make([]ClinicalProblem, len(doc.Problems)),
		notes:    make([]StudyNote, len(doc.ShortNotes)),
	}

	ids := newIDSet("mcq")
	for i, q := range doc.MCQ {
		key, err := ids.add(q.ID, i)
		if err != nil {
			return nil, err
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("mcq[%d]: need at least 2 options, got %d", i, len(q.Options))
		}
		q.key = key
		b.mcq[i] = q
	}

	ids = newIDSet("sba")
	for i, q := range doc.SBA {
		key, err := ids.add(q.ID, i)
		if err != nil {
			return nil, err
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("sba[%d]: need at least 2 options, got %d", i, len(q.Options))
		}
		q.key = key
		b.sba[i] = q
	}

	ids = newIDSet("problems")
	for i, p := range doc.Problems {
		key, err := ids.add(p.ID, i)
		if err != nil {
			return nil, err
		}
		if p.KeyConcepts == nil {
			p.KeyConcepts = []string{}
		}
		p.key = key
		b.problems[i] = p
	}

	ids = newIDSet("shortNotes")
	for i, n := range doc.ShortNotes {
		key, err := ids.add(n.ID, i)
		if err != nil {
			return nil, err
		}
		n.key = key
		b.notes[i] = n
	}
	return b, nil
}

// idSet tracks interaction keys within one collection. Author ids and
// positional fallbacks share the key space, so a clash between them is
// rejected like a duplicate id.
type idSet struct {
	collection string
	seen       map[string]int
}

func newIDSet(collection string) *idSet {
	return &idSet{collection: collection, seen: map[string]int{}}
}

func (s *idSet) add(id ItemID, pos int) (string, error) {
	key := itemKey(id, pos)
	if prev, ok := s.seen[key]; ok {
		if id == "" {
			return "", fmt.Errorf("%s[%d]: positional key %q clashes with the id of item %d", s.collection, pos, key, prev)
		}
		return "", fmt.Errorf("%s[%d]: duplicate id %q (first at %d)", s.collection, pos, id, prev)
	}
	s.seen[key] = pos
	return key, nil
}

func (b *Bank) MCQ() []McqItem              { return append([]McqItem(nil), b.mcq...) }
func (b *Bank) SBA() []SbaItem              { return append([]SbaItem(nil), b.sba...) }
func (b *Bank) Problems() []ClinicalProblem { return append([]ClinicalProblem(nil), b.problems...) }
func (b *Bank) Notes() []StudyNote          { return append([]StudyNote(nil), b.notes...) }

func (b *Bank) Counts() Counts {
	return Counts{MCQ: len(b.mcq), SBA: len(b.sba), Problems: len(b.problems), Notes: len(b.notes)}
}

func (b *Bank) MCQByKey(key string) (McqItem, bool)             { return findByKey(b.mcq, key) }
func (b *Bank) SBAByKey(key string) (SbaItem, bool)             { return findByKey(b.sba, key) }
func (b *Bank) ProblemByKey(key string) (ClinicalProblem, bool) { return findByKey(b.problems, key) }
func (b *Bank) NoteByKey(key string) (StudyNote, bool)          { return findByKey(b.notes, key) }

// QuestionByKey looks up a gradable item of the given kind.
func (b *Bank) QuestionByKey(kind Kind, key string) (Question, bool) {
	switch kind {
	case KindMCQ:
		if q, ok := b.MCQByKey(key); ok {
			return q, true
		}
	case KindSBA:
		if q, ok := b.SBAByKey(key); ok {
			return q, true
		}
	}
	return nil, false
}

// HasKey reports whether an item of the given kind carries key.
func (b *Bank) HasKey(kind Kind, key string) bool {
	switch kind {
	case KindMCQ:
		_, ok := b.MCQByKey(key)
		return ok
	case KindSBA:
		_, ok := b.SBAByKey(key)
		return ok
	case KindProblem:
		_, ok := b.ProblemByKey(key)
		return ok
	case KindNote:
		_, ok := b.NoteByKey(key)
		return ok
	}
	return false
}

func findByKey[T interface{ Key() string }](items []T, key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}
	for _, it := range items {
		if it.Key() == key {
			return it, true
		}
	}
	return zero, false
}

// Cache holds the process-wide bank. The first Get loads it; the result,
// including a load error, is kept for the life of the process.
type Cache struct {
	src  Source
	once sync.Once
	bank atomic.Pointer[Bank]
	err  error
}

func NewCache(src Source) *Cache { return &Cache{src: src} }

func (c *Cache) Get(ctx context.Context) (*Bank, error) {
	c.once.Do(func() {
		b, err := Load(ctx, c.src)
		if err != nil {
			c.err = err
			return
		}
		c.bank.Store(b)
	})
	return c.bank.Load(), c.err
}

// Loaded reports whether a successful load has completed.
func (c *Cache) Loaded() bool { return c.bank.Load() != nil }
