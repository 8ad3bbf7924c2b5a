package storage

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestFSStorePutGet(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	key, err := s.Put("banks/questions.json", strings.NewReader(`{"mcq":[]}`))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "banks/questions.json" {
		t.Fatalf("key = %q", key)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != `{"mcq":[]}` {
		t.Fatalf("content = %q", b)
	}
}

func TestFSStoreMissingKey(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	_, err := s.Get("nope.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", err)
	}
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	s, _ := NewFSStore(t.TempDir())
	for _, k := range []string{"", "../secret", "a/../../b"} {
		if _, err := s.Get(k); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q): want ErrInvalidKey, got %v", k, err)
		}
	}
}
