package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCodecRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	s, _ := New().Navigate(PageMCQ)
	s, _ = s.SelectSystem(PageMCQ, "Reproductive")
	s = s.Submit("mcq:2", 1).SetShowAnswers(true)

	tok, err := c.Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(tok)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("got %+v, want %+v", got, s)
	}
}

func TestCodecRejectsForeignKey(t *testing.T) {
	tok, _ := newTestCodec(t).Encode(New())
	other, _ := NewCodec("another-secret", time.Hour)
	if _, err := other.Decode(tok); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestCodecRejectsExpired(t *testing.T) {
	c := newTestCodec(t)
	c.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _ := c.Encode(New())
	c.now = time.Now
	if _, err := c.Decode(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestNewCodecNeedsSecret(t *testing.T) {
	if _, err := NewCodec("", time.Hour); err == nil {
		t.Fatal("empty secret accepted")
	}
}

func TestCookieRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	s, _ := New().Navigate(PageNotes)

	rec := httptest.NewRecorder()
	if err := c.Write(rec, s); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	if got := c.FromRequest(req); got.Page != PageNotes {
		t.Fatalf("page = %q", got.Page)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	if got := c.FromRequest(bad); got.Page != PageHome {
		t.Fatalf("tampered cookie should reset, got %q", got.Page)
	}
}

func TestWriteRejectsOversizedState(t *testing.T) {
	c := newTestCodec(t)
	s := New()
	for i := 0; i < 400; i++ {
		s = s.Submit(Key("mcq", "question-"+strconv.Itoa(i)), i%4)
	}
	rec := httptest.NewRecorder()
	err := c.Write(rec, s)
	if !errors.Is(err, ErrSessionTooLarge) {
		t.Fatalf("want ErrSessionTooLarge, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("oversized cookie was set")
	}
}
