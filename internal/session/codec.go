package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	CookieName = "pathprep_session"
	issuer     = "pathprep"

	// Browsers drop cookies over about 4096 bytes without telling anyone.
	maxTokenBytes  = 4000
	warnTokenBytes = 3500
)

var ErrSessionTooLarge = errors.New("session state too large for a cookie")

// Claims carries the state inside the signed session token.
type Claims struct {
	State State `json:"st"`
	jwt.RegisteredClaims
}

// Codec signs State into a compact token and back. Nothing is stored on
// the server; the token is the session.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec derives the HMAC key from secret.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), []byte(issuer), []byte("session state v1"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return &Codec{key: key, ttl: ttl, now: time.Now}, nil
}

func (c *Codec) Encode(s State) (string, error) {
	now := c.now()
	claims := &Claims{
		State: s,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.key)
}

func (c *Codec) Decode(tokenStr string) (State, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return State{}, err
	}
	if !token.Valid {
		return State{}, errors.New("invalid session token")
	}
	if _, err := ParsePage(string(claims.State.Page)); err != nil {
		return State{}, err
	}
	return claims.State, nil
}

// FromRequest returns the session carried by r, or a fresh one when the
// cookie is absent, tampered with or expired.
func (c *Codec) FromRequest(r *http.Request) State {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return New()
	}
	s, err := c.Decode(ck.Value)
	if err != nil {
		return New()
	}
	return s
}

// Write sets the session cookie on w. A token the browser would discard
// fails with ErrSessionTooLarge instead.
func (c *Codec) Write(w http.ResponseWriter, s State) error {
	tok, err := c.Encode(s)
	if err != nil {
		return err
	}
	switch n := len(tok); {
	case n > maxTokenBytes:
		return fmt.Errorf("%w: %d bytes", ErrSessionTooLarge, n)
	case n > warnTokenBytes:
		log.Printf("session token is %d bytes, close to the cookie limit", n)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl / time.Second),
	})
	return nil
}
