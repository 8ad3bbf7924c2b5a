package config

import (
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// BankSource selects where the question document is read from.
type BankSource string

const (
	BankSourceFS BankSource = "fs"
	BankSourceDB BankSource = "db"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	BankSource   BankSource
	BankBasePath string // fs: directory holding the document
	BankKey      string // fs: document file name
	BankName     string // db: row name in bank_documents

	DBDriver string
	DBDSN    string

	SessionSecret string
	SessionTTL    time.Duration

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		BankSource:         BankSource(envOr("BANK_SOURCE", string(BankSourceFS))),
		BankBasePath:       envOr("BANK_BASE_PATH", "./data"),
		BankKey:            envOr("BANK_KEY", "questions_database.json"),
		BankName:           envOr("BANK_NAME", "default"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		SessionSecret:      envOr("SESSION_SECRET", "pathprep-dev-session-key"),
		SessionTTL:         envDuration("SESSION_TTL", 12*time.Hour),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://pathprep.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:8080"),
	}
}

// CORSOrigins returns the allowed origins for the current mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
