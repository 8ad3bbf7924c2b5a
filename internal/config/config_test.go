package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "BANK_SOURCE", "BANK_KEY", "SESSION_TTL", "CORS_ORIGINS_OFFLINE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.BankSource != BankSourceFS {
		t.Fatalf("defaults = %+v", c)
	}
	if c.BankKey != "questions_database.json" || c.SessionTTL != 12*time.Hour {
		t.Fatalf("defaults = %+v", c)
	}
	if !reflect.DeepEqual(c.CORSOrigins(), []string{"http://localhost:3000", "http://localhost:8080"}) {
		t.Fatalf("offline origins = %v", c.CORSOrigins())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("BANK_SOURCE", "db")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	c := FromEnv()
	if c.BankSource != BankSourceDB || c.SessionTTL != 30*time.Minute {
		t.Fatalf("overrides = %+v", c)
	}
	if !reflect.DeepEqual(c.CORSOrigins(), []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("online origins = %v", c.CORSOrigins())
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	if got := FromEnv().SessionTTL; got != 12*time.Hour {
		t.Fatalf("ttl = %v", got)
	}
}
