package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	api "github.com/mind-engage/pathology-prep/internal/api/http"
	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/config"
	"github.com/mind-engage/pathology-prep/internal/db"
	"github.com/mind-engage/pathology-prep/internal/grading"
	"github.com/mind-engage/pathology-prep/internal/session"
	"github.com/mind-engage/pathology-prep/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- Question bank (loaded once, fatal on failure) ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	src, closeSrc, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatalf("bank source: %v", err)
	}
	defer closeSrc()

	cache := bank.NewCache(src)
	qb, err := cache.Get(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}
	c := qb.Counts()
	log.Printf("bank loaded from %s: mcq=%d sba=%d problems=%d notes=%d", src, c.MCQ, c.SBA, c.Problems, c.Notes)

	codec, err := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("session codec: %v", err)
	}
	grader := grading.NewGrader()

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", api.PageHandler(qb, codec))
	r.Route("/session", func(sr chi.Router) {
		api.MountSession(sr, qb, codec)
	})
	r.Route("/api/v1", func(ar chi.Router) {
		ar.Get("/session", api.SessionStateHandler(codec))
		ar.Get("/view", api.ViewHandler(qb, codec))
		api.MountAPI(ar, qb, grader)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !cache.Loaded() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, bank=%s)", cfg.HTTPAddr, cfg.Mode, cfg.BankSource)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// openSource builds the configured bank source. The returned func releases
// whatever the source holds open.
func openSource(ctx context.Context, cfg config.Config) (bank.Source, func(), error) {
	switch cfg.BankSource {
	case config.BankSourceFS:
		fs, err := storage.NewFSStore(cfg.BankBasePath)
		if err != nil {
			return nil, nil, err
		}
		return bank.BlobSource{Store: fs, Key: cfg.BankKey}, func() {}, nil
	case config.BankSourceDB:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db open failed: %w", err)
		}
		return bank.SQLSource{DB: dbh, Name: cfg.BankName}, func() { closeDB(dbh) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported BANK_SOURCE %q", cfg.BankSource)
	}
}

func closeDB(dbh *sql.DB) {
	if err := dbh.Close(); err != nil {
		log.Printf("db close: %v", err)
	}
}
