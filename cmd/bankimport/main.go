// Command bankimport validates a question document and stores it where the
// server reads it from: the bank_documents table or the blob store.
package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/config"
	"github.com/mind-engage/pathology-prep/internal/db"
	"github.com/mind-engage/pathology-prep/internal/storage"
)

func main() {
	cfg := config.FromEnv()
	in := flag.String("in", "", "path to the question document (JSON)")
	to := flag.String("to", string(cfg.BankSource), "destination: fs|db")
	flag.Parse()
	if *in == "" {
		log.Fatal("-in is required")
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}
	qb, err := bank.Parse(bytes.NewReader(raw))
	if err != nil {
		log.Fatalf("%s: %v", *in, err)
	}
	c := qb.Counts()
	log.Printf("validated %s: mcq=%d sba=%d problems=%d notes=%d", *in, c.MCQ, c.SBA, c.Problems, c.Notes)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch config.BankSource(*to) {
	case config.BankSourceDB:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		if err := db.PutDocument(ctx, dbh, cfg.BankName, raw); err != nil {
			log.Fatalf("store document: %v", err)
		}
		log.Printf("stored as %q in %s", cfg.BankName, cfg.DBDriver)
	case config.BankSourceFS:
		fs, err := storage.NewFSStore(cfg.BankBasePath)
		if err != nil {
			log.Fatalf("blob store: %v", err)
		}
		key, err := fs.Put(cfg.BankKey, bytes.NewReader(raw))
		if err != nil {
			log.Fatalf("store document: %v", err)
		}
		log.Printf("stored as %s under %s", key, cfg.BankBasePath)
	default:
		log.Fatalf("unsupported destination %q", *to)
	}
}
