package bank_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/mind-engage/pathology-prep/internal/bank"
	"github.com/mind-engage/pathology-prep/internal/db"
)

func TestSQLSource(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:sqlsource?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbh.Close()

	doc, err := os.ReadFile("testdata/questions.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.PutDocument(ctx, dbh, "default", doc); err != nil {
		t.Fatalf("put document: %v", err)
	}
	// second put replaces in place
	if err := db.PutDocument(ctx, dbh, "default", doc); err != nil {
		t.Fatalf("re-put document: %v", err)
	}

	b, err := bank.Load(ctx, bank.SQLSource{DB: dbh, Name: "default"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Counts(); got.MCQ != 3 || got.Notes != 2 {
		t.Fatalf("counts = %+v", got)
	}

	_, err = bank.Load(ctx, bank.SQLSource{DB: dbh, Name: "other"})
	if !errors.Is(err, bank.ErrDocumentNotFound) {
		t.Fatalf("want ErrDocumentNotFound, got %v", err)
	}
}
