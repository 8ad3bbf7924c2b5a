package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:pathprep.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/pathprep?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// One schema serves both drivers: it only uses TEXT and BIGINT.
const schema = `
CREATE TABLE IF NOT EXISTS bank_documents (
  name TEXT PRIMARY KEY,
  document_json TEXT NOT NULL,
  imported_at BIGINT NOT NULL
);
`

// PutDocument stores (or replaces) a question document under name.
func PutDocument(ctx context.Context, db *sql.DB, name string, documentJSON []byte) error {
	_, err := db.ExecContext(ctx, `INSERT INTO bank_documents (name,document_json,imported_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (name) DO UPDATE SET document_json=EXCLUDED.document_json, imported_at=EXCLUDED.imported_at`,
		name, string(documentJSON), time.Now().Unix())
	return err
}
