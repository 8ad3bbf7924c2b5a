package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/pathology-prep/internal/storage"
)

// BlobSource reads the document from a blob store key.
type BlobSource struct {
	Store storage.BlobStore
	Key   string
}

func (s BlobSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.Get(s.Key)
}

func (s BlobSource) String() string { return "blob:" + s.Key }

// ErrDocumentNotFound is returned when no stored document has the requested name.
var ErrDocumentNotFound = errors.New("question document not found")

// SQLSource reads the document stored as JSON text in bank_documents.
type SQLSource struct {
	DB   *sql.DB
	Name string
}

func (s SQLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	var doc string
	err := s.DB.QueryRowContext(ctx,
		`SELECT document_json FROM bank_documents WHERE name=$1`, s.Name).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrDocumentNotFound, s.Name)
		}
		return nil, err
	}
	return io.NopCloser(strings.NewReader(doc)), nil
}

func (s SQLSource) String() string { return "db:" + s.Name }
