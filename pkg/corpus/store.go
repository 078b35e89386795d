package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SetupSchema creates the corpus_documents table in the provided database.
// It is idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    doc_id INTEGER PRIMARY KEY,
    doc_name TEXT NOT NULL UNIQUE,
    doc_body TEXT NOT NULL
);
`
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create documents schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Document describes one stored corpus document.
type Document struct {
	Id     int
	Name   string
	Length int // Length of the body in characters.
}

// Store is a Source backed by a SQLite database of named documents. The
// corpus it produces is the concatenation of every document body in
// insertion order.
type Store struct {
	db            *sql.DB
	stmtUpsertDoc *sql.Stmt
	stmtListDocs  *sql.Stmt
	stmtRemoveDoc *sql.Stmt
	stmtGetBodies *sql.Stmt
	logger        *slog.Logger
}

// NewStore prepares the statements used by the Store. SetupSchema must have
// been called on db beforehand.
func NewStore(db *sql.DB) (*Store, error) {
	stmtUpsertDoc, err := db.Prepare(`INSERT INTO corpus_documents (doc_name, doc_body) VALUES (?, ?) ON CONFLICT(doc_name) DO UPDATE SET doc_body=excluded.doc_body RETURNING doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtListDocs, err := db.Prepare(`SELECT doc_id, doc_name, length(doc_body) FROM corpus_documents ORDER BY doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveDoc, err := db.Prepare(`DELETE FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetBodies, err := db.Prepare(`SELECT doc_body FROM corpus_documents ORDER BY doc_id;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:            db,
		stmtUpsertDoc: stmtUpsertDoc,
		stmtListDocs:  stmtListDocs,
		stmtRemoveDoc: stmtRemoveDoc,
		stmtGetBodies: stmtGetBodies,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases the prepared statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtUpsertDoc.Close()
	_ = s.stmtListDocs.Close()
	_ = s.stmtRemoveDoc.Close()
	_ = s.stmtGetBodies.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Name describes the store in logs.
func (s *Store) Name() string {
	return "sqlite:corpus_documents"
}

// AddDocument stores the text read from r under name, replacing the body of
// an existing document with the same name. It returns the document's ID.
func (s *Store) AddDocument(ctx context.Context, name string, r io.Reader) (int, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("could not read document '%s': %w", name, err)
	}

	var docID int
	if err = s.stmtUpsertDoc.QueryRowContext(ctx, name, string(body)).Scan(&docID); err != nil {
		return 0, fmt.Errorf("could not store document '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Document stored",
		slog.String("doc_name", name),
		slog.Int("doc_id", docID),
		slog.Int("bytes", len(body)),
	)
	return docID, nil
}

// Documents lists all stored documents in insertion order.
func (s *Store) Documents(ctx context.Context) ([]Document, error) {
	rows, err := s.stmtListDocs.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var docs []Document
	for rows.Next() {
		var doc Document
		if err = rows.Scan(&doc.Id, &doc.Name, &doc.Length); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// RemoveDocument deletes the named document. Removing a missing document is
// not an error.
func (s *Store) RemoveDocument(ctx context.Context, name string) error {
	res, err := s.stmtRemoveDoc.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document '%s': %w", name, err)
	}
	rowsAffected, _ := res.RowsAffected()

	s.logger.InfoContext(ctx, "Document removed",
		slog.String("doc_name", name),
		slog.Int64("rows_removed", rowsAffected),
	)
	return nil
}

// Open returns a reader that streams every document body in insertion order,
// one row at a time.
func (s *Store) Open(ctx context.Context) (io.ReadCloser, error) {
	rows, err := s.stmtGetBodies.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query corpus documents: %w", err)
	}
	return &rowsReader{rows: rows}, nil
}

// rowsReader adapts a result set of text bodies to io.Reader.
type rowsReader struct {
	rows    *sql.Rows
	current *strings.Reader
	done    bool
}

func (r *rowsReader) Read(p []byte) (int, error) {
	for {
		if r.current != nil && r.current.Len() > 0 {
			return r.current.Read(p)
		}
		if r.done {
			return 0, io.EOF
		}
		if !r.rows.Next() {
			r.done = true
			if err := r.rows.Err(); err != nil {
				return 0, fmt.Errorf("could not read corpus documents: %w", err)
			}
			return 0, io.EOF
		}
		var body string
		if err := r.rows.Scan(&body); err != nil {
			return 0, fmt.Errorf("could not scan corpus document: %w", err)
		}
		r.current = strings.NewReader(body)
	}
}

func (r *rowsReader) Close() error {
	return r.rows.Close()
}
