// Package ingest feeds documents into the index: a Postgres-backed document
// source, the rebuilder that turns the collection into a fresh frozen
// segment, and the Kafka consumer that triggers rebuilds on ingest events.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/1ou/danton/internal/index"
	apperrors "github.com/1ou/danton/pkg/errors"
	"github.com/1ou/danton/pkg/postgres"
)

// DocumentSource loads the full document collection for a rebuild.
type DocumentSource interface {
	Load(ctx context.Context) ([]index.Document, error)
}

// PostgresSource stores and loads documents from the documents table.
type PostgresSource struct {
	client *postgres.Client
}

// NewPostgresSource wraps a Postgres client as a DocumentSource.
func NewPostgresSource(client *postgres.Client) *PostgresSource {
	return &PostgresSource{client: client}
}

// Load reads the whole collection ordered by id.
func (s *PostgresSource) Load(ctx context.Context) ([]index.Document, error) {
	rows, err := s.client.DB.QueryContext(ctx,
		`SELECT id, text FROM documents ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []index.Document
	for rows.Next() {
		var doc index.Document
		if err := rows.Scan(&doc.ID, &doc.Text); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}

// Insert stores a new document. A duplicate id fails with
// ErrDocumentExists; the row is never silently replaced.
func (s *PostgresSource) Insert(ctx context.Context, doc index.Document) error {
	if doc.ID <= 0 {
		return fmt.Errorf("document id %d: %w", doc.ID, apperrors.ErrInvalidInput)
	}
	_, err := s.client.DB.ExecContext(ctx,
		`INSERT INTO documents (id, text) VALUES ($1, $2)`,
		doc.ID, doc.Text,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("document %d: %w", doc.ID, apperrors.ErrDocumentExists)
		}
		return fmt.Errorf("inserting document %d: %w", doc.ID, err)
	}
	return nil
}

// Ping verifies the backing database connection.
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.client.DB.PingContext(ctx)
}
