package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/service"
)

// Store is a DocumentStore backed by the documents table.
// Fields are stored as a JSON object.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

var _ service.DocumentStore = (*Store)(nil)

// Add inserts a document under a new random ID.
func (s *Store) Add(ctx context.Context, collection string, fields service.Fields) (string, error) {
	data, err := encodeFields(fields)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := timestamp()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, fields, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, data, now, now)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	s.log.Debug("document added", "collection", collection, "id", id)
	return id, nil
}

// GetAll returns documents in insertion order.
func (s *Store) GetAll(ctx context.Context, collection string) ([]service.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields FROM documents WHERE collection = ? ORDER BY rowid`, collection)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []service.Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		fields, err := decodeFields(data)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		docs = append(docs, service.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return docs, nil
}

// GetByID returns *service.NotFoundError for unknown IDs.
func (s *Store) GetByID(ctx context.Context, collection, id string) (service.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Document{}, &service.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return service.Document{}, fmt.Errorf("query document: %w", err)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return service.Document{}, fmt.Errorf("document %s: %w", id, err)
	}
	return service.Document{ID: id, Fields: fields}, nil
}

// Update merges fields into the stored document inside a transaction.
func (s *Store) Update(ctx context.Context, collection, id string, fields service.Fields) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return &service.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return fmt.Errorf("query document: %w", err)
	}

	merged, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	out, err := encodeFields(merged)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET fields = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		out, timestamp(), collection, id)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	s.log.Debug("document updated", "collection", collection, "id", id, "fields", len(fields))
	return nil
}

// Delete removes the document. Unknown IDs are a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, _ := res.RowsAffected()
	s.log.Debug("document deleted", "collection", collection, "id", id, "rows", n)
	return nil
}

func encodeFields(fields service.Fields) (string, error) {
	if fields == nil {
		fields = service.Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields: %w", err)
	}
	return string(data), nil
}

func decodeFields(data string) (service.Fields, error) {
	fields := service.Fields{}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

// timestamp formats the current time for created_at and updated_at.
func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z")
}
