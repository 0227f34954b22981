package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"memberpass.app/cloud/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists memberships as JSON blobs keyed by (namespace,
// identity key). INSERT OR REPLACE gives the overwrite semantics the ingest
// path requires.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteStore(path, namespace string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:        db,
		namespace: namespace,
	}

	if err := store.migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
      CREATE TABLE IF NOT EXISTS memberships (
          namespace TEXT NOT NULL,
          identity_key TEXT NOT NULL,
          record TEXT NOT NULL,
          updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
          PRIMARY KEY (namespace, identity_key)
      );
      `

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) SaveMembership(ctx context.Context, record *models.MembershipRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	query := `INSERT OR REPLACE INTO memberships (namespace, identity_key, record, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`

	_, err = s.db.ExecContext(ctx, query, s.namespace, record.IdentityKey, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}

	return nil
}

func (s *SQLiteStore) GetMembership(ctx context.Context, identityKey string) (*models.MembershipRecord, error) {
	query := `SELECT record FROM memberships WHERE namespace = ? AND identity_key = ?`

	var payload string
	err := s.db.QueryRowContext(ctx, query, s.namespace, identityKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record models.MembershipRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("failed to parse stored record: %w", err)
	}

	return &record, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
