package storage

import (
	"context"
	"sync"

	"memberpass.app/cloud/models"
)

// Store is the membership store: a strongly consistent key-value map from
// identity key to the latest membership record. Writes replace whatever was
// there; concurrent writers race with last-write-wins, which the activation
// flow accepts. A miss is (nil, nil), not an error.
type Store interface {
	SaveMembership(ctx context.Context, record *models.MembershipRecord) error
	GetMembership(ctx context.Context, identityKey string) (*models.MembershipRecord, error)

	Close() error
}

// MemoryStore keeps records in process memory. Used by tests and local
// development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.MembershipRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.MembershipRecord),
	}
}

func (m *MemoryStore) SaveMembership(ctx context.Context, record *models.MembershipRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.IdentityKey] = *record
	return nil
}

func (m *MemoryStore) GetMembership(ctx context.Context, identityKey string) (*models.MembershipRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.records[identityKey]
	if !exists {
		return nil, nil
	}
	return &record, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

func (m *MemoryStore) Close() error {
	return nil
}
