package session

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/namecard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/namecard/internal/dbx"
)

// Backend is durable storage for the persisted session keys.
// Load returns only the keys that exist.
type Backend interface {
	Load(ctx context.Context, keys []string) (map[string][]byte, error)
	Save(ctx context.Context, keys []string, values map[string][]byte) error
	Remove(ctx context.Context, keys []string) error
}

// SQLBackend keeps the keys in the metadata table and writes them in one
// transaction.
type SQLBackend struct {
	db *sql.DB
}

func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Load(ctx context.Context, keys []string) (map[string][]byte, error) {
	repo := metadata.NewSQLiteRepository(b.db)
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, err := repo.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[k] = v
		}
	}
	return out, nil
}

func (b *SQLBackend) Save(ctx context.Context, keys []string, values map[string][]byte) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := repo.Set(ctx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *SQLBackend) Remove(ctx context.Context, keys []string) error {
	return metadata.NewSQLiteRepository(b.db).DeleteKeys(ctx, keys...)
}

// MemoryBackend is a Backend that lives only as long as the process.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string][]byte{}}
}

func (b *MemoryBackend) Load(_ context.Context, keys []string) (map[string][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := b.data[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, keys []string, values map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		b.data[k] = append([]byte(nil), values[k]...)
	}
	return nil
}

func (b *MemoryBackend) Remove(_ context.Context, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.data, k)
	}
	return nil
}

// Keys reports which keys are currently stored.
func (b *MemoryBackend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.data))
	for k := range b.data {
		out = append(out, k)
	}
	return out
}
