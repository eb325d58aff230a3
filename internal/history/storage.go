package history

import (
	"context"
	"fmt"
	"sync"

	"outbound-caller/internal/config"
	"outbound-caller/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Storage is a small key/value store holding serialized values, the
// dashboard's equivalent of browser local storage.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// OpenStorage opens the backend selected by cfg.
func OpenStorage(ctx context.Context, cfg config.HistoryConfig) (Storage, error) {
	switch cfg.Driver {
	case config.HistoryDriverMemory:
		return NewMemoryStorage(), nil
	case config.HistoryDriverSQLite:
		db, err := utils.OpenSQL(ctx, utils.DriverSQLite, cfg.DSN, utils.SQLPoolConfig{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite history: %w", err)
		}
		return NewSQLStorage(ctx, db, utils.DriverSQLite)
	case config.HistoryDriverPostgres:
		db, err := utils.OpenSQL(ctx, utils.DriverPostgres, cfg.DSN, utils.SQLPoolConfig{})
		if err != nil {
			return nil, fmt.Errorf("open postgres history: %w", err)
		}
		return NewSQLStorage(ctx, db, utils.DriverPostgres)
	case config.HistoryDriverRedis:
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{URL: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("open redis history: %w", err)
		}
		return NewRedisStorage(rdb, DefaultRedisPrefix), nil
	default:
		return nil, fmt.Errorf("history: unknown driver %q", cfg.Driver)
	}
}

// MemoryStorage keeps values in process memory. Used by tests and by the
// "memory" driver when nothing should outlive the process.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStorage) Close() error { return nil }
