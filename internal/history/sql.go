package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"outbound-caller/pkg/utils"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS local_storage (
	storage_key   TEXT PRIMARY KEY,
	storage_value TEXT NOT NULL
)`

// SQLStorage stores values in a single local_storage table. It works with
// sqlite (modernc) and postgres (pgx stdlib).
type SQLStorage struct {
	db     *sql.DB
	driver string
}

// NewSQLStorage takes ownership of db and creates the table if needed.
func NewSQLStorage(ctx context.Context, db *sql.DB, driverName string) (*SQLStorage, error) {
	s := &SQLStorage{db: db, driver: driverName}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create local_storage table: %w", err)
	}
	return s, nil
}

func (s *SQLStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT storage_value FROM local_storage WHERE storage_key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLStorage) Set(ctx context.Context, key, value string) error {
	q := s.rebind(`INSERT INTO local_storage (storage_key, storage_value) VALUES (?, ?)
		ON CONFLICT (storage_key) DO UPDATE SET storage_value = excluded.storage_value`)
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM local_storage WHERE storage_key = ?`), key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Close() error { return s.db.Close() }

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStorage) rebind(q string) string {
	if s.driver != utils.DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
