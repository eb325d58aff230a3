package utils

import (
	"testing"
	"time"
)

func TestSQLPoolDefaults_SQLiteUsesOneConnection(t *testing.T) {
	p := SQLPoolConfig{MaxOpenConns: 10, MaxIdleConns: 10}.withDefaults(DriverSQLite)
	if p.MaxOpenConns != 1 || p.MaxIdleConns != 1 {
		t.Fatalf("expected a single sqlite connection, got open=%d idle=%d", p.MaxOpenConns, p.MaxIdleConns)
	}
	if p.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected ping timeout %v", p.PingTimeout)
	}
}

func TestSQLPoolDefaults_Postgres(t *testing.T) {
	p := SQLPoolConfig{MaxOpenConns: 10}.withDefaults(DriverPostgres)
	if p.MaxOpenConns != 10 || p.MaxIdleConns != 10 {
		t.Fatalf("unexpected pool %+v", p)
	}
}

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions(RedisConfig{URL: "redis://:secret@localhost:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Fatalf("unexpected options addr=%s db=%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 4 {
		t.Fatalf("expected default pool size, got %d", opts.PoolSize)
	}
}

func TestRedisOptions_Invalid(t *testing.T) {
	if _, err := RedisOptions(RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := RedisOptions(RedisConfig{URL: "http://localhost"}); err == nil {
		t.Fatalf("expected error for non-redis scheme")
	}
}
