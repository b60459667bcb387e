// Package pgstore backs the key-value store with Postgres, an additive
// alternative to the in-memory default for deployments that want the
// written values to survive a node restart.
package pgstore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS paxos_kv (
	key   TEXT PRIMARY KEY,
	value BYTEA NOT NULL
)`

type Store struct {
	db *sql.DB
}

// Open connects to dsn and ensures the backing table exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres store: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate postgres store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(key string) ([]byte, bool) {
	var value []byte
	if err := s.db.QueryRow(`SELECT value FROM paxos_kv WHERE key = $1`, key).Scan(&value); err != nil {
		return nil, false
	}
	return value, true
}

func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO paxos_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

func (s *Store) Close() error { return s.db.Close() }
