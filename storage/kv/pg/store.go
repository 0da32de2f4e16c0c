package pgkv

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key   text PRIMARY KEY,
    value bytea NOT NULL
)`

// Store keeps every key in a single two-column table. Row-level upserts give
// the same per-key atomicity as the file backend.
type Store struct {
	db *sqlx.DB
}

var _ core.Store = (*Store)(nil)

func Open(databaseURL string) (*Store, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening DB")
	}
	if err := ping(db); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "ensuring kv_store table")
	}
	return &Store{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(key string) ([]byte, bool, error) {
	var val []byte
	err := s.db.Get(&val, "SELECT value FROM kv_store WHERE key = $1", key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "reading %s", key)
	}
	return val, true, nil
}

func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv_store (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	return errors.Wrapf(err, "writing %s", key)
}

func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv_store WHERE key = $1", key)
	return errors.Wrapf(err, "deleting %s", key)
}

func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM kv_store")
	return errors.Wrap(err, "clearing kv_store")
}
