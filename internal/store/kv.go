package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// KV is a durable record store. PutMany writes all records or none.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	PutMany(records ...Record) error
}

type Record struct {
	Key   string
	Value []byte
}

type RecordInfo struct {
	Key        string    `json:"key"`
	SizeBytes  int       `json:"size_bytes"`
	WriteCount int       `json:"write_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SQLiteKV struct {
	db *sql.DB
}

func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

func (s *SQLiteKV) Get(key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("record key is required")
	}
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get record %q: %w", key, err)
	}
	return []byte(value), true, nil
}

const upsertRecord = `
INSERT INTO kv_records(key, value, updated_at, write_count)
VALUES(?, ?, CURRENT_TIMESTAMP, 1)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at, write_count=kv_records.write_count + 1
`

func (s *SQLiteKV) Put(key string, value []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("record key is required")
	}
	if _, err := s.db.Exec(upsertRecord, key, string(value)); err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) PutMany(records ...Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin record batch: %w", err)
	}
	for _, r := range records {
		key := strings.TrimSpace(r.Key)
		if key == "" {
			_ = tx.Rollback()
			return fmt.Errorf("record key is required")
		}
		if _, err := tx.Exec(upsertRecord, key, string(r.Value)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("put record %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record batch: %w", err)
	}
	return nil
}

func (s *SQLiteKV) List() ([]RecordInfo, error) {
	rows, err := s.db.Query(`SELECT key, LENGTH(value), write_count, updated_at FROM kv_records ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := make([]RecordInfo, 0)
	for rows.Next() {
		var info RecordInfo
		if err := rows.Scan(&info.Key, &info.SizeBytes, &info.WriteCount, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Encode serializes value as the JSON record stored under key.
func Encode(key string, value any) (Record, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return Record{}, fmt.Errorf("encode record %q: %w", key, err)
	}
	return Record{Key: key, Value: b}, nil
}

// Save serializes value as JSON and stores it under key.
func Save(kv KV, key string, value any) error {
	r, err := Encode(key, value)
	if err != nil {
		return err
	}
	return kv.Put(r.Key, r.Value)
}
