package service_test

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/saadjs/fitweek/internal/db"
	"github.com/saadjs/fitweek/internal/service"
	"github.com/saadjs/fitweek/internal/store"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitweek.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

func newTestKV(t *testing.T) *store.SQLiteKV {
	t.Helper()
	return store.NewSQLiteKV(newTestDB(t))
}

func newReadyPlanner(t *testing.T, kv store.KV, opts ...service.Option) *service.Planner {
	t.Helper()
	p := service.NewPlanner(kv, opts...)
	require.NoError(t, p.Init())
	return p
}

// flakyKV fails writes on demand. With breakBatch, PutMany sends an extra
// invalid record so the real store fails after writing the others.
type flakyKV struct {
	store.KV
	failPuts   bool
	breakBatch bool
}

func (f *flakyKV) Put(key string, value []byte) error {
	if f.failPuts {
		return errors.New("disk full")
	}
	return f.KV.Put(key, value)
}

func (f *flakyKV) PutMany(records ...store.Record) error {
	if f.failPuts {
		return errors.New("disk full")
	}
	if f.breakBatch {
		records = append(records, store.Record{Key: " ", Value: []byte(`null`)})
	}
	return f.KV.PutMany(records...)
}

func intPtr(v int) *int {
	return &v
}
