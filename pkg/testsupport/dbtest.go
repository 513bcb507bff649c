package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var memoryDBCounter atomic.Int64

// NewSQLiteMemoryDB opens a private in-memory SQLite database. Each call gets
// its own database so parallel tests do not share rows.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("file:legalnotices_%d?mode=memory&cache=shared", memoryDBCounter.Add(1))
	sqlDB, err := sql.Open("sqlite3", name)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return sqlDB, nil
}

// NewBunDB wraps a fresh in-memory SQLite database with bun and closes it when
// the test ends.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
