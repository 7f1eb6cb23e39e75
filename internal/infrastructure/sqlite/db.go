// Package sqlite is the SQLite-backed thing store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/thingdock/internal/log"
)

// DB is an open database with the schema migrated to the latest version.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path and migrates it.
// The parent directory is created with 0700 permissions. An existing file
// is first snapshotted to path+".bak".
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	_, statErr := os.Stat(path)
	existed := statErr == nil

	conn, err := sql.Open("sqlite3", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(existed); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatStore, "database opened", "path", path, "existed", existed)
	return db, nil
}

// Connection returns the underlying connection pool.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// ThingRepository returns a cached thing.Store over this database.
func (db *DB) ThingRepository() *ThingRepository {
	return NewCachedThingRepository(db)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) backup() error {
	bak := db.path + ".bak"
	if err := os.Remove(bak); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old backup: %w", err)
	}
	if _, err := db.conn.Exec("VACUUM INTO ?", bak); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	log.Info(log.CatStore, "database backed up before migration", "backup", bak)
	return nil
}
