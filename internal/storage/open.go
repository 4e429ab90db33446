package storage

import (
	"path/filepath"
)

// Backend bundles the tree and key-value stores for one data directory.
type Backend struct {
	Tree Storage
	KV   KeyValue

	close func() error
}

// Close releases any resources held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open opens the backend selected by cfg.
//
// The JSON backend keeps the tree in bookmarks.json and settings in
// state.json. The SQLite backend keeps both in bookmarks.db.
func Open(cfg Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendSQLite:
		db, err := NewSQLiteStorage(filepath.Join(cfg.DataDir, "bookmarks.db"))
		if err != nil {
			return nil, err
		}
		return &Backend{Tree: db, KV: db, close: db.Close}, nil
	default:
		return &Backend{
			Tree: NewJSONStorage(filepath.Join(cfg.DataDir, "bookmarks.json")),
			KV:   NewJSONKV(filepath.Join(cfg.DataDir, "state.json")),
		}, nil
	}
}
