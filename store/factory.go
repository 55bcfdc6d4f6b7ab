package store

import (
	"fmt"
	"path/filepath"
)

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"json"   - dataDir/users.json (default)
//	"sqlite" - SQLite database at dataDir/users.db
//	"memory" - In-memory (ephemeral, for testing)
func New(backend, dataDir string) (Store, error) {
	switch backend {
	case "json", "":
		return NewJsonFileStore(filepath.Join(dataDir, "users.json"))
	case "sqlite":
		return NewSqliteStore(filepath.Join(dataDir, "users.db"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, sqlite, memory)", backend)
	}
}

// Backends lists the backend names accepted by New.
var Backends = []string{"json", "sqlite", "memory"}
