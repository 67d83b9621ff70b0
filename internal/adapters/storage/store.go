package storage

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Open opens the embedded database at the given path. Badger's own logger is
// silenced; the adapters log through zerolog like everything else.
func Open(path string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", path, err)
	}
	return db, nil
}

// OpenInMemory opens a throwaway in-memory database, used by tests.
func OpenInMemory() (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening in-memory badger: %w", err)
	}
	return db, nil
}
