package store

import (
	"context"
	"fmt"
)

// Store kinds accepted by Open.
const (
	KindFile     = "file"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite3"
)

// Open returns the store for kind. location is a file path for "file" and a
// DSN otherwise.
func Open(ctx context.Context, kind, location string) (CatalogStore, error) {
	switch kind {
	case KindFile, "":
		return NewFileStore(location), nil
	case KindPostgres:
		return NewSQLStore(ctx, DriverPostgres, location)
	case KindSQLite:
		return NewSQLStore(ctx, DriverSQLite, location)
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}
