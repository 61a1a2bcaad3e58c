package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"storefront/model"
)

//go:embed schema.sql
var schemaSQL string

// Supported database/sql drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// SQLStore keeps the catalog in a products table. The same statements run on
// Postgres and SQLite.
type SQLStore struct {
	DB *sql.DB

	skipped int
}

// NewSQLStore opens the database, checks the connection and creates the
// products table if needed.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer; also keeps a :memory: database on a single connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	s := &SQLStore{DB: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the embedded schema. It is idempotent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error { return s.DB.Close() }

func (s *SQLStore) Load(ctx context.Context) ([]model.Product, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, price, stock, type, author, publisher, brand, warranty_months FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []ProductRecord{}
	for rows.Next() {
		var r ProductRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Price, &r.Stock, &r.Type, &r.Author, &r.Publisher, &r.Brand, &r.WarrantyMonths); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	products, skipped, err := fromRecords(records)
	if err != nil {
		return nil, err
	}
	s.skipped = skipped
	return products, nil
}

// Skipped is the number of rows of unknown type dropped by the last Load.
func (s *SQLStore) Skipped() int { return s.skipped }

const upsertProductSQL = `
		INSERT INTO products (id, name, price, stock, type, author, publisher, brand, warranty_months)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, stock = EXCLUDED.stock,
			type = EXCLUDED.type, author = EXCLUDED.author, publisher = EXCLUDED.publisher,
			brand = EXCLUDED.brand, warranty_months = EXCLUDED.warranty_months
	`

// Save upserts every product in one transaction. Rows for products that are
// no longer in the slice are left alone.
func (s *SQLStore) Save(ctx context.Context, products []model.Product) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// ensure rollback on early return
	rolledBack := false
	defer func() {
		if !rolledBack {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertProductSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		r := ToRecord(p)
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Price, r.Stock, r.Type, r.Author, r.Publisher, r.Brand, r.WarrantyMonths); err != nil {
			return fmt.Errorf("save product %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	rolledBack = true
	return nil
}
