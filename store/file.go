package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"storefront/model"
)

// Format is the encoding of a catalog file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from the file extension; anything other than
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// FileStore keeps the whole catalog in one document. Every Save rewrites it.
type FileStore struct {
	Path   string
	Format Format

	skipped int
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path, Format: FormatFor(path)}
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Load(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	var doc catalogDocument
	switch s.Format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", s.Path, err)
	}
	products, skipped, err := fromRecords(doc.Products)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.Path, err)
	}
	s.skipped = skipped
	return products, nil
}

// Skipped is the number of records of unknown type dropped by the last Load.
func (s *FileStore) Skipped() int { return s.skipped }

func (s *FileStore) Save(ctx context.Context, products []model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := catalogDocument{Products: toRecords(products)}
	var (
		data []byte
		err  error
	)
	switch s.Format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", s.Path, err)
	}
	return nil
}

// UpdateStock rewrites one product's stock through a full load and save.
func (s *FileStore) UpdateStock(ctx context.Context, productID int64, stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	products, err := s.Load(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, p := range products {
		if p.ID() == productID {
			p.SetStock(stock)
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	return s.Save(ctx, products)
}

// GetStock reads the current stock of one product from the file.
func (s *FileStore) GetStock(ctx context.Context, productID int64) (int, error) {
	products, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if p.ID() == productID {
			return p.Stock(), nil
		}
	}
	return 0, ErrNotFound
}
