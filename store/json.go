package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	models "shop-simulator/model"
)

// JSONStore keeps the catalog and the users in two indented JSON files.
// A missing or zero-length file counts as "nothing saved yet".
type JSONStore struct {
	InventoryPath string
	UsersPath     string

	log *zap.Logger
}

func NewJSONStore(inventoryPath, usersPath string, log *zap.Logger) *JSONStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &JSONStore{InventoryPath: inventoryPath, UsersPath: usersPath, log: log}
}

func (s *JSONStore) LoadCatalog(_ context.Context) (*models.Catalog, error) {
	c := &models.Catalog{}
	found, err := readJSON(s.InventoryPath, c)
	if err != nil {
		return nil, err
	}
	if !found {
		s.log.Info("no saved inventory, using defaults", zap.String("path", s.InventoryPath))
		return SeedCatalog(), nil
	}
	if err := validateCatalog(c); err != nil {
		return nil, fmt.Errorf("%s: %w", s.InventoryPath, err)
	}
	return c, nil
}

func (s *JSONStore) LoadUsers(_ context.Context) (*models.Users, error) {
	u := models.NewUsers()
	found, err := readJSON(s.UsersPath, u)
	if err != nil {
		return nil, err
	}
	if !found {
		s.log.Info("no saved users", zap.String("path", s.UsersPath))
		return models.NewUsers(), nil
	}
	return u, nil
}

func (s *JSONStore) Save(_ context.Context, catalog *models.Catalog, users *models.Users) error {
	if err := writeJSON(s.InventoryPath, catalog); err != nil {
		return err
	}
	if err := writeJSON(s.UsersPath, users); err != nil {
		return err
	}
	s.log.Debug("state saved", zap.String("inventory", s.InventoryPath), zap.String("users", s.UsersPath))
	return nil
}

func (s *JSONStore) Close() error { return nil }

// readJSON decodes path into v. found is false when the file is missing or empty.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// writeJSON replaces path with the indented encoding of v, going through a
// temporary file in the same directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var _ Store = (*JSONStore)(nil)
