package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// LoadDir loads all collection files beneath root into the store. The
// layout is root/<tenant>/<collection>.json where each file holds a plain
// JSON array of documents. Documents are inserted as-is: ids are kept and
// no timestamps are stamped. Non-JSON files are skipped.
func (s *Store) LoadDir(root string) error {
	tenantDirs, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read data dir: %w", err)
	}
	for _, tenantDir := range tenantDirs {
		if !tenantDir.IsDir() {
			continue
		}
		tenantName := tenantDir.Name()
		files, err := os.ReadDir(filepath.Join(root, tenantName))
		if err != nil {
			return fmt.Errorf("read tenant dir %s: %w", tenantName, err)
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			collectionName := strings.TrimSuffix(file.Name(), ".json")
			path := filepath.Join(root, tenantName, file.Name())
			if err := s.loadCollectionFile(tenantName, collectionName, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) loadCollectionFile(tenantName, collectionName, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	docs, err := entity.DecodeArray(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, doc := range docs {
		s.Insert(tenantName, collectionName, doc, InsertOptions{})
	}
	return nil
}

// SaveDir writes every collection back out as root/<tenant>/<collection>.json,
// creating directories as needed. Document and key order are preserved, so
// an untouched store round-trips byte-identically.
func (s *Store) SaveDir(root string) error {
	for _, tenantName := range s.Tenants() {
		dir := filepath.Join(root, tenantName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tenant dir: %w", err)
		}
		for _, collectionName := range s.Collections(tenantName) {
			data, err := s.marshalCollection(tenantName, collectionName)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, collectionName+".json")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	return nil
}

func (s *Store) marshalCollection(tenantName, collectionName string) ([]byte, error) {
	items := s.List(tenantName, collectionName, nil)
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, item := range items {
		b, err := item.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal %s/%s[%d]: %w", tenantName, collectionName, i, err)
		}
		buf.WriteString("  ")
		buf.Write(b)
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}
