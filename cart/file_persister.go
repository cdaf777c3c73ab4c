package cart

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"tienda-gateway/models"
)

// FilePersister stores one JSON document per session under a directory,
// the server-side equivalent of the browser's localStorage "cart" key.
type FilePersister struct {
	dir string
}

func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "cart: create storage directory")
	}
	return &FilePersister{dir: dir}, nil
}

func (p *FilePersister) Load(_ context.Context, sessionID string) ([]models.LineItem, error) {
	data, err := os.ReadFile(p.path(sessionID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cart: read persisted cart")
	}
	return decodeCartDocument(data)
}

func (p *FilePersister) Save(_ context.Context, sessionID string, items []models.LineItem) error {
	data, err := encodeCartDocument(items)
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write cannot corrupt the cart.
	path := p.path(sessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "cart: write persisted cart")
	}
	return errors.Wrap(os.Rename(tmp, path), "cart: write persisted cart")
}

func (p *FilePersister) Delete(_ context.Context, sessionID string) error {
	err := os.Remove(p.path(sessionID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *FilePersister) path(sessionID string) string {
	// Session ids are uuids, but never trust them as path components.
	name := strings.ReplaceAll(filepath.Base(sessionID), string(os.PathSeparator), "_")
	return filepath.Join(p.dir, name+".json")
}

func encodeCartDocument(items []models.LineItem) ([]byte, error) {
	doc := models.CartDocument{Version: models.CartSchemaVersion, Items: items}
	data, err := json.Marshal(doc)
	return data, errors.Wrap(err, "cart: encode cart document")
}

func decodeCartDocument(data []byte) ([]models.LineItem, error) {
	var doc models.CartDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Version != 0 {
		return doc.Items, nil
	}

	// Pre-versioning layout: a bare item array.
	var items []models.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "cart: decode cart document")
	}
	return items, nil
}
