// Package evidence stores the image blobs referenced by waste records.
package evidence

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/schema"
)

// Store writes evidence images under the configured directory and removes
// them when their owning record is hard-deleted.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// New creates an evidence store from the application settings.
func New(settings *conf.Settings, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    settings.Data.EvidenceDir,
		logger: logger,
		now:    time.Now,
	}
}

// Save writes an image payload for the given record and returns the path
// to reference from the record's ruta_imagen column. The caller validates
// the payload first.
func (s *Store) Save(recordID, originalName string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", s.saveErr("creating evidence directory", s.dir, err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("evidencia_%s_%s%s", recordID, s.now().Format(schema.StampLayout), ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", s.saveErr("writing evidence file", path, err)
	}

	s.logger.Debug("evidence stored", "record", recordID, "path", path, "bytes", len(data))
	return path, nil
}

// Remove deletes the blob at path. A missing file is not an error; the
// record may reference evidence that was cleaned up out of band.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return s.saveErr("removing evidence file", path, err)
	}
	return nil
}

func (s *Store) saveErr(op, path string, err error) error {
	return errors.New(fmt.Errorf("%s: %w", op, err)).
		Component("evidence").
		Category(errors.CategoryImageSave).
		FileContext(path, 0).
		Build()
}
