// Package tablestore persists each entity table as one flat CSV file.
// Loads backfill missing schema columns and coerce numeric cells; saves
// rewrite the whole file atomically via a temp file and rename.
package tablestore

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/schema"
)

// Store reads and writes entity tables under one dataset directory.
type Store struct {
	dataDir string
	policy  string
	logger  *slog.Logger
}

// New creates a Store from the application settings.
func New(settings *conf.Settings, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dataDir: settings.Data.Dir,
		policy:  settings.Data.LoadPolicy,
		logger:  logger,
	}
}

// Path returns the backing file path for an entity kind.
func (s *Store) Path(kind schema.Kind) (string, error) {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dataDir, desc.FileName), nil
}

// Load reads the full table for kind. A missing file yields an empty table
// with the canonical columns and no error. Read or parse failures yield an
// empty table plus a typed error; under the lenient policy the error is
// logged and swallowed so callers see the empty table only.
func (s *Store) Load(kind schema.Kind) (*schema.Table, error) {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dataDir, desc.FileName)
	table, err := s.loadFile(desc, path)
	if err != nil {
		s.logger.Warn("table load failed",
			"entity", string(kind), "path", path, "error", err)
		if s.policy == conf.LoadPolicyLenient {
			return schema.NewTable(desc), nil
		}
		return schema.NewTable(desc), err
	}
	return table, nil
}

func (s *Store) loadFile(desc *schema.Descriptor, path string) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.NewTable(desc), nil
		}
		return nil, errors.New(fmt.Errorf("opening %s: %w", path, err)).
			Component("tablestore").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Build()
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, cells are matched by header below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.New(fmt.Errorf("parsing %s: %w", path, err)).
			Component("tablestore").
			Category(errors.CategoryFileParsing).
			FileContext(path, 0).
			Build()
	}
	if len(records) == 0 {
		return schema.NewTable(desc), nil
	}

	header := records[0]
	table := &schema.Table{
		Kind:    desc.Kind,
		Columns: mergedColumns(desc, header),
	}

	now := time.Now()
	for _, record := range records[1:] {
		row := make(schema.Row, len(table.Columns))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		backfillRow(row, desc, now)
		coerceRow(row, desc)
		table.Append(row)
	}
	return table, nil
}

// mergedColumns returns the canonical columns followed by any extra columns
// the file carries, preserving their file order.
func mergedColumns(desc *schema.Descriptor, header []string) []string {
	columns := desc.ColumnNames()
	for _, name := range header {
		if !slices.Contains(columns, name) {
			columns = append(columns, name)
		}
	}
	return columns
}

// backfillRow fills canonical columns absent from the row with their
// schema defaults.
func backfillRow(row schema.Row, desc *schema.Descriptor, now time.Time) {
	for i := range desc.Columns {
		col := &desc.Columns[i]
		if _, ok := row[col.Name]; ok {
			continue
		}
		switch {
		case col.NowDefault:
			row[col.Name] = now.Format(schema.DateTimeLayout)
		default:
			row[col.Name] = col.Default
		}
	}
}

// coerceRow blanks numeric cells that do not parse, so downstream math
// treats them as missing instead of failing.
func coerceRow(row schema.Row, desc *schema.Descriptor) {
	for i := range desc.Columns {
		col := &desc.Columns[i]
		value, ok := row[col.Name]
		if !ok || value == "" {
			continue
		}
		trimmed := strings.TrimSpace(value)
		switch col.Type {
		case schema.TypeInt:
			if _, err := strconv.Atoi(trimmed); err != nil {
				row[col.Name] = ""
			}
		case schema.TypeFloat:
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				row[col.Name] = ""
			}
		}
	}
}

// Save serializes the full table back to its flat file. The write goes to
// a temp file in the same directory followed by a rename, so a reader of
// the live file never observes a partial write.
func (s *Store) Save(kind schema.Kind, table *schema.Table) error {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dataDir, desc.FileName)

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return s.ioErr("creating dataset directory", s.dataDir, err)
	}

	tempFile, err := os.CreateTemp(s.dataDir, desc.FileName+".tmp-*")
	if err != nil {
		return s.ioErr("creating temp file", s.dataDir, err)
	}
	tempName := tempFile.Name()
	defer os.Remove(tempName)

	if err := writeCSV(tempFile, table); err != nil {
		tempFile.Close()
		return s.ioErr("writing temp file", tempName, err)
	}
	if err := tempFile.Close(); err != nil {
		return s.ioErr("closing temp file", tempName, err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return s.ioErr("replacing table file", path, err)
	}

	s.logger.Debug("table saved", "entity", string(kind), "rows", table.Len(), "path", path)
	return nil
}

func writeCSV(w io.Writer, table *schema.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, name := range table.Columns {
			record[i] = row[name]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *Store) ioErr(op, path string, err error) error {
	return errors.New(fmt.Errorf("%s: %w", op, err)).
		Component("tablestore").
		Category(errors.CategoryFileIO).
		FileContext(path, 0).
		Build()
}
