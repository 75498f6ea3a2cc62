// Package backup provides best-effort snapshots of the entity table files.
// A snapshot is taken before every mutating write; snapshot failure is
// reported but never blocks the write that follows.
package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/schema"
)

// Info describes one stored snapshot.
type Info struct {
	ID        string    // unique identifier for the snapshot
	Entity    schema.Kind
	Path      string    // where the snapshot was written
	Size      int64     // snapshot size in bytes
	Timestamp time.Time // when the snapshot was taken
}

// Stats summarizes the snapshots held for one entity.
type Stats struct {
	Count     int
	TotalSize int64
	Oldest    time.Time
	Newest    time.Time
}

// Manager copies live table files into the backup directory.
type Manager struct {
	cfg     conf.BackupConfig
	dataDir string
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager creates a backup manager from the application settings.
func NewManager(settings *conf.Settings, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:     settings.Backup,
		dataDir: settings.Data.Dir,
		logger:  logger,
		now:     time.Now,
	}
}

// Enabled reports whether snapshots are configured at all.
func (m *Manager) Enabled() bool {
	return m.cfg.Enabled
}

// Snapshot copies the live table file of kind into the backup directory.
// Returns nil Info without error when backups are disabled or the live
// file does not exist yet.
func (m *Manager) Snapshot(kind schema.Kind) (*Info, error) {
	if !m.cfg.Enabled {
		return nil, nil
	}

	desc, err := schema.Lookup(kind)
	if err != nil {
		return nil, err
	}

	livePath := filepath.Join(m.dataDir, desc.FileName)
	if _, err := os.Stat(livePath); os.IsNotExist(err) {
		return nil, nil
	}

	if err := os.MkdirAll(m.cfg.Path, 0o755); err != nil {
		return nil, m.backupErr("creating backup directory", m.cfg.Path, err)
	}

	now := m.now()
	destPath := filepath.Join(m.cfg.Path, m.snapshotName(desc, now))

	size, err := copyFile(livePath, destPath)
	if err != nil {
		return nil, m.backupErr("copying table file", destPath, err)
	}

	info := &Info{
		ID:        uuid.NewString(),
		Entity:    kind,
		Path:      destPath,
		Size:      size,
		Timestamp: now,
	}
	m.logger.Debug("snapshot written",
		"entity", string(kind), "path", destPath, "bytes", size)

	if m.cfg.Timestamped && m.cfg.MaxBackups > 0 {
		if err := m.enforceRetention(desc); err != nil {
			// Retention failure does not invalidate the snapshot just taken.
			m.logger.Warn("backup retention sweep failed",
				"entity", string(kind), "error", err)
		}
	}
	return info, nil
}

// snapshotName builds the destination file name: a fixed name that is
// overwritten each time, or a timestamped one that accumulates.
func (m *Manager) snapshotName(desc *schema.Descriptor, now time.Time) string {
	base := strings.TrimSuffix(desc.FileName, filepath.Ext(desc.FileName))
	if m.cfg.Timestamped {
		return fmt.Sprintf("%s_%s.csv", base, now.Format(schema.StampLayout))
	}
	return base + "_backup.csv"
}

// List returns the snapshots currently held for kind, newest first.
func (m *Manager) List(kind schema.Kind) ([]Info, error) {
	desc, err := schema.Lookup(kind)
	if err != nil {
		return nil, err
	}
	names, err := m.snapshotFiles(desc)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		path := filepath.Join(m.cfg.Path, name)
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Entity:    kind,
			Path:      path,
			Size:      fi.Size(),
			Timestamp: fi.ModTime(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})
	return infos, nil
}

// GetStats summarizes the snapshots held per entity.
func (m *Manager) GetStats() (map[schema.Kind]Stats, error) {
	stats := make(map[schema.Kind]Stats, len(schema.AllKinds()))
	for _, kind := range schema.AllKinds() {
		infos, err := m.List(kind)
		if err != nil {
			return nil, err
		}
		var s Stats
		for _, info := range infos {
			s.Count++
			s.TotalSize += info.Size
			if s.Oldest.IsZero() || info.Timestamp.Before(s.Oldest) {
				s.Oldest = info.Timestamp
			}
			if info.Timestamp.After(s.Newest) {
				s.Newest = info.Timestamp
			}
		}
		stats[kind] = s
	}
	return stats, nil
}

// snapshotFiles lists backup file names belonging to desc, sorted by name.
// Timestamped names sort chronologically because of the stamp layout.
func (m *Manager) snapshotFiles(desc *schema.Descriptor) ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, m.backupErr("reading backup directory", m.cfg.Path, err)
	}

	base := strings.TrimSuffix(desc.FileName, filepath.Ext(desc.FileName))
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base+"_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// enforceRetention deletes the oldest timestamped snapshots beyond
// MaxBackups for one entity.
func (m *Manager) enforceRetention(desc *schema.Descriptor) error {
	names, err := m.snapshotFiles(desc)
	if err != nil {
		return err
	}
	excess := len(names) - m.cfg.MaxBackups
	for i := 0; i < excess; i++ {
		path := filepath.Join(m.cfg.Path, names[i])
		if err := os.Remove(path); err != nil {
			return m.backupErr("removing expired snapshot", path, err)
		}
		m.logger.Debug("expired snapshot removed", "path", path)
	}
	return nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, err
	}
	return n, out.Close()
}

func (m *Manager) backupErr(op, path string, err error) error {
	return errors.New(fmt.Errorf("%s: %w", op, err)).
		Component("backup").
		Category(errors.CategoryBackup).
		FileContext(path, 0).
		Build()
}
