package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/schema"
)

func newManager(t *testing.T, timestamped bool, maxBackups int) (*Manager, string) {
	t.Helper()
	dataDir := t.TempDir()
	settings := &conf.Settings{}
	settings.Data.Dir = dataDir
	settings.Backup = conf.BackupConfig{
		Enabled:     true,
		Path:        filepath.Join(dataDir, "backups"),
		Timestamped: timestamped,
		MaxBackups:  maxBackups,
	}
	return NewManager(settings, nil), dataDir
}

func writeLiveTable(t *testing.T, dataDir string, kind schema.Kind, content string) string {
	t.Helper()
	desc, err := schema.Lookup(kind)
	require.NoError(t, err)
	path := filepath.Join(dataDir, desc.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fakeClock returns a monotonically advancing clock so successive
// timestamped snapshots get distinct names.
func fakeClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestSnapshotDisabled(t *testing.T) {
	t.Parallel()

	m, dataDir := newManager(t, true, 0)
	m.cfg.Enabled = false
	writeLiveTable(t, dataDir, schema.KindResiduos, "id\nRES-0001\n")

	info, err := m.Snapshot(schema.KindResiduos)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSnapshotMissingLiveFile(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t, true, 0)
	info, err := m.Snapshot(schema.KindResiduos)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSnapshotCopiesContent(t *testing.T) {
	t.Parallel()

	m, dataDir := newManager(t, true, 0)
	m.now = fakeClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	content := "id,zona\nRES-0001,Norte\n"
	writeLiveTable(t, dataDir, schema.KindResiduos, content)

	info, err := m.Snapshot(schema.KindResiduos)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, schema.KindResiduos, info.Entity)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Contains(t, filepath.Base(info.Path), "residuos_parque_20260801_")

	copied, err := os.ReadFile(info.Path)
	require.NoError(t, err)
	assert.Equal(t, content, string(copied))
}

func TestSnapshotFixedNameOverwrites(t *testing.T) {
	t.Parallel()

	m, dataDir := newManager(t, false, 0)
	writeLiveTable(t, dataDir, schema.KindZonas, "id\nZC-001\n")

	first, err := m.Snapshot(schema.KindZonas)
	require.NoError(t, err)
	assert.Equal(t, "zonas_criticas_backup.csv", filepath.Base(first.Path))

	writeLiveTable(t, dataDir, schema.KindZonas, "id\nZC-001\nZC-002\n")
	second, err := m.Snapshot(schema.KindZonas)
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)

	infos, err := m.List(schema.KindZonas)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	copied, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Contains(t, string(copied), "ZC-002")
}

func TestSnapshotRetention(t *testing.T) {
	t.Parallel()

	m, dataDir := newManager(t, true, 3)
	m.now = fakeClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	writeLiveTable(t, dataDir, schema.KindResiduos, "id\nRES-0001\n")

	for range 6 {
		_, err := m.Snapshot(schema.KindResiduos)
		require.NoError(t, err)
	}

	infos, err := m.List(schema.KindResiduos)
	require.NoError(t, err)
	assert.Len(t, infos, 3)

	// The retained snapshots are the newest ones.
	for _, info := range infos {
		assert.NotEmpty(t, info.Path)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	m, dataDir := newManager(t, true, 0)
	m.now = fakeClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	writeLiveTable(t, dataDir, schema.KindResiduos, "id\nRES-0001\n")

	for range 3 {
		_, err := m.Snapshot(schema.KindResiduos)
		require.NoError(t, err)
	}

	infos, err := m.List(schema.KindResiduos)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	for i := 1; i < len(infos); i++ {
		assert.False(t, infos[i].Timestamp.After(infos[i-1].Timestamp))
	}
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	m, dataDir := newManager(t, true, 0)
	m.now = fakeClock(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	writeLiveTable(t, dataDir, schema.KindResiduos, "id\nRES-0001\n")
	writeLiveTable(t, dataDir, schema.KindZonas, "id\nZC-001\n")

	_, err := m.Snapshot(schema.KindResiduos)
	require.NoError(t, err)
	_, err = m.Snapshot(schema.KindResiduos)
	require.NoError(t, err)
	_, err = m.Snapshot(schema.KindZonas)
	require.NoError(t, err)

	stats, err := m.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats[schema.KindResiduos].Count)
	assert.Equal(t, 1, stats[schema.KindZonas].Count)
	assert.Equal(t, 0, stats[schema.KindEncuestas].Count)
	assert.Positive(t, stats[schema.KindResiduos].TotalSize)
}
