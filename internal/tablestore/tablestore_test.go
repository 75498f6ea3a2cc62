package tablestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/schema"
)

func newStore(t *testing.T, policy string) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	settings := &conf.Settings{}
	settings.Data.Dir = dir
	settings.Data.LoadPolicy = policy
	return New(settings, nil), dir
}

func TestLoadMissingFileReturnsEmptyTable(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, conf.LoadPolicyStrict)
	table, err := store.Load(schema.KindResiduos)
	require.NoError(t, err)

	desc, _ := schema.Lookup(schema.KindResiduos)
	assert.Equal(t, desc.ColumnNames(), table.Columns)
	assert.Equal(t, 0, table.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, conf.LoadPolicyStrict)
	desc, _ := schema.Lookup(schema.KindResiduos)

	table := schema.NewTable(desc)
	table.Append(schema.Row{
		schema.ColumnID:   "RES-0001",
		"fecha":           "2026-03-01",
		"zona":            "Norte",
		"coordenadas_gps": "-12.10,-77.03",
		"tipo_residuo":    "Plástico",
		"peso_kg":         "5.2",
		"descripcion":     "junto a las bancas, con \"comillas\" y, comas",
		"recolectado":     "true",
		"voluntarios":     "3",
		"estado":          schema.EstadoActivo,
		"ruta_imagen":     "",
		"usuario":         "guardaparque",
		"fecha_creacion":  "2026-03-01 10:00:00",
	})
	require.NoError(t, store.Save(schema.KindResiduos, table))

	reloaded, err := store.Load(schema.KindResiduos)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, table.Columns, reloaded.Columns)
	for _, col := range table.Columns {
		assert.Equal(t, table.Rows[0][col], reloaded.Rows[0][col], "column %s", col)
	}

	// Round trip again: backfill must be idempotent.
	require.NoError(t, store.Save(schema.KindResiduos, reloaded))
	again, err := store.Load(schema.KindResiduos)
	require.NoError(t, err)
	assert.Equal(t, reloaded.Rows, again.Rows)

	_ = dir
}

func TestLoadBackfillsMissingColumns(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, conf.LoadPolicyStrict)
	desc, _ := schema.Lookup(schema.KindResiduos)

	// Legacy file lacking estado, usuario and fecha_creacion.
	legacy := "id,fecha,zona,coordenadas_gps,tipo_residuo,peso_kg\n" +
		"RES-0001,2026-03-01,Norte,\"-12.10,-77.03\",Plástico,5.2\n"
	path := filepath.Join(dir, desc.FileName)
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	table, err := store.Load(schema.KindResiduos)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	row := table.Rows[0]
	assert.Equal(t, schema.EstadoActivo, row["estado"])
	assert.Equal(t, "sistema", row["usuario"])
	assert.NotEmpty(t, row["fecha_creacion"])
	assert.Equal(t, "5.2", row["peso_kg"])
	assert.Equal(t, desc.ColumnNames(), table.Columns)
}

func TestLoadCoercesBadNumericCells(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, conf.LoadPolicyStrict)
	desc, _ := schema.Lookup(schema.KindResiduos)

	content := "id,fecha,zona,coordenadas_gps,tipo_residuo,peso_kg,voluntarios\n" +
		"RES-0001,2026-03-01,Norte,\"-12.10,-77.03\",Plástico,mucho,varios\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, desc.FileName), []byte(content), 0o644))

	table, err := store.Load(schema.KindResiduos)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Empty(t, table.Rows[0]["peso_kg"])
	assert.Empty(t, table.Rows[0]["voluntarios"])
}

func TestLoadPreservesExtraColumns(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, conf.LoadPolicyStrict)
	desc, _ := schema.Lookup(schema.KindZonas)

	content := "id,nombre,zona,coordenadas_gps,nivel_riesgo,columna_extra\n" +
		"ZC-001,Laguna Sur,Sur,\"-8.115,-79.030\",Crítico,dato\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, desc.FileName), []byte(content), 0o644))

	table, err := store.Load(schema.KindZonas)
	require.NoError(t, err)
	assert.Contains(t, table.Columns, "columna_extra")
	assert.Equal(t, "dato", table.Rows[0]["columna_extra"])
	// Canonical columns come first.
	assert.Equal(t, desc.ColumnNames(), table.Columns[:len(desc.Columns)])
}

func TestLoadParseFailureStrictVsLenient(t *testing.T) {
	t.Parallel()

	// A stray quote makes the CSV unreadable.
	corrupt := "id,nombre\n\"ZC-001,broken\n"

	strictStore, dir := newStore(t, conf.LoadPolicyStrict)
	desc, _ := schema.Lookup(schema.KindZonas)
	require.NoError(t, os.WriteFile(filepath.Join(dir, desc.FileName), []byte(corrupt), 0o644))

	table, err := strictStore.Load(schema.KindZonas)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileParsing))
	assert.Equal(t, 0, table.Len())

	lenientStore, lenientDir := newStore(t, conf.LoadPolicyLenient)
	require.NoError(t, os.WriteFile(filepath.Join(lenientDir, desc.FileName), []byte(corrupt), 0o644))

	table, err = lenientStore.Load(schema.KindZonas)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, conf.LoadPolicyStrict)
	desc, _ := schema.Lookup(schema.KindActividades)

	table := schema.NewTable(desc)
	table.Append(schema.Row{schema.ColumnID: "ACT-001", "fecha": "2026-01-10", "tipo_actividad": "Jornada de limpieza"})
	require.NoError(t, store.Save(schema.KindActividades, table))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, desc.FileName, entries[0].Name())
}
