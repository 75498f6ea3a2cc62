package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

func newTestExporter(t *testing.T) (*Exporter, records.Interface) {
	t.Helper()
	base := t.TempDir()
	settings := &conf.Settings{
		Data: conf.DataSettings{
			Dir:         filepath.Join(base, "data"),
			EvidenceDir: filepath.Join(base, "evidencias"),
			LoadPolicy:  conf.LoadPolicyLenient,
		},
		Validation: conf.ValidationSettings{WeightMinKg: 0.1, WeightMaxKg: 1000},
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := tablestore.New(settings, logger)
	svc := records.NewService(settings, store, backup.NewManager(settings, logger),
		evidence.New(settings, logger), nil, logger)
	return New(store, svc, logger), svc
}

func TestWriteWorkbook(t *testing.T) {
	exp, svc := newTestExporter(t)

	_, err := svc.Create(schema.KindResiduos, map[string]string{
		"fecha":           time.Now().AddDate(0, 0, -1).Format(schema.DateLayout),
		"zona":            "Norte",
		"coordenadas_gps": "-8.105, -79.025",
		"tipo_residuo":    "Plástico",
		"peso_kg":         "4.5",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "parque.xlsx")
	require.NoError(t, exp.WriteWorkbook(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Residuos")
	assert.Contains(t, sheets, "Resumen")
	assert.NotContains(t, sheets, "Sheet1")

	rows, err := f.GetRows("Residuos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.ColumnID, rows[0][0])
	assert.Equal(t, "RES-0001", rows[1][0])

	summary, err := f.GetRows("Resumen")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 2)
	assert.Equal(t, "Indicador", summary[0][0])
}

func TestWorkbookEmptyTables(t *testing.T) {
	exp, _ := newTestExporter(t)

	data, err := exp.Workbook()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
