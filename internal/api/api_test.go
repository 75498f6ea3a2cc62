package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"log/slog"
	"os"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/observability"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	base := t.TempDir()
	settings := &conf.Settings{
		Data: conf.DataSettings{
			Dir:         filepath.Join(base, "data"),
			EvidenceDir: filepath.Join(base, "evidencias"),
			LoadPolicy:  conf.LoadPolicyLenient,
			DeleteModes: map[string]string{
				string(schema.KindResiduos): conf.DeleteModeSoft,
			},
		},
		Validation: conf.ValidationSettings{WeightMinKg: 0.1, WeightMaxKg: 1000},
		Backup: conf.BackupConfig{
			Enabled:     true,
			Path:        filepath.Join(base, "backups"),
			Timestamped: true,
		},
		WebServer: conf.WebServerSettings{Address: "127.0.0.1", Port: "0"},
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	metrics, err := observability.NewMetrics()
	require.NoError(t, err)

	store := tablestore.New(settings, logger)
	backups := backup.NewManager(settings, logger)
	svc := records.NewService(settings, store, backups, evidence.New(settings, logger), metrics, logger)
	return New(settings, svc, backups, metrics, logger)
}

func doJSON(t *testing.T, c *Controller, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func createBody(t *testing.T) string {
	t.Helper()
	fields := map[string]string{
		"fecha":           time.Now().AddDate(0, 0, -1).Format(schema.DateLayout),
		"zona":            "Norte",
		"coordenadas_gps": "-8.105, -79.025",
		"tipo_residuo":    "Plástico",
		"peso_kg":         "4.5",
	}
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	return string(data)
}

func TestCreateAndGetRecord(t *testing.T) {
	c := newTestController(t)

	rec := doJSON(t, c, http.MethodPost, "/api/v1/residuos", createBody(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "RES-0001", created["id"])

	rec = doJSON(t, c, http.MethodGet, "/api/v1/residuos/RES-0001", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var row map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "Norte", row["zona"])
}

func TestCreateValidationError(t *testing.T) {
	c := newTestController(t)

	body := `{"zona": "Norte"}`
	rec := doJSON(t, c, http.MethodPost, "/api/v1/residuos", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.CorrelationID)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetUnknownEntity(t *testing.T) {
	c := newTestController(t)

	rec := doJSON(t, c, http.MethodGet, "/api/v1/plantas", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMissingRecord(t *testing.T) {
	c := newTestController(t)

	rec := doJSON(t, c, http.MethodGet, "/api/v1/residuos/RES-0042", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListWithFilters(t *testing.T) {
	c := newTestController(t)

	require.Equal(t, http.StatusCreated,
		doJSON(t, c, http.MethodPost, "/api/v1/residuos", createBody(t)).Code)

	body := strings.Replace(createBody(t), "Norte", "Sur", 1)
	require.Equal(t, http.StatusCreated,
		doJSON(t, c, http.MethodPost, "/api/v1/residuos", body).Code)

	rec := doJSON(t, c, http.MethodGet, "/api/v1/residuos?zona=Sur", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int              `json:"count"`
		Rows  []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	rec = doJSON(t, c, http.MethodGet, "/api/v1/residuos?weight_min=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	c := newTestController(t)

	require.Equal(t, http.StatusCreated,
		doJSON(t, c, http.MethodPost, "/api/v1/residuos", createBody(t)).Code)

	rec := doJSON(t, c, http.MethodPatch, "/api/v1/residuos/RES-0001", `{"peso_kg": "9.9"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, c, http.MethodDelete, "/api/v1/residuos/RES-0001", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// soft-deleted rows stay readable as archived
	rec = doJSON(t, c, http.MethodGet, "/api/v1/residuos/RES-0001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var row map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, schema.EstadoArchivado, row[schema.ColumnEstado])

	rec = doJSON(t, c, http.MethodDelete, "/api/v1/residuos/RES-0001?mode=hard", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, c, http.MethodGet, "/api/v1/residuos/RES-0001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEntityStatsAndSummary(t *testing.T) {
	c := newTestController(t)

	require.Equal(t, http.StatusCreated,
		doJSON(t, c, http.MethodPost, "/api/v1/residuos", createBody(t)).Code)

	rec := doJSON(t, c, http.MethodGet, "/api/v1/residuos/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats records.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Rows)

	rec = doJSON(t, c, http.MethodGet, "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum records.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.ResiduosTotal)
}

func TestRunBackupAndStats(t *testing.T) {
	c := newTestController(t)

	require.Equal(t, http.StatusCreated,
		doJSON(t, c, http.MethodPost, "/api/v1/residuos", createBody(t)).Code)

	rec := doJSON(t, c, http.MethodPost, "/api/v1/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Contains(t, results, "residuos")

	rec = doJSON(t, c, http.MethodGet, "/api/v1/backup/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestController(t)

	require.Equal(t, http.StatusCreated,
		doJSON(t, c, http.MethodPost, "/api/v1/residuos", createBody(t)).Code)

	rec := doJSON(t, c, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "record_operations_total")
}
