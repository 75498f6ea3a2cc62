// Package records implements the record operations over the flat entity
// tables: create, read, update, delete, filtered queries and aggregate
// statistics. All mutations snapshot the live table first and rewrite it
// atomically through the table store.
package records

import (
	"time"

	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/schema"
)

// ErrNotFound is returned when an id does not exist in its table.
var ErrNotFound = errors.NewStd("record not found")

// Filters narrows a Query. Zero-value fields are ignored.
type Filters struct {
	// Equals matches rows whose cell equals the given value, per column.
	Equals map[string]string
	// DateFrom and DateTo bound the "fecha" column (inclusive).
	DateFrom *time.Time
	DateTo   *time.Time
	// WeightMin and WeightMax bound the "peso_kg" column (inclusive).
	WeightMin *float64
	WeightMax *float64
}

// Empty reports whether the filter set matches everything.
func (f Filters) Empty() bool {
	return len(f.Equals) == 0 && f.DateFrom == nil && f.DateTo == nil &&
		f.WeightMin == nil && f.WeightMax == nil
}

// Stats aggregates one entity table.
type Stats struct {
	Kind          schema.Kind `json:"kind"`
	Rows          int         `json:"rows"`
	Collected     int         `json:"collected"`
	WeightTotalKg float64     `json:"weight_total_kg"`
	WeightMeanKg  float64     `json:"weight_mean_kg"`
	DistinctZones int         `json:"distinct_zones"`
	TopCategory   string      `json:"top_category"`
	Participants  int         `json:"participants"`
}

// Summary aggregates across all entity tables, mirroring the dashboard
// headline numbers.
type Summary struct {
	ResiduosTotal        int     `json:"residuos_total"`
	ResiduosActivos      int     `json:"residuos_activos"`
	PesoTotalKg          float64 `json:"peso_total_kg"`
	ZonasCriticas        int     `json:"zonas_criticas"`
	ZonasAltoRiesgo      int     `json:"zonas_alto_riesgo"`
	ReportesVeterinarios int     `json:"reportes_veterinarios"`
	Actividades          int     `json:"actividades"`
	Participantes        int     `json:"participantes"`
	Encuestas            int     `json:"encuestas"`
}

// Interface is the contract of the record service, kept narrow so the
// API layer and the CLI commands depend on behavior only.
type Interface interface {
	Create(kind schema.Kind, fields map[string]string) (string, error)
	Get(kind schema.Kind, id string) (schema.Row, error)
	Update(kind schema.Kind, id string, partial map[string]string) error
	Delete(kind schema.Kind, id, mode string) error
	Query(kind schema.Kind, filters Filters) ([]schema.Row, error)
	Aggregate(kind schema.Kind) (*Stats, error)
	Summary() (*Summary, error)
	AttachEvidence(kind schema.Kind, id, filename string, data []byte) (string, error)
}
