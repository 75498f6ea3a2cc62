// Package schema defines the entity kinds tracked by the system and the
// canonical column layout of each flat table.
package schema

import (
	"fmt"
)

// Kind identifies one of the tracked entity tables.
type Kind string

const (
	KindResiduos     Kind = "residuos"
	KindZonas        Kind = "zonas"
	KindVeterinarios Kind = "veterinarios"
	KindActividades  Kind = "actividades"
	KindEncuestas    Kind = "encuestas"
)

// ColumnType describes how a cell is coerced on load.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInt      ColumnType = "int"
	TypeFloat    ColumnType = "float"
	TypeBool     ColumnType = "bool"
	TypeDate     ColumnType = "date"
	TypeDateTime ColumnType = "datetime"
)

// Time layouts used across all tables.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	// StampLayout names timestamped backup and evidence files.
	StampLayout = "20060102_150405"
)

// ColumnID is the identifier column shared by every table.
const ColumnID = "id"

// Column describes one column of a table schema.
type Column struct {
	Name       string
	Type       ColumnType
	Default    string // backfill value when the column is absent from a file
	NowDefault bool   // backfill with the current timestamp instead of Default
	Required   bool   // must be supplied on create
}

// Descriptor is the full schema of one entity table.
type Descriptor struct {
	Kind     Kind
	FileName string
	IDPrefix string
	IDWidth  int
	Columns  []Column
}

// ColumnNames returns the canonical column names in order.
func (d *Descriptor) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i := range d.Columns {
		names[i] = d.Columns[i].Name
	}
	return names
}

// Column returns the descriptor for the named column, or nil.
func (d *Descriptor) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// Zone and category vocabularies observed in the park datasets.
var (
	Zonas        = []string{"Norte", "Sur", "Este", "Oeste", "Centro"}
	TiposResiduo = []string{
		"Plástico", "Orgánico", "Vidrio/Metal", "Papel/Cartón",
		"Textil", "Electrónico", "Peligroso", "Otros",
	}
	NivelesRiesgo = []string{"Bajo", "Medio", "Alto", "Crítico"}
)

// Record states for the residuos table.
const (
	EstadoActivo    = "Activo"
	EstadoProcesado = "Procesado"
	EstadoArchivado = "Archivado"
)

// ColumnEstado is the soft-delete state column.
const ColumnEstado = "estado"

var descriptors = map[Kind]*Descriptor{
	KindResiduos: {
		Kind:     KindResiduos,
		FileName: "residuos_parque.csv",
		IDPrefix: "RES",
		IDWidth:  4,
		Columns: []Column{
			{Name: ColumnID, Type: TypeString},
			{Name: "fecha", Type: TypeDate, Required: true},
			{Name: "zona", Type: TypeString, Required: true},
			{Name: "coordenadas_gps", Type: TypeString, Required: true},
			{Name: "tipo_residuo", Type: TypeString, Required: true},
			{Name: "peso_kg", Type: TypeFloat, Required: true},
			{Name: "descripcion", Type: TypeString},
			{Name: "recolectado", Type: TypeBool, Default: "false"},
			{Name: "voluntarios", Type: TypeInt, Default: "0"},
			{Name: ColumnEstado, Type: TypeString, Default: EstadoActivo},
			{Name: "ruta_imagen", Type: TypeString},
			{Name: "usuario", Type: TypeString, Default: "sistema"},
			{Name: "fecha_creacion", Type: TypeDateTime, NowDefault: true},
		},
	},
	KindZonas: {
		Kind:     KindZonas,
		FileName: "zonas_criticas.csv",
		IDPrefix: "ZC",
		IDWidth:  3,
		Columns: []Column{
			{Name: ColumnID, Type: TypeString},
			{Name: "nombre", Type: TypeString, Required: true},
			{Name: "zona", Type: TypeString, Required: true},
			{Name: "coordenadas_gps", Type: TypeString, Required: true},
			{Name: "nivel_riesgo", Type: TypeString, Required: true},
			{Name: "tipo_contaminacion", Type: TypeString},
			{Name: "frecuencia_limpieza", Type: TypeString},
			{Name: "area_m2", Type: TypeFloat, Default: "0"},
			{Name: "fauna_afectada", Type: TypeString},
			{Name: "observaciones", Type: TypeString},
			{Name: "ultima_inspeccion", Type: TypeDate},
		},
	},
	KindVeterinarios: {
		Kind:     KindVeterinarios,
		FileName: "reportes_veterinarios.csv",
		IDPrefix: "VET",
		IDWidth:  3,
		Columns: []Column{
			{Name: ColumnID, Type: TypeString},
			{Name: "fecha", Type: TypeDate, Required: true},
			{Name: "especie", Type: TypeString, Required: true},
			{Name: "tipo_afectacion", Type: TypeString, Required: true},
			{Name: "severidad", Type: TypeString},
			{Name: "zona", Type: TypeString},
			{Name: "numero_individuos", Type: TypeInt, Default: "1"},
			{Name: "tratamiento_aplicado", Type: TypeBool, Default: "false"},
			{Name: "recuperacion", Type: TypeString},
			{Name: "observaciones", Type: TypeString},
			{Name: "veterinario", Type: TypeString},
		},
	},
	KindActividades: {
		Kind:     KindActividades,
		FileName: "actividades_comunitarias.csv",
		IDPrefix: "ACT",
		IDWidth:  3,
		Columns: []Column{
			{Name: ColumnID, Type: TypeString},
			{Name: "fecha", Type: TypeDate, Required: true},
			{Name: "tipo_actividad", Type: TypeString, Required: true},
			{Name: "titulo", Type: TypeString},
			{Name: "participantes", Type: TypeInt, Default: "0"},
			{Name: "zona", Type: TypeString},
			{Name: "duracion_horas", Type: TypeFloat, Default: "0"},
			{Name: "residuos_recolectados_kg", Type: TypeFloat, Default: "0"},
			{Name: "organizador", Type: TypeString},
			{Name: "satisfaccion", Type: TypeFloat, Default: "0"},
			{Name: "observaciones", Type: TypeString},
		},
	},
	KindEncuestas: {
		Kind:     KindEncuestas,
		FileName: "encuestas_ciudadanas.csv",
		IDPrefix: "ENC",
		IDWidth:  4,
		Columns: []Column{
			{Name: ColumnID, Type: TypeString},
			{Name: "fecha", Type: TypeDate, Required: true},
			{Name: "edad", Type: TypeString},
			{Name: "frecuencia_visita", Type: TypeString},
			{Name: "percepcion_limpieza", Type: TypeInt, Default: "0"},
			{Name: "conoce_zonas_criticas", Type: TypeString},
			{Name: "ha_participado_limpieza", Type: TypeString},
			{Name: "dispuesto_voluntario", Type: TypeString},
			{Name: "principal_problema", Type: TypeString},
			{Name: "sugerencias", Type: TypeString},
		},
	},
}

// Lookup returns the descriptor for the given kind.
func Lookup(kind Kind) (*Descriptor, error) {
	desc, ok := descriptors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}
	return desc, nil
}

// AllKinds returns every known entity kind in a stable order.
func AllKinds() []Kind {
	return []Kind{KindResiduos, KindZonas, KindVeterinarios, KindActividades, KindEncuestas}
}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if _, ok := descriptors[kind]; !ok {
		return "", fmt.Errorf("unknown entity kind: %q", s)
	}
	return kind, nil
}
