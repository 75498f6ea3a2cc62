// Package seed populates the entity tables with simulated park data.
// Generation is deterministic for a given seed so repeated runs produce
// identical datasets.
package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/ecoparque/residuos-go/internal/idgen"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Counts sets how many rows each generator produces. Zonas is fixed:
// the critical zones are a curated catalog, not a random sample.
type Counts struct {
	Residuos     int
	Veterinarios int
	Actividades  int
	Encuestas    int
}

// DefaultCounts matches the sample dataset sizes of the original system.
func DefaultCounts() Counts {
	return Counts{Residuos: 500, Veterinarios: 50, Actividades: 35, Encuestas: 150}
}

// Generator writes simulated datasets through the table store.
type Generator struct {
	store  *tablestore.Store
	logger *slog.Logger
	rng    *rand.Rand
	now    time.Time
}

// New creates a generator with its own seeded random source.
func New(store *tablestore.Store, logger *slog.Logger, seedValue int64) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		store:  store,
		logger: logger.With("service", "seed"),
		rng:    rand.New(rand.NewSource(seedValue)),
		now:    time.Now(),
	}
}

// All generates and saves every table.
func (g *Generator) All(counts Counts) error {
	steps := []struct {
		kind schema.Kind
		run  func() (*schema.Table, error)
	}{
		{schema.KindResiduos, func() (*schema.Table, error) { return g.Residuos(counts.Residuos) }},
		{schema.KindZonas, g.Zonas},
		{schema.KindVeterinarios, func() (*schema.Table, error) { return g.Veterinarios(counts.Veterinarios) }},
		{schema.KindActividades, func() (*schema.Table, error) { return g.Actividades(counts.Actividades) }},
		{schema.KindEncuestas, func() (*schema.Table, error) { return g.Encuestas(counts.Encuestas) }},
	}
	for _, step := range steps {
		table, err := step.run()
		if err != nil {
			return err
		}
		if err := g.store.Save(step.kind, table); err != nil {
			return err
		}
		g.logger.Info("seeded table", "entity", step.kind, "rows", table.Len())
	}
	return nil
}

// Per-zone base coordinates of the park.
var zoneCoords = map[string][2]float64{
	"Norte":  {-8.105, -79.025},
	"Sur":    {-8.115, -79.030},
	"Este":   {-8.110, -79.020},
	"Oeste":  {-8.110, -79.035},
	"Centro": {-8.110, -79.028},
}

// Weight ranges per waste type, heavier organics, lighter paper.
var weightRanges = map[string][2]float64{
	"Plástico":     {0.5, 15.0},
	"Orgánico":     {1.0, 25.0},
	"Vidrio/Metal": {0.3, 10.0},
	"Papel/Cartón": {0.2, 8.0},
	"Electrónico":  {0.5, 5.0},
}

// Residuos builds n waste sightings over the past six months.
func (g *Generator) Residuos(n int) (*schema.Table, error) {
	desc, err := schema.Lookup(schema.KindResiduos)
	if err != nil {
		return nil, err
	}
	table := schema.NewTable(desc)

	for i := 1; i <= n; i++ {
		zona := g.pick(schema.Zonas)
		tipo := g.pick(schema.TiposResiduo)

		base := zoneCoords[zona]
		lat := base[0] + g.uniform(-0.005, 0.005)
		lon := base[1] + g.uniform(-0.005, 0.005)

		bounds, ok := weightRanges[tipo]
		if !ok {
			bounds = [2]float64{0.1, 12.0}
		}
		peso := g.uniform(bounds[0], bounds[1])

		fecha := g.pastDate(180)
		table.Append(schema.Row{
			schema.ColumnID:     idgen.Format(desc.IDPrefix, desc.IDWidth, i),
			"fecha":             fecha.Format(schema.DateLayout),
			"zona":              zona,
			"coordenadas_gps":   fmt.Sprintf("%.6f, %.6f", lat, lon),
			"tipo_residuo":      tipo,
			"peso_kg":           fmt.Sprintf("%.2f", peso),
			"descripcion":       g.pick(wasteNotes(tipo)),
			"recolectado":       fmt.Sprintf("%t", g.rng.Float64() < 0.75),
			"voluntarios":       fmt.Sprintf("%d", g.intn(2, 8)),
			schema.ColumnEstado: g.weightedPick([]string{schema.EstadoActivo, schema.EstadoProcesado, schema.EstadoArchivado}, []float64{0.70, 0.20, 0.10}),
			"ruta_imagen":       "",
			"usuario":           g.pick([]string{"Sistema", "Voluntario", "Guardaparque", "Estudiante"}),
			"fecha_creacion":    fecha.Format(schema.DateTimeLayout),
		})
	}
	return table, nil
}

// Zonas builds the curated critical-zone catalog.
func (g *Generator) Zonas() (*schema.Table, error) {
	desc, err := schema.Lookup(schema.KindZonas)
	if err != nil {
		return nil, err
	}
	table := schema.NewTable(desc)

	zones := []struct {
		nombre, zona, gps, riesgo, contaminacion, frecuencia, fauna, obs string
		area                                                            float64
		inspectedDaysAgo                                                int
	}{
		{"Área de Picnic Principal", "Centro", "-8.110, -79.028", "Alto", "Plástico, Orgánico", "Diaria", "Aves, Mamíferos pequeños", "Alta concentración de residuos plásticos y orgánicos.", 250, 2},
		{"Sendero Norte", "Norte", "-8.105, -79.025", "Medio", "Papel/Cartón, Plástico", "Semanal", "Aves", "Residuos dispersos a lo largo del sendero.", 180, 5},
		{"Zona de Juegos Infantiles", "Este", "-8.110, -79.020", "Alto", "Plástico, Vidrio/Metal", "Diaria", "Ninguna (área urbana)", "Riesgo para niños por presencia de vidrios.", 150, 1},
		{"Laguna Sur", "Sur", "-8.115, -79.030", "Crítico", "Plástico, Peligroso", "Diaria", "Aves acuáticas, Peces, Anfibios", "Contaminación severa del cuerpo de agua.", 320, 3},
		{"Estacionamiento Oeste", "Oeste", "-8.110, -79.035", "Medio", "Plástico, Papel/Cartón", "Semanal", "Aves", "Residuos generados por visitantes.", 200, 7},
		{"Área de Camping", "Norte", "-8.107, -79.027", "Alto", "Orgánico, Plástico, Vidrio/Metal", "Diaria", "Mamíferos, Aves", "Residuos orgánicos atraen fauna silvestre.", 280, 4},
	}
	for i, z := range zones {
		table.Append(schema.Row{
			schema.ColumnID:       idgen.Format(desc.IDPrefix, desc.IDWidth, i+1),
			"nombre":              z.nombre,
			"zona":                z.zona,
			"coordenadas_gps":     z.gps,
			"nivel_riesgo":        z.riesgo,
			"tipo_contaminacion":  z.contaminacion,
			"frecuencia_limpieza": z.frecuencia,
			"area_m2":             fmt.Sprintf("%.0f", z.area),
			"fauna_afectada":      z.fauna,
			"observaciones":       z.obs,
			"ultima_inspeccion":   g.now.AddDate(0, 0, -z.inspectedDaysAgo).Format(schema.DateLayout),
		})
	}
	return table, nil
}

// Veterinarios builds n wildlife impact reports. Severity correlates
// with the affectation type.
func (g *Generator) Veterinarios(n int) (*schema.Table, error) {
	desc, err := schema.Lookup(schema.KindVeterinarios)
	if err != nil {
		return nil, err
	}
	table := schema.NewTable(desc)

	especies := []string{
		"Ardilla común", "Paloma doméstica", "Garza blanca", "Iguana verde",
		"Pato silvestre", "Tortuga de agua", "Conejo silvestre", "Zorro gris",
	}
	afectaciones := []string{
		"Ingestión de plástico", "Enredo en materiales", "Intoxicación por residuos",
		"Lesiones por vidrio/metal", "Alteración de hábitat", "Contaminación de fuente de agua",
	}
	grave := map[string]bool{
		"Ingestión de plástico":     true,
		"Intoxicación por residuos": true,
		"Lesiones por vidrio/metal": true,
	}

	for i := 1; i <= n; i++ {
		especie := g.pick(especies)
		afectacion := g.pick(afectaciones)
		severidad := g.pick([]string{"Media", "Baja", "Baja"})
		if grave[afectacion] {
			severidad = g.pick([]string{"Alta", "Alta", "Media"})
		}
		table.Append(schema.Row{
			schema.ColumnID:        idgen.Format(desc.IDPrefix, desc.IDWidth, i),
			"fecha":                g.pastDate(180).Format(schema.DateLayout),
			"especie":              especie,
			"tipo_afectacion":      afectacion,
			"severidad":            severidad,
			"zona":                 g.pick(schema.Zonas),
			"numero_individuos":    fmt.Sprintf("%d", g.intn(1, 5)),
			"tratamiento_aplicado": fmt.Sprintf("%t", g.rng.Intn(2) == 0),
			"recuperacion":         g.pick([]string{"Completa", "Parcial", "En proceso", "No recuperado"}),
			"observaciones":        fmt.Sprintf("Caso de %s en %s. Requiere monitoreo continuo.", strings.ToLower(afectacion), strings.ToLower(especie)),
			"veterinario":          g.pick([]string{"Dr. García", "Dra. Martínez", "Dr. López", "Dra. Rodríguez"}),
		})
	}
	return table, nil
}

// Actividades builds n community activities; only cleanup days collect
// waste.
func (g *Generator) Actividades(n int) (*schema.Table, error) {
	desc, err := schema.Lookup(schema.KindActividades)
	if err != nil {
		return nil, err
	}
	table := schema.NewTable(desc)

	tipos := []string{
		"Jornada de limpieza", "Taller educativo", "Charla de sensibilización",
		"Campaña de reciclaje", "Actividad con escuelas", "Evento comunitario",
	}

	for i := 1; i <= n; i++ {
		tipo := g.pick(tipos)
		fecha := g.pastDate(180)
		participantes := g.intn(15, 120)
		kg := 0.0
		if tipo == "Jornada de limpieza" {
			kg = g.uniform(50, 300)
		}
		table.Append(schema.Row{
			schema.ColumnID:            idgen.Format(desc.IDPrefix, desc.IDWidth, i),
			"fecha":                    fecha.Format(schema.DateLayout),
			"tipo_actividad":           tipo,
			"titulo":                   fmt.Sprintf("%s - %s", tipo, fecha.Format("January 2006")),
			"participantes":            fmt.Sprintf("%d", participantes),
			"zona":                     g.pick(append(append([]string{}, schema.Zonas...), "Todo el parque")),
			"duracion_horas":           fmt.Sprintf("%d", g.intn(2, 6)),
			"residuos_recolectados_kg": fmt.Sprintf("%.2f", kg),
			"organizador":              g.pick([]string{"Municipalidad", "ONG Ambiental", "Escuela Local", "Comunidad"}),
			"satisfaccion":             fmt.Sprintf("%.1f", g.uniform(3.5, 5.0)),
			"observaciones":            fmt.Sprintf("Actividad exitosa con %d participantes.", participantes),
		})
	}
	return table, nil
}

// Encuestas builds n citizen survey responses over the past 90 days.
func (g *Generator) Encuestas(n int) (*schema.Table, error) {
	desc, err := schema.Lookup(schema.KindEncuestas)
	if err != nil {
		return nil, err
	}
	table := schema.NewTable(desc)

	for i := 1; i <= n; i++ {
		table.Append(schema.Row{
			schema.ColumnID:           idgen.Format(desc.IDPrefix, desc.IDWidth, i),
			"fecha":                   g.pastDate(90).Format(schema.DateLayout),
			"edad":                    g.pick([]string{"18-25", "26-35", "36-45", "46-55", "56+"}),
			"frecuencia_visita":       g.pick([]string{"Diaria", "Semanal", "Mensual", "Ocasional"}),
			"percepcion_limpieza":     fmt.Sprintf("%d", g.intn(1, 5)),
			"conoce_zonas_criticas":   g.pick([]string{"Sí", "No"}),
			"ha_participado_limpieza": g.pick([]string{"Sí", "No", "No"}),
			"dispuesto_voluntario":    g.pick([]string{"Sí", "Sí", "Tal vez", "No"}),
			"principal_problema": g.pick([]string{
				"Falta de contenedores", "Falta de conciencia ciudadana",
				"Poca frecuencia de limpieza", "Acumulación en zonas específicas",
				"Falta de señalización",
			}),
			"sugerencias": g.pick([]string{
				"Más contenedores de reciclaje", "Campañas educativas",
				"Mayor vigilancia", "Jornadas de limpieza regulares",
				"Mejor señalización",
			}),
		})
	}
	return table, nil
}

func wasteNotes(tipo string) []string {
	t := strings.ToLower(tipo)
	return []string{
		fmt.Sprintf("Acumulación de %s encontrada cerca de área recreativa", t),
		fmt.Sprintf("Residuos de %s dispersos en zona de senderos", t),
		fmt.Sprintf("%s abandonado en área de picnic", tipo),
		fmt.Sprintf("Concentración de %s cerca de zona de fauna", t),
		fmt.Sprintf("Residuos de %s en área de vegetación", t),
	}
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// weightedPick chooses an option using the given probabilities.
func (g *Generator) weightedPick(options []string, weights []float64) string {
	roll := g.rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll < acc {
			return options[i]
		}
	}
	return options[len(options)-1]
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + g.rng.Float64()*(high-low)
}

// intn returns a random int in [low, high].
func (g *Generator) intn(low, high int) int {
	return low + g.rng.Intn(high-low+1)
}

// pastDate returns a date up to maxDaysAgo days before today, never in
// the future.
func (g *Generator) pastDate(maxDaysAgo int) time.Time {
	return g.now.AddDate(0, 0, -g.rng.Intn(maxDaysAgo+1))
}
