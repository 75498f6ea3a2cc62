package records

import (
	"github.com/ecoparque/residuos-go/internal/schema"
)

const summaryKey = "summary"

func statsKey(kind schema.Kind) string {
	return "stats:" + string(kind)
}

// Aggregate computes per-table statistics. Results are cached briefly
// and invalidated by any write to the same entity.
func (s *Service) Aggregate(kind schema.Kind) (*Stats, error) {
	if _, err := schema.Lookup(kind); err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(statsKey(kind)); ok {
		return cached.(*Stats), nil
	}
	table, err := s.store.Load(kind)
	if err != nil {
		return nil, err
	}
	stats := aggregate(kind, table)
	s.cache.SetDefault(statsKey(kind), stats)
	return stats, nil
}

func aggregate(kind schema.Kind, table *schema.Table) *Stats {
	stats := &Stats{Kind: kind, Rows: table.Len()}

	zones := make(map[string]struct{})
	categories := make(map[string]int)
	categoryColumn := map[schema.Kind]string{
		schema.KindResiduos:     "tipo_residuo",
		schema.KindZonas:        "nivel_riesgo",
		schema.KindVeterinarios: "especie",
		schema.KindActividades:  "tipo_actividad",
		schema.KindEncuestas:    "principal_problema",
	}[kind]

	weighted := 0
	for _, row := range table.Rows {
		if z := row["zona"]; z != "" {
			zones[z] = struct{}{}
		}
		if c := row[categoryColumn]; c != "" {
			categories[c]++
		}
		switch kind {
		case schema.KindResiduos:
			if collected, ok := row.Bool("recolectado"); ok && collected {
				stats.Collected++
			}
			if w, ok := row.Float("peso_kg"); ok {
				stats.WeightTotalKg += w
				weighted++
			}
			if n, ok := row.Int("voluntarios"); ok {
				stats.Participants += n
			}
		case schema.KindVeterinarios:
			if n, ok := row.Int("numero_individuos"); ok {
				stats.Participants += n
			}
		case schema.KindActividades:
			if n, ok := row.Int("participantes"); ok {
				stats.Participants += n
			}
			if w, ok := row.Float("residuos_recolectados_kg"); ok {
				stats.WeightTotalKg += w
				weighted++
			}
		}
	}
	if weighted > 0 {
		stats.WeightMeanKg = stats.WeightTotalKg / float64(weighted)
	}
	stats.DistinctZones = len(zones)
	stats.TopCategory = topKey(categories)
	return stats
}

// topKey returns the most frequent key, smallest key on ties so the
// result is deterministic.
func topKey(counts map[string]int) string {
	top, best := "", -1
	for k, n := range counts {
		if n > best || (n == best && k < top) {
			top, best = k, n
		}
	}
	return top
}

// Summary computes the cross-entity dashboard totals.
func (s *Service) Summary() (*Summary, error) {
	if cached, ok := s.cache.Get(summaryKey); ok {
		return cached.(*Summary), nil
	}

	sum := &Summary{}

	residuos, err := s.store.Load(schema.KindResiduos)
	if err != nil {
		return nil, err
	}
	sum.ResiduosTotal = residuos.Len()
	for _, row := range residuos.Rows {
		if row[schema.ColumnEstado] != schema.EstadoArchivado {
			sum.ResiduosActivos++
		}
		if w, ok := row.Float("peso_kg"); ok {
			sum.PesoTotalKg += w
		}
	}

	zonas, err := s.store.Load(schema.KindZonas)
	if err != nil {
		return nil, err
	}
	sum.ZonasCriticas = zonas.Len()
	for _, row := range zonas.Rows {
		switch row["nivel_riesgo"] {
		case "Alto", "Crítico":
			sum.ZonasAltoRiesgo++
		}
	}

	vets, err := s.store.Load(schema.KindVeterinarios)
	if err != nil {
		return nil, err
	}
	sum.ReportesVeterinarios = vets.Len()

	acts, err := s.store.Load(schema.KindActividades)
	if err != nil {
		return nil, err
	}
	sum.Actividades = acts.Len()
	for _, row := range acts.Rows {
		if n, ok := row.Int("participantes"); ok {
			sum.Participantes += n
		}
	}

	encuestas, err := s.store.Load(schema.KindEncuestas)
	if err != nil {
		return nil, err
	}
	sum.Encuestas = encuestas.Len()

	s.cache.SetDefault(summaryKey, sum)
	return sum, nil
}
