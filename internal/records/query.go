package records

import (
	"strings"

	"github.com/ecoparque/residuos-go/internal/schema"
)

// Query returns copies of the rows matching the filter set. An empty
// filter set returns the whole table; a missing table yields an empty
// result, never an error.
func (s *Service) Query(kind schema.Kind, filters Filters) ([]schema.Row, error) {
	table, err := s.store.Load(kind)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Row, 0, table.Len())
	for _, row := range table.Rows {
		if matches(row, filters) {
			out = append(out, row.Clone())
		}
	}
	return out, nil
}

func matches(row schema.Row, f Filters) bool {
	for col, want := range f.Equals {
		if !strings.EqualFold(strings.TrimSpace(row[col]), strings.TrimSpace(want)) {
			return false
		}
	}
	if f.DateFrom != nil || f.DateTo != nil {
		d, ok := row.Date("fecha")
		if !ok {
			return false
		}
		if f.DateFrom != nil && d.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && d.After(*f.DateTo) {
			return false
		}
	}
	if f.WeightMin != nil || f.WeightMax != nil {
		w, ok := row.Float("peso_kg")
		if !ok {
			return false
		}
		if f.WeightMin != nil && w < *f.WeightMin {
			return false
		}
		if f.WeightMax != nil && w > *f.WeightMax {
			return false
		}
	}
	return true
}
