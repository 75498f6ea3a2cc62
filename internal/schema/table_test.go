package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowTypedAccessors(t *testing.T) {
	t.Parallel()

	row := Row{
		"peso_kg":     "5.25",
		"voluntarios": "4",
		"recolectado": "True",
		"fecha":       "2026-03-15",
		"vacio":       "",
		"malo":        "not-a-number",
	}

	f, ok := row.Float("peso_kg")
	require.True(t, ok)
	assert.InDelta(t, 5.25, f, 1e-9)

	n, ok := row.Int("voluntarios")
	require.True(t, ok)
	assert.Equal(t, 4, n)

	b, ok := row.Bool("recolectado")
	require.True(t, ok)
	assert.True(t, b)

	d, ok := row.Date("fecha")
	require.True(t, ok)
	assert.Equal(t, "2026-03-15", d.Format(DateLayout))

	_, ok = row.Float("vacio")
	assert.False(t, ok)
	_, ok = row.Float("malo")
	assert.False(t, ok)
	_, ok = row.Int("ausente")
	assert.False(t, ok)
}

func TestTableFindAndRemove(t *testing.T) {
	t.Parallel()

	desc, err := Lookup(KindResiduos)
	require.NoError(t, err)

	table := NewTable(desc)
	table.Append(Row{ColumnID: "RES-0001", "zona": "Norte"})
	table.Append(Row{ColumnID: "RES-0002", "zona": "Sur"})
	table.Append(Row{ColumnID: "RES-0003", "zona": "Este"})

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 1, table.Find("RES-0002"))
	assert.Equal(t, -1, table.Find("RES-9999"))
	assert.Equal(t, []string{"RES-0001", "RES-0002", "RES-0003"}, table.IDs())

	table.RemoveAt(1)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, -1, table.Find("RES-0002"))
	assert.Equal(t, []string{"RES-0001", "RES-0003"}, table.IDs())
}

func TestTableClone(t *testing.T) {
	t.Parallel()

	desc, err := Lookup(KindZonas)
	require.NoError(t, err)

	table := NewTable(desc)
	table.Append(Row{ColumnID: "ZC-001", "nombre": "Laguna Sur"})

	clone := table.Clone()
	clone.Rows[0]["nombre"] = "mutado"
	clone.Append(Row{ColumnID: "ZC-002"})

	assert.Equal(t, "Laguna Sur", table.Rows[0]["nombre"])
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 2, clone.Len())
}
