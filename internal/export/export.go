// Package export renders the entity tables into a single XLSX workbook,
// one sheet per entity plus a summary sheet.
package export

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Sheet titles per entity kind.
var sheetNames = map[schema.Kind]string{
	schema.KindResiduos:     "Residuos",
	schema.KindZonas:        "Zonas Críticas",
	schema.KindVeterinarios: "Reportes Veterinarios",
	schema.KindActividades:  "Actividades",
	schema.KindEncuestas:    "Encuestas",
}

const summarySheet = "Resumen"

// Exporter builds workbooks from the live tables. It only reads.
type Exporter struct {
	store   *tablestore.Store
	records records.Interface
	logger  *slog.Logger
}

// New creates an exporter over the given store and record service.
func New(store *tablestore.Store, svc records.Interface, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: store, records: svc, logger: logger.With("service", "export")}
}

// WriteWorkbook renders every table and the summary into an XLSX file
// at path, creating parent directories as needed.
func (e *Exporter) WriteWorkbook(path string) error {
	data, err := e.Workbook()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return e.exportErr("create export directory", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return e.exportErr("write workbook", path, err)
	}
	e.logger.Info("workbook written", "path", path, "bytes", len(data))
	return nil
}

// Workbook renders the workbook into memory.
func (e *Exporter) Workbook() ([]byte, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, e.exportErr("create header style", "", err)
	}

	for _, kind := range schema.AllKinds() {
		if err := e.writeTableSheet(f, kind, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := e.writeSummarySheet(f, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, e.exportErr("serialize workbook", "", err)
	}
	if err := f.Close(); err != nil {
		return nil, e.exportErr("close workbook", "", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeTableSheet(f *excelize.File, kind schema.Kind, headerStyle int) error {
	table, err := e.store.Load(kind)
	if err != nil {
		return err
	}
	sheet := sheetNames[kind]
	if _, err := f.NewSheet(sheet); err != nil {
		return e.exportErr("create sheet", sheet, err)
	}

	for col, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return e.exportErr("locate header cell", sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return e.exportErr("write header cell", sheet, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return e.exportErr("style header cell", sheet, err)
		}
	}

	for rowIdx, row := range table.Rows {
		for col, name := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return e.exportErr("locate cell", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, row[name]); err != nil {
				return e.exportErr("write cell", sheet, err)
			}
		}
	}

	// freeze the header row
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func (e *Exporter) writeSummarySheet(f *excelize.File, headerStyle int) error {
	sum, err := e.records.Summary()
	if err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return e.exportErr("create sheet", summarySheet, err)
	}

	lines := []struct {
		label string
		value any
	}{
		{"Registros de residuos", sum.ResiduosTotal},
		{"Registros activos", sum.ResiduosActivos},
		{"Peso total (kg)", sum.PesoTotalKg},
		{"Zonas críticas", sum.ZonasCriticas},
		{"Zonas de alto riesgo", sum.ZonasAltoRiesgo},
		{"Reportes veterinarios", sum.ReportesVeterinarios},
		{"Actividades comunitarias", sum.Actividades},
		{"Participantes", sum.Participantes},
		{"Encuestas ciudadanas", sum.Encuestas},
	}
	if err := f.SetCellValue(summarySheet, "A1", "Indicador"); err != nil {
		return e.exportErr("write cell", summarySheet, err)
	}
	if err := f.SetCellValue(summarySheet, "B1", "Valor"); err != nil {
		return e.exportErr("write cell", summarySheet, err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return e.exportErr("style header", summarySheet, err)
	}
	for i, line := range lines {
		labelCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return e.exportErr("locate cell", summarySheet, err)
		}
		valueCell, err := excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return e.exportErr("locate cell", summarySheet, err)
		}
		if err := f.SetCellValue(summarySheet, labelCell, line.label); err != nil {
			return e.exportErr("write cell", summarySheet, err)
		}
		if err := f.SetCellValue(summarySheet, valueCell, line.value); err != nil {
			return e.exportErr("write cell", summarySheet, err)
		}
	}
	return nil
}

func (e *Exporter) exportErr(op, target string, err error) error {
	builder := errors.New(err).
		Component("export").
		Category(errors.CategoryExport).
		Context("operation", op)
	if target != "" {
		builder = builder.Context("target", target)
	}
	return builder.Build()
}
