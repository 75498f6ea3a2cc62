// Package export provides the export command, rendering an XLSX report.
package export

import (
	"github.com/spf13/cobra"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/export"
	"github.com/ecoparque/residuos-go/internal/logging"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Command creates and returns the export command.
func Command(settings *conf.Settings) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tables into an XLSX workbook",
		Long:  "Render every entity table plus a summary sheet into a single XLSX file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.HumanReadable()
			store := tablestore.New(settings, logger)
			svc := records.NewService(settings, store, backup.NewManager(settings, logger),
				evidence.New(settings, logger), nil, logger)
			return export.New(store, svc, logger).WriteWorkbook(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "reporte_parque.xlsx", "Output file path")
	return cmd
}
