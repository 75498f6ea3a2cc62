// Package stats provides the stats command for aggregate numbers.
package stats

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/logging"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Command creates and returns the stats command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [entity]",
		Short: "Show aggregate statistics",
		Long:  "Print per-table statistics for an entity, or the cross-entity summary when no entity is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.HumanReadable()
			store := tablestore.New(settings, logger)
			svc := records.NewService(settings, store, backup.NewManager(settings, logger),
				evidence.New(settings, logger), nil, logger)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if len(args) == 0 {
				sum, err := svc.Summary()
				if err != nil {
					return err
				}
				return enc.Encode(sum)
			}

			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			stats, err := svc.Aggregate(kind)
			if err != nil {
				return err
			}
			return enc.Encode(stats)
		},
	}
	return cmd
}
