// Package seed provides the seed command, writing simulated datasets.
package seed

import (
	"github.com/spf13/cobra"

	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/logging"
	"github.com/ecoparque/residuos-go/internal/seed"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Command creates and returns the seed command.
func Command(settings *conf.Settings) *cobra.Command {
	counts := seed.DefaultCounts()
	var seedValue int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the tables with simulated park data",
		Long:  "Overwrite the entity tables with deterministic simulated datasets for demos and testing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.HumanReadable()
			store := tablestore.New(settings, logger)
			return seed.New(store, logger, seedValue).All(counts)
		},
	}

	cmd.Flags().IntVar(&counts.Residuos, "residuos", counts.Residuos, "Number of waste records")
	cmd.Flags().IntVar(&counts.Veterinarios, "veterinarios", counts.Veterinarios, "Number of veterinary reports")
	cmd.Flags().IntVar(&counts.Actividades, "actividades", counts.Actividades, "Number of community activities")
	cmd.Flags().IntVar(&counts.Encuestas, "encuestas", counts.Encuestas, "Number of survey responses")
	cmd.Flags().Int64Var(&seedValue, "seed", 42, "Random seed")

	return cmd
}
