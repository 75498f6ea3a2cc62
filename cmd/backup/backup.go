// Package backup provides the backup command for immediate table
// snapshots.
package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/logging"
	"github.com/ecoparque/residuos-go/internal/schema"
)

// Command creates and returns the backup command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot every entity table immediately",
		Long:  "Copy each live CSV table into the configured backup directory, applying the retention policy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(settings)
		},
	}

	cmd.AddCommand(statsCommand(settings))
	return cmd
}

func runBackup(settings *conf.Settings) error {
	logger := logging.HumanReadable()
	manager := backup.NewManager(settings, logger)
	if !manager.Enabled() {
		return fmt.Errorf("backups are disabled in the configuration")
	}

	for _, kind := range schema.AllKinds() {
		info, err := manager.Snapshot(kind)
		switch {
		case err != nil:
			logger.Error("snapshot failed", "entity", kind, "error", err)
		case info == nil:
			fmt.Printf("%-14s no live table, skipped\n", kind)
		default:
			fmt.Printf("%-14s %s (%d bytes)\n", kind, info.Path, info.Size)
		}
	}
	return nil
}

func statsCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-entity snapshot counts and sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := backup.NewManager(settings, logging.HumanReadable())
			stats, err := manager.GetStats()
			if err != nil {
				return err
			}
			for _, kind := range schema.AllKinds() {
				s := stats[kind]
				fmt.Printf("%-14s %d snapshots, %d bytes total\n", kind, s.Count, s.TotalSize)
			}
			return nil
		},
	}
}
