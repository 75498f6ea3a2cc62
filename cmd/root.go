package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	backupcmd "github.com/ecoparque/residuos-go/cmd/backup"
	exportcmd "github.com/ecoparque/residuos-go/cmd/export"
	recordcmd "github.com/ecoparque/residuos-go/cmd/record"
	seedcmd "github.com/ecoparque/residuos-go/cmd/seed"
	servecmd "github.com/ecoparque/residuos-go/cmd/serve"
	statscmd "github.com/ecoparque/residuos-go/cmd/stats"
	"github.com/ecoparque/residuos-go/internal/buildinfo"
	"github.com/ecoparque/residuos-go/internal/conf"
)

// RootCommand creates and returns the root command with all
// subcommands attached.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "residuos",
		Short: "Park waste tracking CLI",
		Long:  "Record, query and report waste sightings, critical zones, wildlife reports, community activities and citizen surveys of the park.",
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		servecmd.Command(settings),
		recordcmd.Command(settings),
		backupcmd.Command(settings),
		seedcmd.Command(settings),
		exportcmd.Command(settings),
		statscmd.Command(settings),
		versionCommand(),
	)

	return rootCmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(buildinfo.String())
		},
	}
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Data.Dir, "datadir", viper.GetString("data.dir"), "Directory holding the entity CSV files")
	rootCmd.PersistentFlags().StringVar(&settings.Data.LoadPolicy, "loadpolicy", viper.GetString("data.loadpolicy"), "Table load policy (lenient or strict)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
