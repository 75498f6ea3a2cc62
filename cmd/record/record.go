// Package record provides the CRUD subcommands over the entity tables.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecoparque/residuos-go/internal/backup"
	"github.com/ecoparque/residuos-go/internal/conf"
	"github.com/ecoparque/residuos-go/internal/evidence"
	"github.com/ecoparque/residuos-go/internal/logging"
	"github.com/ecoparque/residuos-go/internal/records"
	"github.com/ecoparque/residuos-go/internal/schema"
	"github.com/ecoparque/residuos-go/internal/tablestore"
)

// Command creates the record command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Create, query, update and delete records",
	}

	cmd.AddCommand(
		createCommand(settings),
		getCommand(settings),
		listCommand(settings),
		updateCommand(settings),
		deleteCommand(settings),
	)
	return cmd
}

func newService(settings *conf.Settings) records.Interface {
	logger := logging.HumanReadable()
	store := tablestore.New(settings, logger)
	return records.NewService(settings, store, backup.NewManager(settings, logger),
		evidence.New(settings, logger), nil, logger)
}

// parseFields converts key=value arguments into a field map.
func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("expected column=value, got %q", arg)
		}
		fields[key] = value
	}
	return fields, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func createCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "create <entity> <column=value>...",
		Short: "Create a record from column=value pairs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			id, err := newService(settings).Create(kind, fields)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
}

func getCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			row, err := newService(settings).Get(kind, args[1])
			if err != nil {
				return err
			}
			return printJSON(row)
		},
	}
}

func listCommand(settings *conf.Settings) *cobra.Command {
	var equals []string

	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List records, optionally filtered by column=value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			filters := records.Filters{}
			if len(equals) > 0 {
				filters.Equals, err = parseFields(equals)
				if err != nil {
					return err
				}
			}
			rows, err := newService(settings).Query(kind, filters)
			if err != nil {
				return err
			}
			return printJSON(rows)
		},
	}
	cmd.Flags().StringSliceVar(&equals, "filter", nil, "Equality filter as column=value, repeatable")
	return cmd
}

func updateCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "update <entity> <id> <column=value>...",
		Short: "Overwrite columns of an existing record",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			partial, err := parseFields(args[2:])
			if err != nil {
				return err
			}
			return newService(settings).Update(kind, args[1], partial)
		},
	}
}

func deleteCommand(settings *conf.Settings) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete a record (soft or hard)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			return newService(settings).Delete(kind, args[1], mode)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "Delete mode (hard or soft), defaults to the configured per-entity mode")
	return cmd
}
