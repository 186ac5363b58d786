package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/quotedoc/internal/settings"
)

var errNoDB = errors.New("this command needs --db")

func newSettingsCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "settings",
		Short: "Show or change pricing settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current pricing settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, database, err := a.open()
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			s, err := provider.Get(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}

	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the stored pricing settings from a JSON file",
		Long: `Fields missing from the file take their default values. The record is
validated before it is saved and its version is incremented.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read settings: %w", err)
			}
			next, err := settings.Merge(raw)
			if err != nil {
				return err
			}
			return a.save(cmd, next)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", "settings JSON file")
	_ = set.MarkFlagRequired("file")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default pricing settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.save(cmd, settings.Default())
		},
	}

	c.AddCommand(show, set, reset)
	return c
}

func (a *app) save(cmd *cobra.Command, next settings.Settings) error {
	if a.dbPath == "" {
		return errNoDB
	}
	provider, database, err := a.open()
	if err != nil {
		return err
	}
	defer database.Close()

	saved, err := provider.Save(cmd.Context(), next)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved pricing settings version %d\n", saved.Version)
	return err
}
