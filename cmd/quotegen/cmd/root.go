// Package cmd provides the CLI commands for quotegen.
package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/quotedoc/internal/config"
	"github.com/Simplici0/quotedoc/internal/db"
	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/logging"
	"github.com/Simplici0/quotedoc/internal/migrations"
	"github.com/Simplici0/quotedoc/internal/pricing"
	"github.com/Simplici0/quotedoc/internal/settings"
)

// app carries the persistent flags shared by every subcommand.
type app struct {
	dbPath  string
	verbose bool
	asJSON  bool

	cfg config.Config
	log *zap.Logger
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "quotegen",
		Short: "Build priced, paginated quotation documents",
		Long: `quotegen prices a website project, lays the quotation out on A4 pages,
and exports it as a PDF.

Examples:
  quotegen estimate -f request.json
  quotegen layout -f request.json --json
  quotegen export -f request.json -o ./exports
  quotegen settings show --db ./dev.db`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "sqlite database holding pricing settings (defaults are used when empty)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(newEstimateCmd(a))
	root.AddCommand(newLayoutCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newSettingsCmd(a))
	return root
}

func (a *app) init() error {
	a.cfg = config.Load()

	logCfg := a.cfg.Log
	if a.verbose {
		logCfg.Level = "debug"
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	a.log = log

	for _, w := range a.cfg.Warnings {
		a.log.Debug("config: " + w)
	}
	return nil
}

// open returns the settings provider selected by --db. The returned database
// is nil when no --db was given.
func (a *app) open() (settings.Provider, *sql.DB, error) {
	if a.dbPath == "" {
		return &settings.Static{Value: settings.Default()}, nil, nil
	}

	database, err := db.Open(a.dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, nil, err
	}
	return settings.NewStore(database, a.log.Named("settings")), database, nil
}

// readRequest decodes a quotation request from path, or stdin when path is "-".
func readRequest(cmd *cobra.Command, path string) (document.Request, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return document.Request{}, fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req document.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return document.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRange(r pricing.Range) string {
	if r.Degenerate() {
		return humanize.Comma(r.Min)
	}
	return humanize.Comma(r.Min) + " ~ " + humanize.Comma(r.Max)
}
