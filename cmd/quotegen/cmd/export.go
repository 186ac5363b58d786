package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/quotedoc/internal/document"
	"github.com/Simplici0/quotedoc/internal/export"
	"github.com/Simplici0/quotedoc/internal/generator"
	"github.com/Simplici0/quotedoc/internal/history"
	"github.com/Simplici0/quotedoc/internal/storage"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		file       string
		outDir     string
		chromePath string
		noSandbox  bool
		download   bool
	)

	c := &cobra.Command{
		Use:   "export",
		Short: "Render the quotation and write it as a PDF",
		Long: `Render every page, capture it in a headless browser, and write one PDF
to <output-dir>/<quote id>/<prefix>_<client>_<YYYYMMDD>.pdf.

Examples:
  quotegen export -f request.json -o ./exports
  quotegen export -f request.json --no-sandbox --download-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, file)
			if err != nil {
				return err
			}
			provider, database, err := a.open()
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			if outDir == "" {
				outDir = a.cfg.Export.Dir
			}
			sink, err := storage.NewLocalSink(outDir)
			if err != nil {
				return err
			}

			opts := []export.Option{
				export.WithLogger(a.log.Named("export")),
				export.WithTimeout(a.cfg.Export.Timeout),
			}
			if chromePath == "" {
				chromePath = a.cfg.Chrome.Path
			}
			if chromePath != "" {
				opts = append(opts, export.WithChromePath(chromePath))
			}
			if noSandbox || a.cfg.Chrome.NoSandbox {
				opts = append(opts, export.WithNoSandbox())
			}
			if download || a.cfg.Chrome.AutoDownload {
				opts = append(opts, export.WithAutoDownload())
			}
			r, err := export.NewChromeRasterizer(opts...)
			if err != nil {
				return err
			}
			defer r.Close()

			gen := &generator.Generator{
				Settings: provider,
				Exporter: export.NewExporter(r, a.log.Named("export")),
				Sink:     sink,
				Prefix:   a.cfg.Export.Prefix,
				Options:  document.DefaultOptions(),
				Log:      a.log,
			}
			if database != nil {
				gen.History = history.NewRepo(database)
			}

			art, err := gen.Export(cmd.Context(), req)
			if err != nil {
				return err
			}

			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), art.Record)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", art.Record.Location, art.Record.PageCount)
			return err
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, or - for stdin")
	c.Flags().StringVarP(&outDir, "output-dir", "o", "", "directory for the PDF (default EXPORT_DIR)")
	c.Flags().StringVar(&chromePath, "chrome", "", "path to the Chrome or Chromium executable")
	c.Flags().BoolVar(&noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	c.Flags().BoolVar(&download, "download-browser", false, "download a Chromium build when none is installed")
	return c
}
