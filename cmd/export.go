package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bpmnav/internal/config"
	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/export"
	"github.com/ziadkadry99/bpmnav/internal/history"
	"github.com/ziadkadry99/bpmnav/internal/preview"
	"github.com/ziadkadry99/bpmnav/internal/progress"
)

var (
	exportMode   string
	exportOutput string
	exportInput  string
	exportMain   string
	exportOpen   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the navigator document",
	Long: `Reads the diagrams named by the config (a manifest or a directory of SVG
files), checks that each one is self-contained and writes a single HTML
document that works offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := loggerFromContext(ctx)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyExportFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		sw := newStopwatch(logger)
		store, err := loadStore(cfg)
		if err != nil {
			return err
		}
		opts, err := exportOptions(cfg)
		if err != nil {
			return err
		}

		path := cfg.OutputPath()
		if exportOutput != "" {
			path = exportOutput
		}

		x := &export.Exporter{Logger: logger, Reporter: progress.NewReporter("Exporting diagrams")}
		res, err := x.Export(ctx, store, path, opts)
		if err != nil {
			return err
		}
		sw.done("Export complete")

		database, catalog, err := openCatalog(cfg)
		if err != nil {
			logger.Warn("export not recorded", "err", err)
		} else if catalog != nil {
			defer database.Close()
			id, err := catalog.Record(ctx, historyEntry(store.Metadata().ProjectName, res, store.Entries()))
			if err != nil {
				logger.Warn("export not recorded", "err", err)
			} else {
				logger.Debug("export recorded", "id", id, "catalog", cfg.CatalogPath)
			}
		}

		if exportOpen {
			abs, err := filepath.Abs(res.Path)
			if err == nil {
				err = preview.OpenBrowser("file://" + filepath.ToSlash(abs))
			}
			if err != nil {
				logger.Warn("could not open browser", "err", err)
			}
		}
		return nil
	},
}

// applyExportFlags overrides config values with the flags that were set.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = config.Mode(exportMode)
	}
	if flags.Changed("input") {
		cfg.Input = exportInput
	}
	if flags.Changed("main") {
		cfg.Main = exportMain
	}
}

func historyEntry(project string, res *export.Result, entries []diagram.Entry) history.Entry {
	h := history.Entry{
		Project:        project,
		Path:           res.Path,
		Mode:           string(res.Mode),
		TotalProcesses: len(res.Diagrams),
		TotalShapes:    res.Shapes(),
		Bytes:          res.Bytes,
	}
	for i, d := range res.Diagrams {
		filename := ""
		if i < len(entries) {
			filename = entries[i].Filename
		}
		h.Diagrams = append(h.Diagrams, history.Diagram{
			Index:    d.Index,
			Title:    d.Title,
			Filename: filename,
			Shapes:   d.Shapes,
		})
	}
	return h
}

func init() {
	exportCmd.Flags().StringVar(&exportMode, "mode", "", "presentation mode (hierarchical or flat)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default from config)")
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "manifest file or diagram directory")
	exportCmd.Flags().StringVar(&exportMain, "main", "", "main process diagram when exporting a directory")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the document in a browser when done")
	rootCmd.AddCommand(exportCmd)
}
