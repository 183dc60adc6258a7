package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/bpmnav/internal/config"
	"github.com/ziadkadry99/bpmnav/internal/db"
	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/export"
	"github.com/ziadkadry99/bpmnav/internal/history"
	"github.com/ziadkadry99/bpmnav/internal/navigation"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `bpmnav init` to create a config file", err)
	}
	return cfg, nil
}

// loadStore builds the record store from cfg.Input, which is either a
// manifest file or a directory of rendered diagrams. Config metadata wins
// over manifest metadata.
func loadStore(cfg *config.Config) (*diagram.Store, error) {
	info, err := os.Stat(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	meta := diagram.Metadata{ProjectName: cfg.ProjectName, Description: cfg.Description}
	var records []diagram.Record
	if info.IsDir() {
		records, err = diagram.Collect(cfg.Input, diagram.CollectOptions{
			Include: cfg.Include,
			Exclude: cfg.Exclude,
			Main:    cfg.Main,
		})
		if err != nil {
			return nil, err
		}
	} else {
		var m *diagram.Manifest
		m, records, err = diagram.LoadManifest(cfg.Input)
		if err != nil {
			return nil, err
		}
		if meta.ProjectName == "" {
			meta.ProjectName = m.Project
		}
		if meta.Description == "" {
			meta.Description = m.Description
		}
	}
	return diagram.NewStore(records, meta)
}

// exportOptions maps the config onto document options.
func exportOptions(cfg *config.Config) (export.Options, error) {
	mode, err := navigation.ParseMode(string(cfg.Mode))
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Mode: mode, RootLabel: cfg.RootLabel, Description: cfg.Description}, nil
}

// openCatalog opens the export catalog. It returns nil when the catalog is
// disabled.
func openCatalog(cfg *config.Config) (*db.DB, *history.Store, error) {
	if cfg.CatalogPath == "" {
		return nil, nil, nil
	}
	database, err := db.Open(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}
	return database, history.NewStore(database), nil
}
