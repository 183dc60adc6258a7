package config

import "path/filepath"

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".bpmnav.yml"

// DefaultExcludes are glob patterns excluded from diagram discovery by default.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.svg",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeHierarchical,
		Input:       ".",
		Include:     []string{"**/*.svg"},
		Exclude:     append([]string(nil), DefaultExcludes...),
		OutputDir:   "export",
		OutputFile:  "",
		Port:        8080,
		OpenBrowser: true,
		CatalogPath: filepath.Join(".bpmnav", "catalog.db"),
	}
}
