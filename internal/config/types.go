package config

// Mode selects the document presentation.
type Mode string

const (
	ModeHierarchical Mode = "hierarchical"
	ModeFlat         Mode = "flat"
)

// Config is the top-level bpmnav configuration, corresponding to .bpmnav.yml.
type Config struct {
	ProjectName string `yaml:"project_name" koanf:"project_name"`
	Description string `yaml:"description,omitempty" koanf:"description"`
	Mode        Mode   `yaml:"mode" koanf:"mode"`
	RootLabel   string `yaml:"root_label,omitempty" koanf:"root_label"`

	// Input is a manifest file or a directory of rendered SVG diagrams.
	Input   string   `yaml:"input" koanf:"input"`
	Main    string   `yaml:"main,omitempty" koanf:"main"`
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	OutputDir  string `yaml:"output_dir" koanf:"output_dir"`
	OutputFile string `yaml:"output_file" koanf:"output_file"`

	Port            int  `yaml:"port" koanf:"port"`
	OpenBrowser     bool `yaml:"open_browser" koanf:"open_browser"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	// CatalogPath is the SQLite export catalog. Empty disables it.
	CatalogPath string `yaml:"catalog_path" koanf:"catalog_path"`
}
