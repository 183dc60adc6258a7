package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// manifestCandidates are file names offered as the default input when one
// is found in the working directory.
var manifestCandidates = []string{"bpmnav-manifest.yml", "bpmnav-manifest.yaml", "diagrams.yml", "diagrams.yaml"}

// detectInput returns a manifest in the current directory, or "." to
// collect SVG files from it.
func detectInput() string {
	for _, name := range manifestCandidates {
		if matches, _ := filepath.Glob(name); len(matches) > 0 {
			return matches[0]
		}
	}
	return "."
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to bpmnav! Let's configure your export.")
	fmt.Println()

	cfg := DefaultConfig()
	cfg.ProjectName = filepath.Base(mustAbs("."))

	// 1. Project name.
	namePrompt := promptui.Prompt{
		Label:   "Project name",
		Default: cfg.ProjectName,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("project name: %w", err)
	}
	cfg.ProjectName = strings.TrimSpace(name)

	// 2. Presentation.
	modePrompt := promptui.Select{
		Label: "Select navigation style",
		Items: []string{
			"hierarchical: drill into sub-processes along a breadcrumb trail",
			"flat:         every process listed in a sidebar",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	cfg.Mode = []Mode{ModeHierarchical, ModeFlat}[modeIdx]

	// 3. Input.
	inputPrompt := promptui.Prompt{
		Label:   "Manifest file or directory of rendered SVG diagrams",
		Default: detectInput(),
	}
	cfg.Input, err = inputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the navigator document",
		Default: cfg.OutputDir,
	}
	cfg.OutputDir, err = outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 5. Preview port.
	portPrompt := promptui.Prompt{
		Label:   "Preview server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func mustAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
