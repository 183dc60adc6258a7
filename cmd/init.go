package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bpmnav/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bpmnav configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure bpmnav for your diagrams and generates a .bpmnav.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
