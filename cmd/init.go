package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/halmert/pagemason/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long:  `Walks through the editor settings (port, theme, export options) and writes a .pagemason.yml config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists; edit it directly or remove it first", cfgFile)
		}

		cfg, err := config.RunWizard()
		if err != nil {
			return fmt.Errorf("running setup: %w", err)
		}
		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(os.Stderr, "Wrote %s. Run `pagemason serve` to start editing.\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
