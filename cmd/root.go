package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pagemason",
	Short: "Visual HTML/CSS page editor with bidirectional source sync",
	Long: `Pagemason is a local visual page editor. It serves an editing canvas
in your browser, keeps a three-tab source view (HTML, CSS, JS) in sync
with every canvas change, and exports the result as a self-contained
static bundle.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".pagemason.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
