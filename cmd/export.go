package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/halmert/pagemason/internal/export"
	"github.com/halmert/pagemason/internal/progress"
)

var (
	exportDir  string
	exportName string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current project as a static bundle",
	Long:  `Assembles the configured project into a three-file static bundle (HTML, CSS, JS) plus any configured asset files, without starting the editor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, store, projects, err := openWorkspace()
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := context.Background()
		p, err := projects.GetByName(ctx, cfg.Project)
		if err != nil {
			return fmt.Errorf("loading project %q: %w", cfg.Project, err)
		}
		if p == nil {
			return fmt.Errorf("project %q has never been saved; run `pagemason serve` first", cfg.Project)
		}

		vals := store.Values()
		in := export.Input{
			HTML:     p.HTML,
			CSS:      p.CSS,
			JS:       p.JS,
			Title:    vals.Head.PageTitle,
			HeadHTML: vals.Head.HeadHTML,
			BaseName: vals.Head.ExportBaseName,
		}
		if exportName != "" {
			in.BaseName = exportName
		}

		dir := cfg.Export.Dir
		if exportDir != "" {
			dir = exportDir
		}

		bundle := export.Assemble(in)
		if err := export.WriteDir(bundle, dir); err != nil {
			return fmt.Errorf("writing bundle: %w", err)
		}
		for _, f := range bundle.Files {
			fmt.Fprintf(os.Stderr, "  wrote %s\n", filepath.Join(dir, f.Name))
		}

		if cfg.Export.AssetsDir != "" {
			n, err := export.CopyAssets(cfg.Export.AssetsDir, dir,
				cfg.Export.AssetInclude, cfg.Export.AssetExclude, progress.NewReporter())
			if err != nil {
				return fmt.Errorf("copying assets: %w", err)
			}
			fmt.Fprintf(os.Stderr, "  copied %d asset files\n", n)
		}

		fmt.Fprintf(os.Stderr, "Exported %q to %s\n", p.Name, dir)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "out", "", "output directory (defaults to the configured export dir)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "base file name for the bundle")
	rootCmd.AddCommand(exportCmd)
}
