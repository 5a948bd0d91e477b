package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halmert/pagemason/internal/importer"
	"github.com/halmert/pagemason/internal/project"
)

var importProject string

var importCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Import a markdown document as a new project",
	Long:  `Converts a markdown file to an HTML page body and saves it as a project, ready to open with pagemason serve.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		html, err := importer.Markdown(src)
		if err != nil {
			return err
		}

		name := importProject
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		_, database, _, projects, err := openWorkspace()
		if err != nil {
			return err
		}
		defer database.Close()

		ctx := context.Background()
		p := project.Project{Name: name, HTML: html, CSS: importer.StarterCSS}
		if existing, err := projects.GetByName(ctx, name); err != nil {
			return fmt.Errorf("checking project %q: %w", name, err)
		} else if existing != nil {
			p.ID = existing.ID
		}

		saved, err := projects.Save(ctx, p)
		if err != nil {
			return fmt.Errorf("saving project %q: %w", name, err)
		}

		fmt.Fprintf(os.Stderr, "Imported %s as project %q (%s)\n", args[0], saved.Name, saved.ID)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importProject, "project", "", "project name (defaults to the file name)")
	rootCmd.AddCommand(importCmd)
}
