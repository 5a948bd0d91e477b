package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/halmert/pagemason/internal/config"
	"github.com/halmert/pagemason/internal/db"
	"github.com/halmert/pagemason/internal/project"
	"github.com/halmert/pagemason/internal/settings"
)

// openWorkspace loads the config and opens the database plus the stores
// every command needs. The caller owns closing the database.
func openWorkspace() (*config.Config, *db.DB, *settings.Store, *project.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating data dir: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "pagemason.db"))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := settings.NewStore(database, settingsDefaults(cfg))
	if err != nil {
		database.Close()
		return nil, nil, nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	return cfg, database, store, project.NewStore(database), nil
}

// settingsDefaults seeds the settings store from the config file; stored
// settings still win once the user has changed anything in the editor.
func settingsDefaults(cfg *config.Config) settings.Values {
	vals := settings.DefaultValues()
	vals.Theme = settings.ThemeChoice(cfg.Theme)
	if cfg.Export.PageTitle != "" {
		vals.Head.PageTitle = cfg.Export.PageTitle
	}
	if cfg.Export.BaseName != "" {
		vals.Head.ExportBaseName = cfg.Export.BaseName
	}
	if cfg.Export.HeadHTML != "" {
		vals.Head.HeadHTML = cfg.Export.HeadHTML
	}
	return vals
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open browser: %v\n", err)
	}
}
