package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. The caller decides where to save it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to pagemason! Let's set up your workspace.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Editor port.
	portPrompt := promptui.Prompt{
		Label:   "Editor server port",
		Default: strconv.Itoa(defaults.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 2. Editor theme.
	themePrompt := promptui.Select{
		Label: "Editor theme",
		Items: []string{
			"auto  — follow the system preference",
			"light — always light",
			"dark  — always dark",
		},
	}
	themeIdx, _, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	themes := []ThemeChoice{ThemeAuto, ThemeLight, ThemeDark}
	theme := themes[themeIdx]

	// 3. Export defaults.
	titlePrompt := promptui.Prompt{
		Label:   "Default page title for exports",
		Default: defaults.Export.PageTitle,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("page title: %w", err)
	}

	basePrompt := promptui.Prompt{
		Label:   "Default export file base name",
		Default: defaults.Export.BaseName,
	}
	baseName, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base name: %w", err)
	}

	exportPrompt := promptui.Prompt{
		Label:   "Export directory",
		Default: defaults.Export.Dir,
	}
	exportDir, err := exportPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("export dir: %w", err)
	}

	assetsPrompt := promptui.Prompt{
		Label:   "Assets directory to copy on export (leave blank for none)",
		Default: "",
	}
	assetsDir, err := assetsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}

	// Build the config.
	cfg := DefaultConfig()
	cfg.Port = port
	cfg.Theme = theme
	cfg.Export.PageTitle = strings.TrimSpace(title)
	cfg.Export.BaseName = strings.TrimSpace(baseName)
	cfg.Export.Dir = strings.TrimSpace(exportDir)
	cfg.Export.AssetsDir = strings.TrimSpace(assetsDir)

	return cfg, nil
}
