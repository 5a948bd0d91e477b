package config

// DefaultAssetExcludes are glob patterns skipped when copying assets into an
// export directory.
var DefaultAssetExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.psd",
	"**/*.sketch",
	"**/.DS_Store",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:        4173,
		DataDir:     ".pagemason",
		Project:     "default",
		Theme:       ThemeAuto,
		FrameMillis: 16,
		OpenBrowser: true,
		Export: ExportConfig{
			Dir:          "export",
			BaseName:     "page",
			PageTitle:    "Untitled Page",
			AssetInclude: []string{"**"},
			AssetExclude: DefaultAssetExcludes,
		},
	}
}
