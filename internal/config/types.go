package config

// ThemeChoice selects the editor chrome theme.
type ThemeChoice string

const (
	ThemeLight ThemeChoice = "light"
	ThemeDark  ThemeChoice = "dark"
	ThemeAuto  ThemeChoice = "auto"
)

// Config is the top-level pagemason configuration, corresponding to .pagemason.yml.
type Config struct {
	Port         int          `yaml:"port" koanf:"port"`
	DataDir      string       `yaml:"data_dir" koanf:"data_dir"`
	Project      string       `yaml:"project" koanf:"project"`
	Theme        ThemeChoice  `yaml:"theme" koanf:"theme"`
	FrameMillis  int          `yaml:"frame_ms" koanf:"frame_ms"`
	OpenBrowser  bool         `yaml:"open_browser" koanf:"open_browser"`
	AllowAll     bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Export       ExportConfig `yaml:"export" koanf:"export"`
}

// ExportConfig holds the defaults used when assembling an export bundle.
type ExportConfig struct {
	Dir          string   `yaml:"dir" koanf:"dir"`
	BaseName     string   `yaml:"base_name" koanf:"base_name"`
	PageTitle    string   `yaml:"page_title" koanf:"page_title"`
	HeadHTML     string   `yaml:"head_html" koanf:"head_html"`
	AssetsDir    string   `yaml:"assets_dir" koanf:"assets_dir"`
	AssetInclude []string `yaml:"asset_include" koanf:"asset_include"`
	AssetExclude []string `yaml:"asset_exclude" koanf:"asset_exclude"`
}
