package settings

// ThemeChoice is the user's editor theme selection.
type ThemeChoice string

const (
	ThemeLight ThemeChoice = "light"
	ThemeDark  ThemeChoice = "dark"
	ThemeAuto  ThemeChoice = "auto"
)

// HeadSettings are the user-editable head/export preferences.
type HeadSettings struct {
	PageTitle      string `json:"page_title"`
	HeadHTML       string `json:"head_html"`
	ExportBaseName string `json:"export_base_name"`
}

// PaletteSize is the number of color slots in a custom palette.
const PaletteSize = 7

// Palette holds up to seven optional color overrides. An empty slot means
// no override.
type Palette [PaletteSize]string

// Values is the full settings snapshot held in memory.
type Values struct {
	Theme          ThemeChoice  `json:"theme"`
	Head           HeadSettings `json:"head"`
	PaletteEnabled bool         `json:"palette_enabled"`
	Palette        Palette      `json:"palette"`
}

// DefaultValues returns the settings used when nothing is stored, or when
// a stored entry is corrupt.
func DefaultValues() Values {
	return Values{
		Theme: ThemeAuto,
		Head: HeadSettings{
			PageTitle:      "Untitled Page",
			ExportBaseName: "page",
		},
	}
}

// validThemes is the set of recognized theme choices.
var validThemes = map[ThemeChoice]bool{
	ThemeLight: true,
	ThemeDark:  true,
	ThemeAuto:  true,
}
