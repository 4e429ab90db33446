package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	List  ListConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// ListConfig holds set list dimension configuration.
type ListConfig struct {
	// HeightReduction is subtracted from terminal height for list rows.
	// Accounts for: app padding (1) + title (2) + status line (1) + hints (1) = 5
	HeightReduction int

	// MinHeight is the minimum number of visible rows.
	MinHeight int

	// ContentPadding is subtracted from terminal width for row rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// HelpColumnWidth: width for each help overlay column.
	HelpColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	NameCharLimit int
	Width         int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		List: ListConfig{
			HeightReduction: 5,
			MinHeight:       3,
			ContentPadding:  6,
		},
		Modal: ModalConfig{
			WidthPercent:    50,
			MinWidth:        40,
			MaxWidth:        70,
			HelpColumnWidth: 22,
		},
		Input: InputConfig{
			NameCharLimit: 100,
			Width:         36,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
