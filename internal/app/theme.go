package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"signage-planner/pkg/colorutil"
)

// SignageTheme is the editor's fyne theme.
type SignageTheme struct{}

var _ fyne.Theme = (*SignageTheme)(nil)

func (t *SignageTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Blue
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Purple, 0.5)
	case theme.ColorNameFocus:
		return colorutil.WithAlpha(colorutil.Blue, 0.6)
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *SignageTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *SignageTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *SignageTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	default:
		return theme.DefaultTheme().Size(name)
	}
}
