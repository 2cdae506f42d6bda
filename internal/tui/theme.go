package tui

import "github.com/gdamore/tcell/v2"

// theme holds the color definitions for the application's UI.
type theme struct {
	backgroundColor tcell.Color
	textColor       tcell.Color
	borderColor     tcell.Color
	titleColor      tcell.Color
	accentColor     tcell.Color
	logInfoColor    tcell.Color
	logWarnColor    tcell.Color
	logErrorColor   tcell.Color
	nickPalette     []string
}

var defaultTheme = &theme{
	backgroundColor: tcell.ColorBlack,
	textColor:       tcell.ColorGainsboro,
	borderColor:     tcell.ColorDarkSlateGray,
	titleColor:      tcell.ColorMediumPurple,
	accentColor:     tcell.ColorAqua,
	logInfoColor:    tcell.ColorGray,
	logWarnColor:    tcell.ColorYellow,
	logErrorColor:   tcell.ColorRed,
	nickPalette: []string{
		"[#00ff00]",
		"[#33ccff]",
		"[#ff00ff]",
		"[#ffff00]",
		"[#6600ff]",
		"[#ff6347]",
	},
}
