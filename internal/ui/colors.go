package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	active  lipgloss.Style
	playing lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
	help    lipgloss.Style
	sidebar lipgloss.Style
	rule    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		active:  NewBold(t),
		playing: NewBold(s),
		err:     NewBold(e),
		muted:   NewStyle(h),
		help:    NewEm(h),
		sidebar: lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1).
			BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color(h)),
		rule: NewStyle(w),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// albumBanner styles an album heading with its background colour, if it has one.
func albumBanner(bg string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if bg == "" {
		return s.Inherit(styles.active)
	}
	return s.Background(lipgloss.Color(bg)).Foreground(lipgloss.Color("#FFFFFF"))
}
