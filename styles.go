package main

import "github.com/charmbracelet/lipgloss"

type colorPalette struct {
	text      lipgloss.AdaptiveColor
	textMuted lipgloss.AdaptiveColor
	accent    lipgloss.AdaptiveColor
	positive  lipgloss.AdaptiveColor
	negative  lipgloss.AdaptiveColor
	border    lipgloss.AdaptiveColor
	selection lipgloss.AdaptiveColor
}

var palette = colorPalette{
	text:      lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e8e8f0"},
	textMuted: lipgloss.AdaptiveColor{Light: "#6b6b80", Dark: "#9a9ab0"},
	accent:    lipgloss.AdaptiveColor{Light: "#3b5bdb", Dark: "#74c0fc"},
	positive:  lipgloss.AdaptiveColor{Light: "#2b8a3e", Dark: "#69db7c"},
	negative:  lipgloss.AdaptiveColor{Light: "#c92a2a", Dark: "#ff8787"},
	border:    lipgloss.AdaptiveColor{Light: "#ced4da", Dark: "#3a3a50"},
	selection: lipgloss.AdaptiveColor{Light: "#d0ebff", Dark: "#2b3a67"},
}

type styles struct {
	app, topBar                      lipgloss.Style
	columnTitle                      lipgloss.Style
	panel, panelFocused              lipgloss.Style
	statusBar, statusSeg, statusHint lipgloss.Style
	listItem, listSel                lipgloss.Style
	placeholder, failure             lipgloss.Style
	summaryLabel, summaryValue       lipgloss.Style
	searchPrompt                     lipgloss.Style
	overlay, overlayTitle            lipgloss.Style
	toast                            lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Padding(0, 1).Bold(true),
		columnTitle:  base.Copy().Bold(true).Padding(0, 1),
		panel:        base.BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.BorderStyle(focusedBorder).BorderForeground(palette.accent),
		statusBar:    base.Padding(0, 1),
		statusSeg:    base.Padding(0, 1).MarginRight(1),
		statusHint:   base.Foreground(palette.textMuted),
		listItem:     base.Padding(0, 1),
		listSel:      base.Padding(0, 1).Bold(true).Foreground(palette.accent),
		placeholder:  base.Padding(1, 2).Foreground(palette.textMuted),
		failure:      base.Padding(1, 2).Foreground(palette.negative),
		summaryLabel: base.Foreground(palette.textMuted),
		summaryValue: base.Copy().Bold(true),
		searchPrompt: base.Copy().Bold(true).Foreground(palette.accent),
		overlay:      base.Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(palette.accent),
		overlayTitle: base.Copy().Bold(true),
		toast:        base.Padding(0, 1).Foreground(palette.accent),
	}
}
