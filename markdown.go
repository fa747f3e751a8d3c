package main

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

type markdownTheme string

const (
	markdownThemeAuto  markdownTheme = "auto"
	markdownThemeDark  markdownTheme = "dark"
	markdownThemeLight markdownTheme = "light"
)

var (
	markdownMu       sync.Mutex
	markdownRenderer *glamour.TermRenderer
	markdownErr      error
	markdownStyle    = markdownThemeAuto
	markdownWordWrap = 80
)

// renderMarkdown returns Glamour-rendered terminal output for the provided
// Markdown, falling back to the raw text when rendering fails.
func renderMarkdown(content string) string {
	renderer := ensureMarkdownRenderer()
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

func ensureMarkdownRenderer() *glamour.TermRenderer {
	markdownMu.Lock()
	defer markdownMu.Unlock()
	if markdownRenderer != nil && markdownErr == nil {
		return markdownRenderer
	}
	options := []glamour.TermRendererOption{
		glamour.WithAutoStyle(),
	}
	if markdownWordWrap > 0 {
		options = append(options, glamour.WithWordWrap(markdownWordWrap))
	} else {
		options = append(options, glamour.WithWordWrap(0))
	}
	switch markdownStyle {
	case markdownThemeLight:
		options = append(options, glamour.WithStandardStyle("light"))
	case markdownThemeDark:
		options = append(options, glamour.WithStandardStyle("dark"))
	}
	markdownRenderer, markdownErr = glamour.NewTermRenderer(options...)
	if markdownErr != nil {
		return nil
	}
	return markdownRenderer
}

func setMarkdownTheme(theme markdownTheme) {
	markdownMu.Lock()
	defer markdownMu.Unlock()
	if theme == markdownStyle {
		return
	}
	markdownStyle = theme
	markdownRenderer = nil
	markdownErr = nil
}

func currentMarkdownTheme() markdownTheme {
	markdownMu.Lock()
	defer markdownMu.Unlock()
	return markdownStyle
}

func markdownThemeFromString(value string) markdownTheme {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return markdownThemeDark
	case "light":
		return markdownThemeLight
	default:
		return markdownThemeAuto
	}
}
