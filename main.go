package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	theme := flag.String("theme", "", "Markdown rendering theme: auto, light, or dark")
	gatewayURL := flag.String("gateway", "", "GraphQL gateway base URL (overrides the config file)")
	pageSize := flag.Int("page-size", 0, "Investors per page (overrides the config file)")
	flag.Parse()

	m := initialModel()
	if *theme != "" {
		m.config.Theme = *theme
		setMarkdownTheme(markdownThemeFromString(*theme))
	}
	if url := strings.TrimSpace(*gatewayURL); url != "" && url != m.config.GatewayURL {
		m.config.GatewayURL = url
		m.rewireGateway(url)
	}
	if *pageSize > 0 {
		m.config.PageSize = *pageSize
		m.window.Size = *pageSize
	}

	if _, err := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
