package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peview/peview/internal/gateway"
	"github.com/peview/peview/internal/grid"
	"github.com/peview/peview/internal/query"
)

const helpMarkdown = `# peview

Terminal browser for the investment platform gateway.

## Panels

- **Investors** lists the investor master table one server page at a time.
  Moving the cursor selects a row and loads its commitment breakdown.
- **Asset Classes** narrows the breakdown to a single asset class.
  Pick *All asset classes* to clear the filter.
- **Commitments** shows the selected investor's commitments. Rows that
  share an asset class are merged into a single labelled block.

## Keys

| Key | Action |
| --- | ------ |
| tab / shift+tab | move focus between panels |
| / | filter the current page by name, type or country |
| [ and ] | previous / next page |
| esc | clear the filter, then the selection |
| r | retry the focused panel's query |
| y | copy the highlighted investor row |
| s | breakdown summary overlay |
| e | switch gateway endpoint |
| ? | toggle this help |
| q | quit |

Queries are never retried automatically after a failure; press r.
`

func (m *model) openHelpOverlay() {
	m.helpOverlay = true
	m.summaryOverlay = false
	m.overlayView.SetContent(renderMarkdown(helpMarkdown))
	m.overlayView.GotoTop()
	m.telemetry.Emit(telemetryEvent{Event: "help_opened"})
}

// openSummaryOverlay shows the committed breakdown as rendered markdown.
func (m *model) openSummaryOverlay() {
	entry := m.breakdownBinding.Entry()
	if !entry.HasValue {
		m.setToast("Select an investor first", 4*time.Second)
		return
	}
	m.summaryOverlay = true
	m.helpOverlay = false
	m.overlayView.SetContent(renderMarkdown(breakdownMarkdown(entry.Value)))
	m.overlayView.GotoTop()
	m.telemetry.Emit(telemetryEvent{Event: "summary_opened", ItemID: entry.Value.InvestorID})
}

func (m *model) handleViewportOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "s", "q":
		m.helpOverlay = false
		m.summaryOverlay = false
		return m, nil
	}
	var cmd tea.Cmd
	m.overlayView, cmd = m.overlayView.Update(msg)
	return m, cmd
}

func (m *model) renderViewportOverlay() string {
	title := "Help"
	if m.summaryOverlay {
		title = "Breakdown Summary"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.overlayTitle.Render(title),
		m.overlayView.View(),
		m.styles.statusHint.Render("esc to close • ↑/↓ to scroll"),
	)
	return m.styles.overlay.Width(maxInt(m.width-4, 40)).Render(body)
}

// openEndpointOverlay loads the known gateway endpoints from the profile
// store and shows the picker.
func (m *model) openEndpointOverlay() tea.Cmd {
	profiles := []endpointProfile{}
	if m.store != nil {
		if listed, err := m.store.List(); err == nil {
			profiles = listed
		}
	}
	if len(profiles) == 0 {
		profiles = append(profiles, endpointProfile{
			URL:      m.config.GatewayURL,
			Label:    labelForEndpoint(m.config.GatewayURL),
			LastUsed: time.Now(),
		})
	}
	m.endpointProfiles = profiles
	m.endpointIndex = 0
	for i, profile := range profiles {
		if profile.URL == m.config.GatewayURL {
			m.endpointIndex = i
			break
		}
	}
	m.endpointOverlay = true
	return nil
}

func (m *model) handleEndpointOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "e", "q":
		m.endpointOverlay = false
		return m, nil
	case "up", "k":
		if m.endpointIndex > 0 {
			m.endpointIndex--
		}
		return m, nil
	case "down", "j":
		if m.endpointIndex < len(m.endpointProfiles)-1 {
			m.endpointIndex++
		}
		return m, nil
	case "d":
		return m, m.removeHighlightedEndpoint()
	case "enter":
		m.endpointOverlay = false
		if m.endpointIndex < 0 || m.endpointIndex >= len(m.endpointProfiles) {
			return m, nil
		}
		return m, m.switchEndpoint(m.endpointProfiles[m.endpointIndex].URL)
	}
	return m, nil
}

func (m *model) removeHighlightedEndpoint() tea.Cmd {
	if m.store == nil || m.endpointIndex < 0 || m.endpointIndex >= len(m.endpointProfiles) {
		return nil
	}
	victim := m.endpointProfiles[m.endpointIndex]
	if victim.URL == m.config.GatewayURL {
		m.setToast("Cannot remove the active endpoint", 4*time.Second)
		return nil
	}
	if err := m.store.Remove(victim.URL); err != nil {
		m.setToast("Failed to remove endpoint", 4*time.Second)
		return nil
	}
	m.endpointProfiles = append(m.endpointProfiles[:m.endpointIndex], m.endpointProfiles[m.endpointIndex+1:]...)
	if m.endpointIndex >= len(m.endpointProfiles) {
		m.endpointIndex = len(m.endpointProfiles) - 1
	}
	return nil
}

// switchEndpoint points the client at a new gateway and restarts both
// bindings. The selection is kept; the detail panel re-resolves against
// the new data set on the next commit.
func (m *model) switchEndpoint(url string) tea.Cmd {
	url = strings.TrimSpace(url)
	if url == "" || url == m.config.GatewayURL {
		return nil
	}

	m.config.GatewayURL = url
	if err := saveConfig(m.config, m.configPath); err != nil {
		m.setToast("Endpoint switched (config not saved)", 4*time.Second)
	}
	if m.store != nil {
		_ = m.store.Touch(url)
	}

	m.client = gateway.NewClient(url, m.requestTimeout())
	m.investorsBinding = query.NewBinding(m.client, gateway.DecodeInvestorList)
	m.breakdownBinding = query.NewBinding(m.client, gateway.DecodeCommitmentBreakdown)
	m.investorsInFlight = false
	m.breakdownInFlight = false
	m.window = grid.PageWindow{Page: 1, Size: m.window.Size}
	m.allAssets = nil
	m.allAssetsInvestor = ""
	m.assetFilterID = ""
	m.assetCol.SetAssets(nil, "")
	m.investorCol.SetRecords(nil)
	m.investorCol.SetState("Loading investors…", false)
	m.commitCol.SetRecords(nil)
	m.commitCol.SetTitle("Commitments")
	m.commitCol.SetState("Select an investor to load its breakdown.", false)

	m.telemetry.Emit(telemetryEvent{Event: "endpoint_switched", Endpoint: url})
	m.setToast(fmt.Sprintf("Switched to %s", labelForEndpoint(url)), 4*time.Second)

	return tea.Batch(m.bindInvestors(), m.bindBreakdown())
}

func (m *model) renderEndpointOverlay() string {
	var rows []string
	rows = append(rows, m.styles.overlayTitle.Render("Gateway Endpoints"))
	for i, profile := range m.endpointProfiles {
		marker := "  "
		line := fmt.Sprintf("%s  %s", profile.Label, m.styles.statusHint.Render(profile.URL))
		if profile.URL == m.config.GatewayURL {
			marker = "* "
		}
		if i == m.endpointIndex {
			rows = append(rows, m.styles.listSel.Render(marker+line))
			continue
		}
		rows = append(rows, m.styles.listItem.Render(marker+line))
	}
	rows = append(rows, "")
	rows = append(rows, m.styles.statusHint.Render("enter switch • d remove • esc close"))
	return m.styles.overlay.Width(maxInt(m.width-4, 40)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
