package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peview/peview/internal/gateway"
)

// assetEntry is one row of the asset class filter: either the "all" entry
// or one asset summary from the current breakdown.
type assetEntry struct {
	id     string
	name   string
	detail string
}

func (e assetEntry) Title() string       { return e.name }
func (e assetEntry) Description() string { return e.detail }
func (e assetEntry) FilterValue() string { return e.name }

// assetFilterColumn narrows the commitment detail to one asset class. The
// entries come from the unfiltered breakdown so the full set stays visible
// while a filter is active.
type assetFilterColumn struct {
	title    string
	model    list.Model
	width    int
	height   int
	onSelect func(assetEntry) tea.Cmd
}

func newAssetFilterColumn(title string, s styles) *assetFilterColumn {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Foreground(palette.textMuted)

	m := list.New(nil, delegate, 28, 20)
	m.Title = title
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)

	return &assetFilterColumn{
		title: title,
		model: m,
	}
}

func (c *assetFilterColumn) SetOnSelect(fn func(assetEntry) tea.Cmd) {
	c.onSelect = fn
}

// SetAssets rebuilds the filter entries, keeping the active choice
// highlighted when it still exists.
func (c *assetFilterColumn) SetAssets(assets []gateway.AssetSummary, activeID string) {
	items := make([]list.Item, 0, len(assets)+1)
	items = append(items, assetEntry{id: "", name: "All asset classes", detail: fmt.Sprintf("%d classes", len(assets))})
	for _, asset := range assets {
		items = append(items, assetEntry{
			id:   asset.ID,
			name: asset.Name,
			detail: fmt.Sprintf("%s • %s of total",
				formatAmount(asset.TotalCommitmentAmount), formatPercent(asset.PercentageOfTotal)),
		})
	}
	c.model.SetItems(items)

	selected := 0
	for i, item := range items {
		if entry, ok := item.(assetEntry); ok && entry.id == activeID {
			selected = i
			break
		}
	}
	c.model.Select(selected)
}

func (c *assetFilterColumn) SelectedEntry() (assetEntry, bool) {
	item := c.model.SelectedItem()
	if item == nil {
		return assetEntry{}, false
	}
	entry, ok := item.(assetEntry)
	return entry, ok
}

func (c *assetFilterColumn) SetSize(width, height int) {
	if width < 24 {
		width = 24
	}
	if height < 6 {
		height = 6
	}
	c.width = width
	c.height = height
	c.model.SetSize(width-2, height-2)
}

func (c *assetFilterColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmds []tea.Cmd

	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if entry, ok := c.SelectedEntry(); ok && c.onSelect != nil {
			cmds = append(cmds, c.onSelect(entry))
		}
	}

	return c, tea.Batch(cmds...)
}

func (c *assetFilterColumn) View(s styles, focused bool) string {
	body := lipgloss.JoinVertical(lipgloss.Left, c.model.View())
	if focused {
		return s.panelFocused.Width(c.width).Render(body)
	}
	return s.panel.Width(c.width).Render(body)
}

func (c *assetFilterColumn) Title() string {
	return c.title
}

// breakdownTitle builds the commitments pane header from the current
// breakdown, e.g. "Commitments • Gryffindor Fund • 2,500,000".
func breakdownTitle(breakdown gateway.CommitmentBreakdown) string {
	if strings.TrimSpace(breakdown.InvestorName) == "" {
		return "Commitments"
	}
	return fmt.Sprintf("Commitments • %s • %s",
		breakdown.InvestorName, formatAmount(breakdown.TotalCommitmentAmount))
}

// breakdownMarkdown renders the breakdown as a markdown document for the
// summary overlay.
func breakdownMarkdown(breakdown gateway.CommitmentBreakdown) string {
	var b strings.Builder
	name := strings.TrimSpace(breakdown.InvestorName)
	if name == "" {
		name = "Investor"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "Total commitments: **%s**\n\n", formatAmount(breakdown.TotalCommitmentAmount))

	if len(breakdown.Assets) > 0 {
		b.WriteString("## Asset classes\n\n")
		for _, asset := range breakdown.Assets {
			fmt.Fprintf(&b, "- **%s**: %s (%s of total, %d commitments)\n",
				asset.Name, formatAmount(asset.TotalCommitmentAmount),
				formatPercent(asset.PercentageOfTotal), asset.CommitmentCount)
		}
		b.WriteString("\n")
	}

	if len(breakdown.Commitments) > 0 {
		b.WriteString("## Commitments\n\n")
		for _, commitment := range breakdown.Commitments {
			fmt.Fprintf(&b, "- %s: %s (%s), %s\n",
				commitment.Name, formatCurrency(commitment.Amount, commitment.Currency),
				formatPercent(commitment.Percentage), formatServiceDate(commitment.CreatedAt))
		}
	}
	return b.String()
}

// copyInvestorText renders the selected investor as a tab-separated line
// for the clipboard.
func copyInvestorText(investor gateway.Investor) string {
	fields := []string{
		investor.Name,
		titleCaseWords(investor.InvestorType),
		investor.Country,
		formatServiceDate(investor.DateAdded),
		formatCount(investor.CommitmentCount),
		formatAmount(investor.TotalCommitmentAmount),
	}
	return strings.Join(fields, "\t")
}
