package main

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peview/peview/internal/gateway"
	"github.com/peview/peview/internal/grid"
)

type column interface {
	SetSize(width, height int)
	Update(msg tea.Msg) (column, tea.Cmd)
	View(styles styles, focused bool) string
	Title() string
}

func newTableStyles() table.Styles {
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.border).
		Padding(0, 1)
	tStyles.Cell = lipgloss.NewStyle().
		Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle().
		Foreground(palette.text).
		Background(palette.selection).
		Padding(0, 1)
	return tStyles
}

// gridRowsToTable flattens rendered grid rows into bubbles table rows.
// Merged cells (span 0) come through as blanks, which is how the terminal
// table visualizes a merged region.
func gridRowsToTable(rows []grid.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		cells := make(table.Row, len(row.Cells))
		for c, cell := range row.Cells {
			cells[c] = cell.Text
		}
		out[i] = cells
	}
	return out
}

// investorTableColumn is the master list: one page of investors rendered
// through the generic grid.
type investorTableColumn struct {
	title       string
	table       table.Model
	grid        *grid.Grid[gateway.Investor]
	records     []gateway.Investor
	width       int
	height      int
	onHighlight func(gateway.Investor) tea.Cmd
	placeholder string
	failed      bool
}

func investorColumnModel() *grid.ColumnModel[gateway.Investor] {
	return grid.MustColumnModel(
		grid.Column[gateway.Investor]{
			Key:   "name",
			Title: "Name",
			Render: func(r gateway.Investor, _ int) string {
				return r.Name
			},
		},
		grid.Column[gateway.Investor]{
			Key:   "type",
			Title: "Type",
			Render: func(r gateway.Investor, _ int) string {
				return titleCaseWords(r.InvestorType)
			},
		},
		grid.Column[gateway.Investor]{
			Key:   "country",
			Title: "Country",
			Render: func(r gateway.Investor, _ int) string {
				return r.Country
			},
		},
		grid.Column[gateway.Investor]{
			Key:   "added",
			Title: "Added",
			Render: func(r gateway.Investor, _ int) string {
				return formatServiceDate(r.DateAdded)
			},
		},
		grid.Column[gateway.Investor]{
			Key:   "commitments",
			Title: "Commitments",
			Render: func(r gateway.Investor, _ int) string {
				return formatCount(r.CommitmentCount)
			},
		},
		grid.Column[gateway.Investor]{
			Key:   "total",
			Title: "Total (GBP)",
			Render: func(r gateway.Investor, _ int) string {
				return formatAmount(r.TotalCommitmentAmount)
			},
		},
	)
}

func newInvestorTableColumn(title string, selection *grid.Selection) *investorTableColumn {
	model := table.New(
		table.WithColumns(investorTableLayout(76)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	model.SetStyles(newTableStyles())

	return &investorTableColumn{
		title: title,
		table: model,
		grid:  grid.New(investorColumnModel(), func(r gateway.Investor) string { return r.ID }, selection),
	}
}

func investorTableLayout(width int) []table.Column {
	nameWidth := width - 58
	if nameWidth < 18 {
		nameWidth = 18
	}
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Type", Width: 14},
		{Title: "Country", Width: 12},
		{Title: "Added", Width: 10},
		{Title: "Commitments", Width: 11},
		{Title: "Total (GBP)", Width: 13},
	}
}

func (c *investorTableColumn) SetOnHighlight(fn func(gateway.Investor) tea.Cmd) {
	c.onHighlight = fn
}

// SetRecords replaces the visible page. The cursor resets only when the
// previously highlighted record is gone from the new page.
func (c *investorTableColumn) SetRecords(records []gateway.Investor) {
	prevKey := ""
	if rec, ok := c.HighlightedRecord(); ok {
		prevKey = rec.ID
	}
	c.records = records
	c.table.SetRows(gridRowsToTable(c.grid.Rows(records)))

	cursor := 0
	for i, record := range records {
		if record.ID == prevKey {
			cursor = i
			break
		}
	}
	if len(records) > 0 {
		c.table.SetCursor(cursor)
	}
}

func (c *investorTableColumn) HighlightedRecord() (gateway.Investor, bool) {
	idx := c.table.Cursor()
	if idx < 0 || idx >= len(c.records) {
		return gateway.Investor{}, false
	}
	return c.records[idx], true
}

func (c *investorTableColumn) Empty() bool {
	return c.grid.Empty(c.records)
}

func (c *investorTableColumn) Grid() *grid.Grid[gateway.Investor] {
	return c.grid
}

func (c *investorTableColumn) SetSize(width, height int) {
	if width < 60 {
		width = 60
	}
	if height < 6 {
		height = 6
	}
	c.width = width
	c.height = height
	c.table.SetColumns(investorTableLayout(width - 4))
	c.table.SetHeight(height - 3)
}

func (c *investorTableColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmds []tea.Cmd
	prev := c.table.Cursor()

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if record, ok := c.HighlightedRecord(); ok && c.onHighlight != nil {
			cmds = append(cmds, c.onHighlight(record))
		}
	}
	if c.table.Cursor() != prev {
		if record, ok := c.HighlightedRecord(); ok && c.onHighlight != nil {
			cmds = append(cmds, c.onHighlight(record))
		}
	}

	return c, tea.Batch(cmds...)
}

// SetState records the text shown in place of the table while the column
// has no records. failed switches the error styling on.
func (c *investorTableColumn) SetState(placeholder string, failed bool) {
	c.placeholder = placeholder
	c.failed = failed
}

func (c *investorTableColumn) View(s styles, focused bool) string {
	inner := c.table.View()
	if c.Empty() && c.placeholder != "" {
		style := s.placeholder
		if c.failed {
			style = s.failure
		}
		inner = style.Width(maxInt(c.width-4, 20)).Render(c.placeholder)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), inner)
	if focused {
		return s.panelFocused.Width(c.width).Render(body)
	}
	return s.panel.Width(c.width).Render(body)
}

func (c *investorTableColumn) Title() string {
	return c.title
}

// commitmentTableColumn renders the detail breakdown. Adjacent commitments
// in the same asset class merge their asset cell via the grid's row spans.
type commitmentTableColumn struct {
	title       string
	table       table.Model
	grid        *grid.Grid[gateway.CommitmentDetail]
	records     []gateway.CommitmentDetail
	width       int
	height      int
	placeholder string
	failed      bool
}

func newCommitmentTableColumn(title string) *commitmentTableColumn {
	c := &commitmentTableColumn{title: title}

	assetSpan := func(record gateway.CommitmentDetail, index int) int {
		span := 1
		for i := index + 1; i < len(c.records) && c.records[i].AssetClassID == record.AssetClassID; i++ {
			span++
		}
		return span
	}

	model := grid.MustColumnModel(
		grid.Column[gateway.CommitmentDetail]{
			Key:   "asset",
			Title: "Asset Class",
			Render: func(r gateway.CommitmentDetail, _ int) string {
				return r.Name
			},
			RowSpan: assetSpan,
		},
		grid.Column[gateway.CommitmentDetail]{
			Key:   "amount",
			Title: "Amount",
			Render: func(r gateway.CommitmentDetail, _ int) string {
				return formatCurrency(r.Amount, r.Currency)
			},
		},
		grid.Column[gateway.CommitmentDetail]{
			Key:   "share",
			Title: "Share",
			Render: func(r gateway.CommitmentDetail, _ int) string {
				return formatPercent(r.Percentage)
			},
		},
		grid.Column[gateway.CommitmentDetail]{
			Key:   "created",
			Title: "Created",
			Render: func(r gateway.CommitmentDetail, _ int) string {
				return formatServiceDate(r.CreatedAt)
			},
		},
	)

	t := table.New(
		table.WithColumns(commitmentTableLayout(60)),
		table.WithHeight(10),
	)
	t.SetStyles(newTableStyles())

	c.table = t
	c.grid = grid.New(model, func(r gateway.CommitmentDetail) string { return r.ID }, &grid.Selection{})
	return c
}

func commitmentTableLayout(width int) []table.Column {
	assetWidth := width - 40
	if assetWidth < 14 {
		assetWidth = 14
	}
	return []table.Column{
		{Title: "Asset Class", Width: assetWidth},
		{Title: "Amount", Width: 16},
		{Title: "Share", Width: 8},
		{Title: "Created", Width: 10},
	}
}

// SetRecords replaces the commitment rows. The grid memoizes by commitment
// id but spans depend on neighbors, so the cache is dropped wholesale.
func (c *commitmentTableColumn) SetRecords(records []gateway.CommitmentDetail) {
	c.records = records
	c.grid.Invalidate()
	c.table.SetRows(gridRowsToTable(c.grid.Rows(records)))
	if len(records) > 0 {
		c.table.SetCursor(0)
	}
}

func (c *commitmentTableColumn) Records() []gateway.CommitmentDetail {
	return c.records
}

func (c *commitmentTableColumn) Empty() bool {
	return c.grid.Empty(c.records)
}

func (c *commitmentTableColumn) SetSize(width, height int) {
	if width < 44 {
		width = 44
	}
	if height < 6 {
		height = 6
	}
	c.width = width
	c.height = height
	c.table.SetColumns(commitmentTableLayout(width - 4))
	c.table.SetHeight(height - 3)
}

func (c *commitmentTableColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *commitmentTableColumn) SetTitle(title string) {
	c.title = title
}

func (c *commitmentTableColumn) SetState(placeholder string, failed bool) {
	c.placeholder = placeholder
	c.failed = failed
}

func (c *commitmentTableColumn) View(s styles, focused bool) string {
	inner := c.table.View()
	if c.Empty() && c.placeholder != "" {
		style := s.placeholder
		if c.failed {
			style = s.failure
		}
		inner = style.Width(maxInt(c.width-4, 20)).Render(c.placeholder)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), inner)
	if focused {
		return s.panelFocused.Width(c.width).Render(body)
	}
	return s.panel.Width(c.width).Render(body)
}

func (c *commitmentTableColumn) Title() string {
	return c.title
}
