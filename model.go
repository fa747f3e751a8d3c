package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peview/peview/internal/gateway"
	"github.com/peview/peview/internal/grid"
	"github.com/peview/peview/internal/query"
)

type focusArea int

const (
	focusInvestors focusArea = iota
	focusAssets
	focusCommitments
)

const focusAreaCount = 3

type keyMap struct {
	quit       key.Binding
	nextFocus  key.Binding
	prevFocus  key.Binding
	search     key.Binding
	clear      key.Binding
	nextPage   key.Binding
	prevPage   key.Binding
	retry      key.Binding
	copyRow    key.Binding
	summary    key.Binding
	endpoints  key.Binding
	toggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		prevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search page"),
		),
		clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search/selection"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev page"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry query"),
		),
		copyRow: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy row"),
		),
		summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "summary"),
		),
		endpoints: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "endpoints"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextFocus, k.search, k.prevPage, k.nextPage, k.copyRow, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextFocus, k.prevFocus, k.search, k.clear},
		{k.prevPage, k.nextPage, k.retry, k.copyRow},
		{k.summary, k.endpoints, k.toggleHelp, k.quit},
	}
}

type model struct {
	styles styles
	keys   keyMap
	help   help.Model

	width  int
	height int

	config     *appConfig
	configPath string
	client     *gateway.Client
	store      *profileStore
	telemetry  *telemetryLogger

	investorsBinding *query.Binding[gateway.InvestorList]
	breakdownBinding *query.Binding[gateway.CommitmentBreakdown]

	// requested list window; Total mirrors the last committed result
	window grid.PageWindow

	selection     grid.Selection
	assetFilterID string

	// full asset set of the selected investor's breakdown, kept so the
	// filter list stays complete while a narrowing filter is active
	allAssets         []gateway.AssetSummary
	allAssetsInvestor string

	investorCol  *investorTableColumn
	assetCol     *assetFilterColumn
	commitCol    *commitmentTableColumn
	columns      []column
	focus        focusArea
	focusColumns []focusArea

	searchInput  textinput.Model
	searchActive bool
	searchTerm   string

	pager paginator.Model

	spinner           spinner.Model
	investorsInFlight bool
	breakdownInFlight bool

	toastMessage string
	toastExpires time.Time

	helpOverlay    bool
	summaryOverlay bool
	overlayView    viewport.Model

	endpointOverlay  bool
	endpointProfiles []endpointProfile
	endpointIndex    int
}

func initialModel() *model {
	s := newStyles()
	cfg, cfgPath := loadConfig()

	m := &model{
		styles:     s,
		keys:       newKeyMap(),
		help:       help.New(),
		config:     cfg,
		configPath: cfgPath,
		window:     grid.PageWindow{Page: 1, Size: cfg.PageSize},
	}

	m.help.ShortSeparator = " │ "
	m.help.Styles.ShortKey = m.styles.statusHint.Copy()
	m.help.Styles.ShortDesc = m.styles.statusHint.Copy()
	m.help.Styles.ShortSeparator = m.styles.statusSeg.Copy()

	if theme := strings.TrimSpace(cfg.Theme); theme != "" {
		setMarkdownTheme(markdownThemeFromString(theme))
	}

	m.client = gateway.NewClient(cfg.GatewayURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	m.investorsBinding = query.NewBinding(m.client, gateway.DecodeInvestorList)
	m.breakdownBinding = query.NewBinding(m.client, gateway.DecodeCommitmentBreakdown)

	m.telemetry = newTelemetryLogger(cfg.TelemetryPath, newTelemetrySessionID(), resolveTelemetryUserID())
	if store, err := openProfileStore(); err == nil {
		m.store = store
		_ = store.Touch(cfg.GatewayURL)
	}

	m.investorCol = newInvestorTableColumn("Investors", &m.selection)
	m.investorCol.SetOnHighlight(m.onInvestorHighlight)
	m.investorCol.SetState("Loading investors…", false)

	m.assetCol = newAssetFilterColumn("Asset Classes", s)
	m.assetCol.SetOnSelect(m.onAssetSelect)
	m.assetCol.SetAssets(nil, "")

	m.commitCol = newCommitmentTableColumn("Commitments")
	m.commitCol.SetState("Select an investor to load its breakdown.", false)

	m.columns = []column{m.investorCol, m.assetCol, m.commitCol}
	m.focusColumns = []focusArea{focusInvestors, focusAssets, focusCommitments}

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/"
	m.searchInput.Placeholder = "name, type or country"
	m.searchInput.CharLimit = 64

	m.pager = paginator.New()
	m.pager.Type = paginator.Dots
	m.pager.ActiveDot = m.styles.searchPrompt.Render("•")
	m.pager.InactiveDot = m.styles.statusHint.Render("•")

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = m.styles.statusHint.Copy().Bold(true)

	m.overlayView = viewport.New(80, 20)

	return m
}

func (m *model) Init() tea.Cmd {
	m.telemetry.Emit(telemetryEvent{Event: "app_start", Endpoint: m.config.GatewayURL})
	return tea.Batch(m.bindInvestors(), m.spinner.Tick)
}

// bindInvestors re-evaluates the list binding against the requested window
// and issues a fetch when the signature changed.
func (m *model) bindInvestors() tea.Cmd {
	req := m.investorsBinding.Bind(investorsKey(m.window.Page, m.window.Size), false)
	if req == nil {
		return nil
	}
	m.investorsInFlight = true
	m.telemetry.Emit(telemetryEvent{Event: "query_issued", Operation: gateway.OpInvestors, Extra: map[string]string{
		"key": req.Key.String(),
	}})
	return tea.Batch(
		fetchInvestorsCmd(m.investorsBinding, *req, m.requestTimeout()),
		m.spinner.Tick,
	)
}

// bindBreakdown re-keys the detail binding off the current selection and
// asset class filter; with no selection it stays skipped.
func (m *model) bindBreakdown() tea.Cmd {
	investorID, ok := m.selection.Key()
	skip := !ok || strings.TrimSpace(investorID) == ""
	req := m.breakdownBinding.Bind(breakdownKey(investorID, m.assetFilterID), skip)
	if req == nil {
		if skip {
			m.commitCol.SetRecords(nil)
			m.commitCol.SetTitle("Commitments")
			m.commitCol.SetState("Select an investor to load its breakdown.", false)
		}
		return nil
	}
	m.breakdownInFlight = true
	m.commitCol.SetState("Loading breakdown…", false)
	m.telemetry.Emit(telemetryEvent{Event: "query_issued", Operation: gateway.OpCommitmentBreakdown, ItemID: investorID})
	return tea.Batch(
		fetchBreakdownCmd(m.breakdownBinding, *req, m.requestTimeout()),
		m.spinner.Tick,
	)
}

// rewireGateway swaps the client before the program starts, without
// persisting configuration. Used by the -gateway flag.
func (m *model) rewireGateway(url string) {
	m.client = gateway.NewClient(url, m.requestTimeout())
	m.investorsBinding = query.NewBinding(m.client, gateway.DecodeInvestorList)
	m.breakdownBinding = query.NewBinding(m.client, gateway.DecodeCommitmentBreakdown)
	if m.store != nil {
		_ = m.store.Touch(url)
	}
}

func (m *model) requestTimeout() time.Duration {
	return time.Duration(m.config.TimeoutSeconds) * time.Second
}

func (m *model) onInvestorHighlight(investor gateway.Investor) tea.Cmd {
	if m.selection.IsSelected(investor.ID) {
		return nil
	}
	m.selection.Select(investor.ID)
	// the asset filter belongs to one investor's breakdown; a new
	// selection starts from the unfiltered view
	m.assetFilterID = ""
	m.telemetry.Emit(telemetryEvent{Event: "row_selected", ItemID: investor.ID})
	m.refreshInvestorRows()
	return m.bindBreakdown()
}

func (m *model) onAssetSelect(entry assetEntry) tea.Cmd {
	if m.assetFilterID == entry.id {
		return nil
	}
	m.assetFilterID = entry.id
	m.telemetry.Emit(telemetryEvent{Event: "filter_applied", Extra: map[string]string{
		"asset_class": entry.id,
	}})
	return m.bindBreakdown()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case investorsLoadedMsg:
		return m, m.handleInvestorsLoaded(msg)

	case breakdownLoadedMsg:
		return m, m.handleBreakdownLoaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocusedColumn(msg)
}

func (m *model) handleInvestorsLoaded(msg investorsLoadedMsg) tea.Cmd {
	if msg.binding != m.investorsBinding {
		// reply issued by a binding that an endpoint switch replaced
		return nil
	}
	if !m.investorsBinding.Resolve(msg.res) {
		// superseded reply: a newer request owns the spinner
		return nil
	}
	m.investorsInFlight = false

	entry := m.investorsBinding.Entry()
	if entry.Status == query.StatusError {
		m.telemetry.Emit(telemetryEvent{Event: "query_error", Operation: gateway.OpInvestors, Extra: map[string]string{
			"error": entry.Err.Error(),
		}})
		m.setToast(fmt.Sprintf("Investor query failed: %v", entry.Err), 6*time.Second)
		m.refreshInvestorRows()
		return nil
	}

	list := entry.Value
	m.window = grid.PageWindow{Page: list.Page, Size: list.Size, Total: list.Total}.Clamp()

	// the total may have shrunk under the requested page; re-clamp and
	// fall back to the last page rather than rendering past the end
	if len(list.Investors) == 0 && list.Page > 1 && m.window.Page < list.Page {
		return m.bindInvestors()
	}

	m.refreshInvestorRows()
	return m.bindBreakdown()
}

func (m *model) handleBreakdownLoaded(msg breakdownLoadedMsg) tea.Cmd {
	if msg.binding != m.breakdownBinding {
		return nil
	}
	if !m.breakdownBinding.Resolve(msg.res) {
		return nil
	}
	m.breakdownInFlight = false

	entry := m.breakdownBinding.Entry()
	if entry.Status == query.StatusError {
		m.telemetry.Emit(telemetryEvent{Event: "query_error", Operation: gateway.OpCommitmentBreakdown, Extra: map[string]string{
			"error": entry.Err.Error(),
		}})
		m.commitCol.SetState("Breakdown unavailable. Press r to retry.", true)
		m.setToast(fmt.Sprintf("Breakdown query failed: %v", entry.Err), 6*time.Second)
		return nil
	}

	m.refreshBreakdown()
	return nil
}

// refreshInvestorRows drives the master grid: binding result, then the
// client-side search filter, then the page window slice.
func (m *model) refreshInvestorRows() {
	entry := m.investorsBinding.Entry()

	var records []gateway.Investor
	if entry.HasValue {
		records = entry.Value.Investors
	}

	visible := grid.ApplyFilter(records, m.searchTerm, investorSearchFields)
	visible = grid.SlicePage(visible, grid.PageWindow{Page: 1, Size: m.window.Size, Total: len(visible)})

	m.investorCol.SetRecords(visible)
	switch {
	case entry.Status == query.StatusError:
		m.investorCol.SetState("Investors unavailable. Press r to retry.", true)
	case len(visible) == 0 && strings.TrimSpace(m.searchTerm) != "":
		m.investorCol.SetState(fmt.Sprintf("No investors on this page match %q.", m.searchTerm), false)
	case len(visible) == 0 && entry.Status == query.StatusSuccess:
		m.investorCol.SetState("No investors found.", false)
	case len(visible) == 0:
		m.investorCol.SetState("Loading investors…", false)
	}

	total := m.window.TotalPages()
	if total < 1 {
		total = 1
	}
	m.pager.SetTotalPages(total)
	m.pager.Page = m.window.Page - 1
}

// refreshBreakdown renders the committed detail entry into the asset
// filter and commitments panes.
func (m *model) refreshBreakdown() {
	entry := m.breakdownBinding.Entry()
	if !entry.HasValue {
		return
	}
	breakdown := entry.Value

	// rebuild the asset set from any unfiltered commit, and whenever the
	// committed breakdown belongs to a different investor than the cached
	// set; stale summaries must never outlive the investor they describe
	if m.assetFilterID == "" || breakdown.InvestorID != m.allAssetsInvestor {
		m.allAssets = breakdown.Assets
		m.allAssetsInvestor = breakdown.InvestorID
	}
	m.assetCol.SetAssets(m.allAssets, m.assetFilterID)

	m.commitCol.SetTitle(breakdownTitle(breakdown))
	m.commitCol.SetRecords(breakdown.Commitments)
	if len(breakdown.Commitments) == 0 {
		m.commitCol.SetState("No commitments for this investor.", false)
	}
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpOverlay || m.summaryOverlay {
		return m.handleViewportOverlayKey(msg)
	}
	if m.endpointOverlay {
		return m.handleEndpointOverlayKey(msg)
	}
	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		if m.store != nil {
			_ = m.store.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.nextFocus):
		m.focus = (m.focus + 1) % focusAreaCount
		return m, nil

	case key.Matches(msg, m.keys.prevFocus):
		m.focus = (m.focus + focusAreaCount - 1) % focusAreaCount
		return m, nil

	case key.Matches(msg, m.keys.search):
		m.searchActive = true
		m.searchInput.SetValue(m.searchTerm)
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.clear):
		if m.searchTerm != "" {
			m.searchTerm = ""
			m.refreshInvestorRows()
			return m, nil
		}
		// external reset: the only deselection path
		m.selection.Clear()
		m.refreshInvestorRows()
		return m, m.bindBreakdown()

	case key.Matches(msg, m.keys.nextPage):
		return m, m.gotoPage(m.window.Page + 1)

	case key.Matches(msg, m.keys.prevPage):
		return m, m.gotoPage(m.window.Page - 1)

	case key.Matches(msg, m.keys.retry):
		return m, m.retryFocusedBinding()

	case key.Matches(msg, m.keys.copyRow):
		m.copySelectedInvestor()
		return m, nil

	case key.Matches(msg, m.keys.summary):
		m.openSummaryOverlay()
		return m, nil

	case key.Matches(msg, m.keys.endpoints):
		return m, m.openEndpointOverlay()

	case key.Matches(msg, m.keys.toggleHelp):
		m.openHelpOverlay()
		return m, nil
	}

	return m, m.updateFocusedColumn(msg)
}

func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		if m.searchTerm != "" {
			m.telemetry.Emit(telemetryEvent{Event: "search_applied", Extra: map[string]string{"term": m.searchTerm}})
		}
		return m, nil
	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchTerm = ""
		m.refreshInvestorRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	term := m.searchInput.Value()
	if term != m.searchTerm {
		m.searchTerm = term
		m.refreshInvestorRows()
	}
	return m, cmd
}

// gotoPage re-keys the list binding to a new page. The page is clamped
// against the last known total first, so a stale page count cannot push
// the window past the end.
func (m *model) gotoPage(page int) tea.Cmd {
	next := grid.PageWindow{Page: page, Size: m.window.Size, Total: m.window.Total}.Clamp()
	if next.Page == m.window.Page {
		return nil
	}
	m.window = next
	m.telemetry.Emit(telemetryEvent{Event: "page_changed", Extra: map[string]string{
		"page": fmt.Sprint(next.Page),
	}})
	return m.bindInvestors()
}

func (m *model) retryFocusedBinding() tea.Cmd {
	switch m.focus {
	case focusInvestors:
		req := m.investorsBinding.Refetch()
		if req == nil {
			return nil
		}
		m.investorsInFlight = true
		return tea.Batch(fetchInvestorsCmd(m.investorsBinding, *req, m.requestTimeout()), m.spinner.Tick)
	default:
		req := m.breakdownBinding.Refetch()
		if req == nil {
			return nil
		}
		m.breakdownInFlight = true
		return tea.Batch(fetchBreakdownCmd(m.breakdownBinding, *req, m.requestTimeout()), m.spinner.Tick)
	}
}

func (m *model) copySelectedInvestor() {
	record, ok := m.investorCol.HighlightedRecord()
	if !ok {
		m.setToast("Select an investor first", 4*time.Second)
		return
	}
	if err := clipboard.WriteAll(copyInvestorText(record)); err != nil {
		m.setToast("Clipboard unavailable", 4*time.Second)
		return
	}
	m.telemetry.Emit(telemetryEvent{Event: "row_copied", ItemID: record.ID})
	m.setToast(fmt.Sprintf("Copied %s", record.Name), 3*time.Second)
}

func (m *model) updateFocusedColumn(msg tea.Msg) tea.Cmd {
	for i, area := range m.focusColumns {
		if area != m.focus {
			continue
		}
		col, cmd := m.columns[i].Update(msg)
		m.columns[i] = col
		return cmd
	}
	return nil
}

func (m *model) spinning() bool {
	return m.investorsInFlight || m.breakdownInFlight
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

func (m *model) layout() {
	if m.width <= 0 {
		return
	}
	bodyHeight := m.height - 5
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	assetWidth := 30
	remaining := m.width - assetWidth - 6
	investorWidth := remaining * 55 / 100
	commitWidth := remaining - investorWidth

	m.investorCol.SetSize(investorWidth, bodyHeight)
	m.assetCol.SetSize(assetWidth, bodyHeight)
	m.commitCol.SetSize(commitWidth, bodyHeight)

	m.overlayView.Width = m.width - 8
	m.overlayView.Height = bodyHeight - 2
}

func (m *model) View() string {
	var builder strings.Builder

	helpWidth := m.width - 4
	if helpWidth < 0 {
		helpWidth = 0
	}
	m.help.Width = helpWidth

	title := "peview • Investment Platform Browser • " + labelForEndpoint(m.config.GatewayURL)
	builder.WriteString(m.styles.topBar.Width(m.width).Render(title))
	builder.WriteRune('\n')

	if m.helpOverlay || m.summaryOverlay {
		builder.WriteString(m.renderViewportOverlay())
		builder.WriteRune('\n')
		return builder.String()
	}
	if m.endpointOverlay {
		builder.WriteString(m.renderEndpointOverlay())
		builder.WriteRune('\n')
		return builder.String()
	}

	var colViews []string
	for i, col := range m.columns {
		colViews = append(colViews, col.View(m.styles, m.focusColumns[i] == m.focus))
	}
	builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, colViews...))
	builder.WriteRune('\n')

	builder.WriteString(m.renderStatusBar())
	builder.WriteRune('\n')

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		if !strings.HasSuffix(helpView, "\n") {
			builder.WriteRune('\n')
		}
	}

	return builder.String()
}

func (m *model) renderStatusBar() string {
	var segments []string

	pageInfo := fmt.Sprintf("Page %d/%d • %d investors", m.window.Page, maxInt(1, m.window.TotalPages()), m.window.Total)
	segments = append(segments, m.styles.statusSeg.Render(pageInfo))
	segments = append(segments, m.pager.View())

	entry := m.investorsBinding.Entry()
	if entry.HasValue {
		segments = append(segments, m.styles.statusSeg.Render(
			"AUM "+formatAmount(entry.Value.TotalCommitmentAmount)))
	}

	if m.searchActive {
		segments = append(segments, m.styles.searchPrompt.Render(m.searchInput.View()))
	} else if m.searchTerm != "" {
		segments = append(segments, m.styles.statusSeg.Render(fmt.Sprintf("filter: %q", m.searchTerm)))
	}

	if m.spinning() {
		segments = append(segments, m.spinner.View()+m.styles.statusHint.Render(" fetching"))
	}

	if m.toastMessage != "" && time.Now().Before(m.toastExpires) {
		segments = append(segments, m.styles.toast.Render(m.toastMessage))
	}

	return m.styles.statusBar.Width(m.width).Render(strings.Join(segments, " "))
}

func investorSearchFields(r gateway.Investor) []string {
	return []string{r.Name, r.InvestorType, r.Country}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
