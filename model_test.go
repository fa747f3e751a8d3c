package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peview/peview/internal/gateway"
	"github.com/peview/peview/internal/grid"
	"github.com/peview/peview/internal/query"
)

// unreachableRunner satisfies query.Runner for tests that resolve results
// by hand and never execute the issued commands.
type unreachableRunner struct{}

func (unreachableRunner) Run(context.Context, string, map[string]any) (json.RawMessage, error) {
	return nil, errors.New("no gateway in tests")
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	dir := t.TempDir()
	m := &model{
		styles: newStyles(),
		keys:   newKeyMap(),
		help:   help.New(),
		config: (&appConfig{
			GatewayURL:    "http://gw:9000",
			TelemetryPath: filepath.Join(dir, "events.jsonl"),
		}).withDefaults(),
		configPath: filepath.Join(dir, "config.yaml"),
		window:     grid.PageWindow{Page: 1, Size: 20},
	}
	m.investorsBinding = query.NewBinding(unreachableRunner{}, gateway.DecodeInvestorList)
	m.breakdownBinding = query.NewBinding(unreachableRunner{}, gateway.DecodeCommitmentBreakdown)

	m.investorCol = newInvestorTableColumn("Investors", &m.selection)
	m.investorCol.SetOnHighlight(m.onInvestorHighlight)
	m.assetCol = newAssetFilterColumn("Asset Classes", m.styles)
	m.assetCol.SetOnSelect(m.onAssetSelect)
	m.commitCol = newCommitmentTableColumn("Commitments")
	m.columns = []column{m.investorCol, m.assetCol, m.commitCol}
	m.focusColumns = []focusArea{focusInvestors, focusAssets, focusCommitments}

	m.searchInput = textinput.New()
	m.pager = paginator.New()
	m.spinner = spinner.New()
	m.overlayView = viewport.New(80, 20)
	return m
}

func commitBreakdown(t *testing.T, m *model, investorID, assetClassID string, value gateway.CommitmentBreakdown) {
	t.Helper()
	key := breakdownKey(investorID, assetClassID)
	entry := m.breakdownBinding.Entry()
	require.True(t, entry.Key.Equal(key), "breakdown binding not keyed to the expected request")
	m.handleBreakdownLoaded(breakdownLoadedMsg{
		binding: m.breakdownBinding,
		res:     query.Result[gateway.CommitmentBreakdown]{Key: key, Version: entry.Version, Value: value},
	})
}

func TestAssetPaneFollowsSelectedInvestor(t *testing.T) {
	m := newTestModel(t)

	breakdownA := gateway.CommitmentBreakdown{
		InvestorID:   "a",
		InvestorName: "Alpha Capital",
		Assets: []gateway.AssetSummary{
			{ID: "pe", Name: "Alpha Private Equity", TotalCommitmentAmount: 1000000},
			{ID: "re", Name: "Alpha Real Estate", TotalCommitmentAmount: 500000},
		},
	}
	breakdownB := gateway.CommitmentBreakdown{
		InvestorID:   "b",
		InvestorName: "Beta Partners",
		Assets: []gateway.AssetSummary{
			{ID: "infra", Name: "Beta Infrastructure", TotalCommitmentAmount: 750000},
		},
	}

	_ = m.onInvestorHighlight(gateway.Investor{ID: "a", Name: "Alpha Capital"})
	commitBreakdown(t, m, "a", "", breakdownA)
	require.Len(t, m.allAssets, 2)

	// narrow to one asset class, then move the selection to another investor
	_ = m.onAssetSelect(assetEntry{id: "pe", name: "Alpha Private Equity"})
	_ = m.onInvestorHighlight(gateway.Investor{ID: "b", Name: "Beta Partners"})
	assert.Empty(t, m.assetFilterID, "asset filter must reset with the selection")

	commitBreakdown(t, m, "b", "", breakdownB)
	require.Len(t, m.allAssets, 1)
	assert.Equal(t, "Beta Infrastructure", m.allAssets[0].Name)
	assert.Equal(t, "b", m.allAssetsInvestor)
}

func TestAssetPaneRebuildsWhenInvestorChangesUnderFilter(t *testing.T) {
	m := newTestModel(t)
	m.assetFilterID = "pe"
	m.allAssets = []gateway.AssetSummary{{ID: "pe", Name: "Alpha Private Equity"}}
	m.allAssetsInvestor = "a"

	m.selection.Select("b")
	_ = m.bindBreakdown()
	commitBreakdown(t, m, "b", "pe", gateway.CommitmentBreakdown{
		InvestorID:   "b",
		InvestorName: "Beta Partners",
		Assets:       []gateway.AssetSummary{{ID: "pe", Name: "Beta Private Equity"}},
	})

	require.Len(t, m.allAssets, 1)
	assert.Equal(t, "Beta Private Equity", m.allAssets[0].Name)
	assert.Equal(t, "b", m.allAssetsInvestor)
}

func TestReplyFromReplacedBindingIsDropped(t *testing.T) {
	m := newTestModel(t)

	old := m.investorsBinding
	reqOld := old.Bind(investorsKey(1, 20), false)
	require.NotNil(t, reqOld)

	// an endpoint switch replaces the binding and re-binds the same key;
	// the fresh counter starts over at the in-flight request's version
	m.investorsBinding = query.NewBinding(unreachableRunner{}, gateway.DecodeInvestorList)
	reqNew := m.investorsBinding.Bind(investorsKey(1, 20), false)
	require.NotNil(t, reqNew)
	require.Equal(t, reqOld.Version, reqNew.Version)

	m.handleInvestorsLoaded(investorsLoadedMsg{
		binding: old,
		res: query.Result[gateway.InvestorList]{
			Key:     reqOld.Key,
			Version: reqOld.Version,
			Value: gateway.InvestorList{
				Investors: []gateway.Investor{{ID: "old", Name: "Old Gateway Fund"}},
				Total:     1, Page: 1, Size: 20,
			},
		},
	})

	entry := m.investorsBinding.Entry()
	assert.Equal(t, query.StatusPending, entry.Status)
	assert.False(t, entry.HasValue, "old endpoint's data must not reach the new binding")
}

func TestBreakdownReplyFromReplacedBindingIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.selection.Select("a")

	old := m.breakdownBinding
	reqOld := old.Bind(breakdownKey("a", ""), false)
	require.NotNil(t, reqOld)

	m.breakdownBinding = query.NewBinding(unreachableRunner{}, gateway.DecodeCommitmentBreakdown)
	reqNew := m.breakdownBinding.Bind(breakdownKey("a", ""), false)
	require.NotNil(t, reqNew)

	m.handleBreakdownLoaded(breakdownLoadedMsg{
		binding: old,
		res: query.Result[gateway.CommitmentBreakdown]{
			Key:     reqOld.Key,
			Version: reqOld.Version,
			Value:   gateway.CommitmentBreakdown{InvestorID: "a", InvestorName: "Old Gateway Name"},
		},
	})

	entry := m.breakdownBinding.Entry()
	assert.Equal(t, query.StatusPending, entry.Status)
	assert.False(t, entry.HasValue)
}

func TestEndpointSwitchKeepsSelectionAndShowsLoading(t *testing.T) {
	m := newTestModel(t)
	m.selection.Select("a")

	cmd := m.switchEndpoint("http://other-gw:9000")
	require.NotNil(t, cmd)

	key, ok := m.selection.Key()
	require.True(t, ok)
	assert.Equal(t, "a", key)
	assert.Equal(t, "http://other-gw:9000", m.config.GatewayURL)
	assert.Equal(t, "Loading breakdown…", m.commitCol.placeholder)
	assert.Equal(t, "Loading investors…", m.investorCol.placeholder)
}
