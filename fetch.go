package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/peview/peview/internal/gateway"
	"github.com/peview/peview/internal/query"
)

// Loaded messages carry the binding that issued the request. Endpoint
// switches replace the bindings wholesale, and a fresh binding restarts its
// version counters, so the version stamp alone cannot tell a reply from the
// old endpoint apart from one for the new; the binding identity can.
type investorsLoadedMsg struct {
	binding *query.Binding[gateway.InvestorList]
	res     query.Result[gateway.InvestorList]
}

type breakdownLoadedMsg struct {
	binding *query.Binding[gateway.CommitmentBreakdown]
	res     query.Result[gateway.CommitmentBreakdown]
}

// fetchInvestorsCmd runs a stamped investors request off the event loop.
// The reply carries the version back so a superseded response is dropped
// at resolution instead of cancelled in flight.
func fetchInvestorsCmd(binding *query.Binding[gateway.InvestorList], req query.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return investorsLoadedMsg{binding: binding, res: binding.Do(ctx, req)}
	}
}

func fetchBreakdownCmd(binding *query.Binding[gateway.CommitmentBreakdown], req query.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return breakdownLoadedMsg{binding: binding, res: binding.Do(ctx, req)}
	}
}

// investorsKey is the list binding signature: page and size only, so
// changing either replaces the cached page wholesale.
func investorsKey(page, size int) query.Key {
	return query.NewKey(gateway.OpInvestors, gateway.InvestorsArgs(page, size))
}

// breakdownKey is the detail binding signature, re-keyed off the current
// selection and asset class filter.
func breakdownKey(investorID, assetClassID string) query.Key {
	return query.NewKey(gateway.OpCommitmentBreakdown, gateway.BreakdownArgs(investorID, assetClassID))
}
