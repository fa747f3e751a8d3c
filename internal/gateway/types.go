package gateway

import "encoding/json"

// Investor is one row of the master list, as returned by the gateway's
// investors query.
type Investor struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	InvestorType          string  `json:"investorType"`
	Country               string  `json:"country"`
	DateAdded             string  `json:"dateAdded"`
	CommitmentCount       int     `json:"commitmentCount"`
	TotalCommitmentAmount float64 `json:"totalCommitmentAmount"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

// InvestorList is one page of investors with pagination metadata. The
// client trusts Total and TotalPages as reported by the service rather
// than recomputing them from the item count.
type InvestorList struct {
	Investors             []Investor `json:"investors"`
	TotalCommitmentAmount float64    `json:"totalCommitmentAmount"`
	Total                 int        `json:"total"`
	Page                  int        `json:"page"`
	Size                  int        `json:"size"`
	TotalPages            int        `json:"totalPages"`
}

// CommitmentDetail is an individual commitment with its resolved asset
// class name and share of the investor's total.
type CommitmentDetail struct {
	ID           string  `json:"id"`
	AssetClassID string  `json:"assetClassId"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Percentage   float64 `json:"percentage"`
	CreatedAt    string  `json:"createdAt"`
}

// AssetSummary aggregates an investor's commitments within one asset class.
type AssetSummary struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	TotalCommitmentAmount float64 `json:"totalCommitmentAmount"`
	CommitmentCount       int     `json:"commitmentCount"`
	PercentageOfTotal     float64 `json:"percentageOfTotal"`
}

// CommitmentBreakdown is the full detail view for one investor, optionally
// filtered to a single asset class.
type CommitmentBreakdown struct {
	InvestorID            string             `json:"investorId"`
	InvestorName          string             `json:"investorName"`
	TotalCommitmentAmount float64            `json:"totalCommitmentAmount"`
	Assets                []AssetSummary     `json:"assets"`
	Commitments           []CommitmentDetail `json:"commitments"`
}

// DecodeInvestorList decodes the raw payload of an investors reply.
func DecodeInvestorList(raw json.RawMessage) (InvestorList, error) {
	var list InvestorList
	err := json.Unmarshal(raw, &list)
	return list, err
}

// DecodeCommitmentBreakdown decodes the raw payload of a
// commitmentBreakdown reply. A JSON null (investor not found) decodes to
// the zero breakdown.
func DecodeCommitmentBreakdown(raw json.RawMessage) (CommitmentBreakdown, error) {
	var breakdown CommitmentBreakdown
	if len(raw) == 0 || string(raw) == "null" {
		return breakdown, nil
	}
	err := json.Unmarshal(raw, &breakdown)
	return breakdown, err
}
