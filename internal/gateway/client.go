// Package gateway is the HTTP client for the investment platform's GraphQL
// gateway. It exposes the two list/detail operations the terminal client
// consumes and satisfies query.Runner, so bindings can execute through it
// without knowing about GraphQL documents or transport.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Operation names recognized by Run.
const (
	OpInvestors           = "investors"
	OpCommitmentBreakdown = "commitmentBreakdown"
)

// Default list arguments, matching the gateway schema defaults.
const (
	DefaultPage = 1
	DefaultSize = 20
)

const investorsQuery = `query Investors($page: Int!, $size: Int!) {
  investors(page: $page, size: $size) {
    investors {
      id
      name
      investorType
      country
      dateAdded
      commitmentCount
      totalCommitmentAmount
      createdAt
      updatedAt
    }
    totalCommitmentAmount
    total
    page
    size
    totalPages
  }
}`

const commitmentBreakdownQuery = `query CommitmentBreakdown($investorId: String!, $assetClassId: String) {
  commitmentBreakdown(investorId: $investorId, assetClassId: $assetClassId) {
    investorId
    investorName
    totalCommitmentAmount
    assets {
      id
      name
      totalCommitmentAmount
      commitmentCount
      percentageOfTotal
    }
    commitments {
      id
      assetClassId
      name
      amount
      currency
      percentage
      createdAt
    }
  }
}`

// Client talks to one gateway endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a client for baseURL. The /graphql path is appended when
// the URL does not already carry a path.
func NewClient(baseURL string, timeout time.Duration) *Client {
	endpoint := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.Contains(strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"), "/") {
		endpoint += "/graphql"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the resolved POST target.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphqlError             `json:"errors"`
}

// Run executes a named operation and returns the raw payload of its data
// field. Unknown operations and GraphQL-level errors surface as Go errors.
func (c *Client) Run(ctx context.Context, operation string, args map[string]any) (json.RawMessage, error) {
	var document string
	switch operation {
	case OpInvestors:
		document = investorsQuery
	case OpCommitmentBreakdown:
		document = commitmentBreakdownQuery
	default:
		return nil, fmt.Errorf("gateway: unknown operation %q", operation)
	}

	body, err := json.Marshal(graphqlRequest{Query: document, Variables: args})
	if err != nil {
		return nil, fmt.Errorf("gateway: encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("gateway: read %s response: %w", operation, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway: %s returned HTTP %d", operation, resp.StatusCode)
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("gateway: decode %s response: %w", operation, err)
	}
	if len(parsed.Errors) > 0 {
		messages := make([]string, len(parsed.Errors))
		for i, gqlErr := range parsed.Errors {
			messages[i] = gqlErr.Message
		}
		return nil, fmt.Errorf("gateway: %s failed: %s", operation, strings.Join(messages, "; "))
	}

	raw, ok := parsed.Data[operation]
	if !ok {
		return nil, fmt.Errorf("gateway: %s response missing data field", operation)
	}
	return raw, nil
}

// InvestorsArgs builds the argument set for the investors operation,
// falling back to the schema defaults for non-positive values.
func InvestorsArgs(page, size int) map[string]any {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	return map[string]any{"page": page, "size": size}
}

// BreakdownArgs builds the argument set for the commitmentBreakdown
// operation. An empty assetClassID means "all" and is omitted.
func BreakdownArgs(investorID, assetClassID string) map[string]any {
	args := map[string]any{"investorId": investorID}
	if strings.TrimSpace(assetClassID) != "" {
		args["assetClassId"] = assetClassID
	}
	return args
}
