package antelope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/go-playground/validator/v10"

	"github.com/antelope-tools/msigview/sdk"
	"github.com/antelope-tools/msigview/types"
)

// MsigContract is the account the system multisig contract is deployed on.
var MsigContract = types.MustNewName("eosio.msig")

const (
	proposalTable  = "proposal"
	approvalsTable = "approvals2"

	defaultRetryAttempts  = 3
	defaultRequestTimeout = 10 * time.Second
)

// ClientOptions configures a Client. Only Endpoint is required.
type ClientOptions struct {
	// Endpoint is the base URL of a chain API node, e.g.
	// https://eos.greymass.com.
	Endpoint string `validate:"required,http_url"`

	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// RetryAttempts bounds the attempts per RPC call.
	RetryAttempts uint `validate:"omitempty,lte=10"`

	// RequestTimeout bounds each individual attempt.
	RequestTimeout time.Duration
}

// Client is the JSON-over-HTTP chain API client implementing sdk.ChainReader.
type Client struct {
	endpoint   string
	httpClient *http.Client
	attempts   uint
	timeout    time.Duration
}

var _ sdk.ChainReader = (*Client)(nil)

// NewClient validates the options and returns a ready client.
func NewClient(opts ClientOptions) (*Client, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid client options: %w", err)
	}

	client := &Client{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		httpClient: opts.HTTPClient,
		attempts:   opts.RetryAttempts,
		timeout:    opts.RequestTimeout,
	}
	if client.httpClient == nil {
		client.httpClient = http.DefaultClient
	}
	if client.attempts == 0 {
		client.attempts = defaultRetryAttempts
	}
	if client.timeout == 0 {
		client.timeout = defaultRequestTimeout
	}

	return client, nil
}

type getTableRowsRequest struct {
	JSON       bool   `json:"json"`
	Code       string `json:"code"`
	Scope      string `json:"scope"`
	Table      string `json:"table"`
	LowerBound string `json:"lower_bound,omitempty"`
	Limit      uint32 `json:"limit"`
}

type getTableRowsResponse struct {
	Rows []json.RawMessage `json:"rows"`
	More bool              `json:"more"`
}

// GetProposal fetches the proposal row stored under scope on the multisig
// contract. A missing row, or a lower_bound match on a different proposal
// name, is sdk.ErrNotFound.
func (c *Client) GetProposal(ctx context.Context, scope, proposal types.Name) (*sdk.ProposalRow, error) {
	var response getTableRowsResponse
	err := c.post(ctx, "/v1/chain/get_table_rows", getTableRowsRequest{
		JSON:       true,
		Code:       MsigContract.String(),
		Scope:      scope.String(),
		Table:      proposalTable,
		LowerBound: proposal.String(),
		Limit:      1,
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("get proposal %s/%s: %w", scope, proposal, err)
	}

	if len(response.Rows) == 0 {
		return nil, sdk.ErrNotFound
	}

	var row sdk.ProposalRow
	if err := json.Unmarshal(response.Rows[0], &row); err != nil {
		return nil, fmt.Errorf("get proposal %s/%s: invalid row: %w", scope, proposal, err)
	}
	if row.ProposalName != proposal {
		return nil, sdk.ErrNotFound
	}

	return &row, nil
}

// approvalLevel is one entry of the approvals table, a permission level plus
// the time it was requested or provided.
type approvalLevel struct {
	Level types.PermissionLevel `json:"level"`
	Time  string                `json:"time"`
}

type approvalsRow struct {
	ProposalName types.Name      `json:"proposal_name"`
	Requested    []approvalLevel `json:"requested_approvals"`
	Provided     []approvalLevel `json:"provided_approvals"`
}

// GetApprovals fetches the approvals row for a proposal. A missing row yields
// an empty result, not an error.
func (c *Client) GetApprovals(ctx context.Context, scope, proposal types.Name) (*sdk.ApprovalsRow, error) {
	var response getTableRowsResponse
	err := c.post(ctx, "/v1/chain/get_table_rows", getTableRowsRequest{
		JSON:       true,
		Code:       MsigContract.String(),
		Scope:      scope.String(),
		Table:      approvalsTable,
		LowerBound: proposal.String(),
		Limit:      1,
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("get approvals %s/%s: %w", scope, proposal, err)
	}

	out := &sdk.ApprovalsRow{
		Requested: []types.PermissionLevel{},
		Provided:  []types.PermissionLevel{},
	}

	if len(response.Rows) == 0 {
		return out, nil
	}

	var row approvalsRow
	if err := json.Unmarshal(response.Rows[0], &row); err != nil {
		return nil, fmt.Errorf("get approvals %s/%s: invalid row: %w", scope, proposal, err)
	}
	if row.ProposalName != proposal {
		return out, nil
	}

	for _, entry := range row.Requested {
		out.Requested = append(out.Requested, entry.Level)
	}
	for _, entry := range row.Provided {
		out.Provided = append(out.Provided, entry.Level)
	}

	return out, nil
}

type getAbiRequest struct {
	AccountName string `json:"account_name"`
}

type getAbiResponse struct {
	AccountName string     `json:"account_name"`
	ABI         *types.ABI `json:"abi"`
}

// GetABI fetches the ABI currently published for an account. An account
// without one is sdk.ErrAbiUnavailable.
func (c *Client) GetABI(ctx context.Context, account types.Name) (*types.ABI, error) {
	var response getAbiResponse
	err := c.post(ctx, "/v1/chain/get_abi", getAbiRequest{AccountName: account.String()}, &response)
	if err != nil {
		return nil, fmt.Errorf("get abi %s: %w", account, err)
	}

	if response.ABI == nil {
		return nil, sdk.ErrAbiUnavailable
	}

	return response.ABI, nil
}

// post issues one JSON RPC call with bounded retries and a per-attempt
// timeout. A stalled node degrades to an error after the last attempt instead
// of hanging the pipeline.
func (c *Client) post(ctx context.Context, path string, request, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	return retry.Do(func() error {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(rctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(response)
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.LastErrorOnly(true),
	)
}
