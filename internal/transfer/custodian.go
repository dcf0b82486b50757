package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/efreitasn/minidex/internal/domain"
)

// Custodian is an AssetTransferService backed by an external custody
// service over HTTP. Transfers are POSTed to {baseURL}/transfers/in and
// {baseURL}/transfers/out; any non-2xx response is a failed transfer.
type Custodian struct {
	baseURL string
	client  *http.Client
}

// NewCustodian creates a Custodian client for the given base URL.
func NewCustodian(baseURL string, timeout time.Duration) *Custodian {
	return &Custodian{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// transferRequest is the JSON body for both transfer directions.
type transferRequest struct {
	Asset   domain.Asset `json:"asset"`
	Account string       `json:"account"`
	Amount  int64        `json:"amount"`
}

// TransferIn asks the custodian to move amount of asset from the account's
// external custody into the system's custody.
func (c *Custodian) TransferIn(ctx context.Context, asset domain.Asset, from string, amount int64) error {
	return c.post(ctx, "/transfers/in", transferRequest{Asset: asset, Account: from, Amount: amount})
}

// TransferOut asks the custodian to move amount of asset from system
// custody back to the account.
func (c *Custodian) TransferOut(ctx context.Context, asset domain.Asset, to string, amount int64) error {
	return c.post(ctx, "/transfers/out", transferRequest{Asset: asset, Account: to, Amount: amount})
}

func (c *Custodian) post(ctx context.Context, path string, body transferRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("custodian unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("custodian rejected transfer: status %d", resp.StatusCode)
	}
	return nil
}
