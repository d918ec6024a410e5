package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to the host that executes asset transfers. The settlement core
// only decides who gets paid; moving funds is this collaborator's job.
type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bank API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

// TransferOrder instructs the host to pay one account. Ref is an idempotency
// key: re-submitting the same ref must not move funds twice.
type TransferOrder struct {
	Ref    string `json:"ref"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Denom  string `json:"denom"`
	Memo   string `json:"memo,omitempty"`
}

func (c *Client) SendTransfer(ctx context.Context, order TransferOrder) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("bank client not configured")
	}
	if order.Ref == "" || order.To == "" || order.Amount <= 0 {
		return fmt.Errorf("invalid transfer order: ref=%q to=%q amount=%d", order.Ref, order.To, order.Amount)
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/transfers", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}
