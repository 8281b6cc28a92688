package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const defaultBaseURL = "https://api.cloudbase.example.com/v1"

// Client is a minimal control-plane API client for environment and
// hosting management.
type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewClient creates a new control-plane client. The API endpoint can be
// overridden with the HOSTING_API_ENDPOINT environment variable.
func NewClient(apiToken string) *Client {
	baseURL := defaultBaseURL
	if v := os.Getenv("HOSTING_API_ENDPOINT"); v != "" {
		baseURL = v
	}
	return &Client{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// DescribeEnvironments returns all environments visible to the account.
func (c *Client) DescribeEnvironments(ctx context.Context) ([]Environment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/environments", nil)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("describe environments: %w", err)
	}

	var envs []Environment
	if err := json.Unmarshal(resp.Result, &envs); err != nil {
		return nil, fmt.Errorf("parse environments: %w", err)
	}

	return envs, nil
}

// DescribeHosting returns the hosting records for the given environment.
// An empty slice is a valid response: hosting exists once provisioning
// on the cloud side has completed.
func (c *Client) DescribeHosting(ctx context.Context, envID string) ([]HostingSite, error) {
	req, err := c.newRequest(ctx, http.MethodGet,
		fmt.Sprintf("/environments/%s/hosting", envID), nil)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("describe hosting for %s: %w", envID, err)
	}

	var sites []HostingSite
	if err := json.Unmarshal(resp.Result, &sites); err != nil {
		return nil, fmt.Errorf("parse hosting records: %w", err)
	}

	return sites, nil
}

// EnableHosting requests hosting creation for the given environment.
// The request is fire-and-forget; the control plane provisions
// asynchronously.
func (c *Client) EnableHosting(ctx context.Context, envID string) error {
	req, err := c.newRequest(ctx, http.MethodPost,
		fmt.Sprintf("/environments/%s/hosting", envID), nil)
	if err != nil {
		return err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return fmt.Errorf("enable hosting for %s: %w", envID, err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out *apiResponse) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if !out.Success {
		if len(out.Errors) > 0 {
			return fmt.Errorf("API error %d: %s", out.Errors[0].Code, out.Errors[0].Message)
		}
		return fmt.Errorf("API request failed")
	}

	return nil
}
