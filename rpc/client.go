package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-ual-webauth/ual"
	"github.com/tidwall/gjson"
)

const (
	pathGetAccount = "/v1/chain/get_account"
	pathGetInfo    = "/v1/chain/get_info"

	defaultTimeout = 10 * time.Second
)

// ErrNoEndpoint is returned when a client is built without a usable endpoint.
var ErrNoEndpoint = goerrors.New("chain rpc endpoint is required", goerrors.CategoryBadInput).
	WithTextCode("RPC_ENDPOINT_REQUIRED").
	WithCode(goerrors.CodeBadRequest)

// Client talks to a chain API node over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// New creates a client for the node at endpoint (e.g. https://host:443).
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// NewFromChain creates a client for the first RPC endpoint of chain.
func NewFromChain(chain ual.Chain, opts ...Option) (*Client, error) {
	if len(chain.RPCEndpoints) == 0 {
		return nil, ErrNoEndpoint
	}
	return New(chain.RPCEndpoints[0].URL(), opts...)
}

// Endpoint returns the node base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// GetAccount fetches the on-chain account, including its permissions.
func (c *Client) GetAccount(ctx context.Context, name string) (*Account, error) {
	var account Account
	if err := c.call(ctx, pathGetAccount, map[string]string{"account_name": name}, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetInfo fetches the node's chain summary.
func (c *Client) GetInfo(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.call(ctx, pathGetInfo, map[string]string{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) call(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rpc: encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || gjson.GetBytes(data, "error.code").Exists() {
		return decodeAPIError(path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rpc: decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(path string, status int, data []byte) error {
	apiErr := &APIError{Path: path, Code: status}

	if !gjson.ValidBytes(data) {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	if err := json.Unmarshal(data, apiErr); err != nil {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}
	apiErr.Path = path
	if apiErr.Code == 0 {
		apiErr.Code = status
	}

	return apiErr
}
