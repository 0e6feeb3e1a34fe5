package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Caller performs a single JSON-RPC call against endpoint and returns the
// string result. Every remote operation in walletfetch goes through it.
type Caller interface {
	Call(ctx context.Context, endpoint, method string, params ...any) (string, error)
}

// maxResponseBody bounds how much of a response is read.
const maxResponseBody = 10 << 20

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RemoteError    `json:"error"`
}

// Client is a JSON-RPC 2.0 client over HTTP POST. A single Client is shared
// by every concurrent call; it holds no per-call state besides the id counter.
type Client struct {
	http   *http.Client
	log    *zap.Logger
	limits *limiterSet
	nextID atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRateLimit caps calls per endpoint to perSecond with the given burst.
// perSecond <= 0 disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limits = newLimiterSet(perSecond, burst)
		} else {
			c.limits = nil
		}
	}
}

// NewClient creates a Client. Deadlines come from the caller's context.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends method with params to endpoint and returns the result, which
// must be a JSON string. The result is not interpreted further.
func (c *Client) Call(ctx context.Context, endpoint, method string, params ...any) (string, error) {
	if params == nil {
		params = []any{}
	}

	if c.limits != nil {
		if err := c.limits.wait(ctx, endpoint); err != nil {
			return "", &TransportError{Endpoint: endpoint, Err: err}
		}
	}

	id := c.nextID.Add(1)
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	})
	if err != nil {
		return "", fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("rpc call failed",
			zap.String("endpoint", endpoint),
			zap.String("method", method),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return "", &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", &TransportError{Endpoint: endpoint, Status: 0, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.log.Debug("rpc call",
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.Uint64("id", id),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     truncate(body, maxErrorBody),
		}
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return "", &DecodeError{Method: method, Reason: "parsing response", Err: err}
	}
	if rpcResp.Error != nil {
		return "", rpcResp.Error
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return "", &DecodeError{Method: method, Reason: "missing result"}
	}

	var result string
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return "", &DecodeError{Method: method, Reason: "result is not a string", Err: err}
	}
	return result, nil
}
