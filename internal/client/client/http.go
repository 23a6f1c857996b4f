package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

const maxResponseBody = 1 << 20

// TokenFunc returns the bearer token to attach to a request. An empty token
// sends the request without an Authorization header.
type TokenFunc func(ctx context.Context) (string, error)

// StatusError is returned for non-2xx responses that have no sentinel.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. Timeouts are
// expected to come from the request context.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithTokenFunc(f TokenFunc) Option {
	return func(h *HTTPClient) { h.token = f }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type createMemberResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type addPaymentResponse struct {
	Success bool   `json:"success"`
	ID      *int64 `json:"id"`
	Message string `json:"message"`
}

func (c *HTTPClient) CreateMember(ctx context.Context, operatorID string, m MemberPayload) (CreateMemberResult, error) {
	path := "/agents/" + url.PathEscape(operatorID) + "/adherents"
	headers := map[string]string{common.IdempotencyKeyHeaderName: m.LocalUUID}

	var resp createMemberResponse
	if err := c.postJSON(ctx, path, headers, m, &resp); err != nil {
		return CreateMemberResult{}, err
	}
	return CreateMemberResult{Success: resp.Success, RemoteID: resp.ID, Message: resp.Message}, nil
}

func (c *HTTPClient) AddPayment(ctx context.Context, p PaymentPayload) (AddPaymentResult, error) {
	var resp addPaymentResponse
	if err := c.postJSON(ctx, "/paiements", nil, p, &resp); err != nil {
		return AddPaymentResult{}, err
	}
	return AddPaymentResult{Success: resp.Success, RemoteID: resp.ID, Message: resp.Message}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	return checkStatus(resp, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := checkStatus(resp, data); err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusBadGateway, resp.StatusCode == http.StatusGatewayTimeout:
		return errors.Join(ErrUnavailable, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))})
	default:
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
