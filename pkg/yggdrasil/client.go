package yggdrasil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"go.mcproto.dev/mcproto/pkg/version"
)

// DefaultBaseURL is Mojang's production Yggdrasil authentication
// server.
const DefaultBaseURL = "https://authserver.mojang.com"

var tracer = otel.Tracer("yggdrasil")

// ApiStatusError is returned when an operation receives an unexpected
// HTTP status. If the response body parsed as an ApiError, Api is
// non-nil; per §4.10 a parse failure still leaves StatusCode populated
// and Api nil.
type ApiStatusError struct {
	StatusCode int
	Api        *ApiError
}

func (e *ApiStatusError) Error() string {
	if e.Api != nil {
		return fmt.Sprintf("yggdrasil: status %d: %s", e.StatusCode, e.Api.String())
	}
	return fmt.Sprintf("yggdrasil: unexpected status %d", e.StatusCode)
}

// Client talks to a Yggdrasil authentication server.
type Client struct {
	baseURL string
	cli     *http.Client
}

// Options configures a new Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL, e.g. to point at a custom
	// authentication server.
	BaseURL string
	// HTTP is the client used to issue requests. If nil, a new one with
	// a 10 second timeout is created.
	HTTP *http.Client
}

// New returns a Client.
func New(options Options) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cli := options.HTTP
	if cli == nil {
		cli = &http.Client{Timeout: 10 * time.Second}
	}
	cli.Transport = otelhttp.NewTransport(cli.Transport)
	cli.Transport = withHeader(cli.Transport, version.UserAgentHeader())
	return &Client{baseURL: baseURL, cli: cli}
}

func withHeader(rt http.RoundTripper, header http.Header) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return headerRoundTripper{Header: header, rt: rt}
}

type headerRoundTripper struct {
	http.Header
	rt http.RoundTripper
}

func (h headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range h.Header {
		req.Header[k] = v
	}
	return h.rt.RoundTrip(req)
}

func (c *Client) do(ctx context.Context, op, endpoint string, reqBody any, result any) error {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("yggdrasil.endpoint", endpoint),
	))
	defer span.End()

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("yggdrasil: error marshaling %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("yggdrasil: error creating %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	log := logr.FromContextOrDiscard(ctx).V(1).WithName("yggdrasil").WithName(op)
	log.Info("sending request", "endpoint", endpoint)

	resp, err := c.cli.Do(req)
	if err != nil {
		return fmt.Errorf("yggdrasil: error sending %s request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yggdrasil: error reading %s response: %w", op, err)
	}

	log.Info("received response", "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		statusErr := &ApiStatusError{StatusCode: resp.StatusCode}
		var apiErr ApiError
		if json.Unmarshal(respBody, &apiErr) == nil {
			statusErr.Api = &apiErr
		}
		return statusErr
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("yggdrasil: error parsing %s response: %w", op, err)
	}
	return nil
}

// Authenticate logs a user in.
func (c *Client) Authenticate(ctx context.Context, req AuthenticateRequest) (*AuthenticateResponse, error) {
	var resp AuthenticateResponse
	if err := c.do(ctx, "Authenticate", "/authenticate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a still-valid access token for a new one.
func (c *Client) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.do(ctx, "Refresh", "/refresh", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate reports whether an access token is still usable. Unlike the
// other operations, a failed validation (HTTP 403) is not an error: it
// is reported as (false, nil).
func (c *Client) Validate(ctx context.Context, req ValidateRequest) (bool, error) {
	ctx, span := tracer.Start(ctx, "Validate", trace.WithAttributes(
		attribute.String("yggdrasil.endpoint", "/validate"),
	))
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		return false, fmt.Errorf("yggdrasil: error marshaling Validate request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("yggdrasil: error creating Validate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.cli.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("yggdrasil: error sending Validate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return true, nil
	case http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		statusErr := &ApiStatusError{StatusCode: resp.StatusCode}
		var apiErr ApiError
		if json.Unmarshal(respBody, &apiErr) == nil {
			statusErr.Api = &apiErr
		}
		return false, statusErr
	}
}

// Signout invalidates every access token issued to an account.
func (c *Client) Signout(ctx context.Context, req SignoutRequest) error {
	return c.noContent(ctx, "Signout", "/signout", req)
}

// Invalidate invalidates a specific access token.
func (c *Client) Invalidate(ctx context.Context, req InvalidateRequest) error {
	return c.noContent(ctx, "Invalidate", "/invalidate", req)
}

// noContent implements the signout/invalidate shape: 204 means success,
// anything else is an error, with an ApiError attached when the body
// parses as one.
func (c *Client) noContent(ctx context.Context, op, endpoint string, reqBody any) error {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("yggdrasil.endpoint", endpoint),
	))
	defer span.End()

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("yggdrasil: error marshaling %s request: %w", op, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("yggdrasil: error creating %s request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.cli.Do(httpReq)
	if err != nil {
		return fmt.Errorf("yggdrasil: error sending %s request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	respBody, _ := io.ReadAll(resp.Body)
	statusErr := &ApiStatusError{StatusCode: resp.StatusCode}
	var apiErr ApiError
	if json.Unmarshal(respBody, &apiErr) == nil {
		statusErr.Api = &apiErr
	}
	return statusErr
}
