package management

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moolen/halsuite/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Executor runs a single management operation.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

// ClientConfig configures the HTTP executor.
type ClientConfig struct {
	Username string
	Password string
	Timeout  time.Duration
}

// DefaultClientConfig returns the defaults used by the test suite.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout: 30 * time.Second,
	}
}

// Client executes operations over the HTTP management interface.
type Client struct {
	config ClientConfig
	http   *http.Client
	tracer trace.Tracer
	logger *logging.Logger
}

// NewClient creates an HTTP executor.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	return &Client{
		config: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: otel.Tracer("halsuite/management"),
		logger: logging.GetLogger("management"),
	}
}

// Execute posts the request to req.ManagementAPI and decodes the response
// envelope. A non-success outcome is not an error here: callers decide how
// to treat it. Errors are transport or decoding failures only.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	if req.ManagementAPI == "" {
		return nil, fmt.Errorf("management API URL must not be empty")
	}

	ctx, span := c.tracer.Start(ctx, "management."+string(req.Operation),
		trace.WithAttributes(
			attribute.String("operation", string(req.Operation)),
			attribute.String("address", req.Address.String()),
			attribute.String("management_api", req.ManagementAPI),
		))
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to encode %s request: %w", req.Operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.ManagementAPI, bytes.NewReader(body))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.Username != "" {
		httpReq.SetBasicAuth(c.config.Username, c.config.Password)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to execute %s on %s: %w", req.Operation, req.Address, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Failed operations come back as HTTP 500 with a regular envelope.
	var out Response
	if decodeErr := json.Unmarshal(data, &out); decodeErr != nil || out.Outcome == "" {
		err := fmt.Errorf("management API error %d: %s", resp.StatusCode, string(data))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	out.Operation = req.Operation

	span.SetAttributes(attribute.String("outcome", out.Outcome))
	c.logger.WithContext(ctx).DebugWithFields("operation executed",
		logging.Field("operation", req.Operation),
		logging.Field("address", req.Address.String()),
		logging.Field("outcome", out.Outcome),
		logging.Field("duration_ms", time.Since(start).Milliseconds()),
	)
	if !out.Succeeded() {
		span.SetStatus(codes.Error, out.Failure())
	}

	return &out, nil
}
