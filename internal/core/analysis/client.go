// Package analysis calls the remote review-analysis service.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/logging"
	"github.com/neilberkman/reviewrider/internal/core/models"
)

const analyzePath = "/api/analyze"

// MsgProcessing is reported once the response has arrived
const MsgProcessing = "Processing server response..."

// Analyzer is what the session controller needs from a client
type Analyzer interface {
	Analyze(ctx context.Context, req Request, progress ProgressFunc) (models.AnalysisResult, error)
}

// Client talks to the analysis service over HTTP
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l).Named("analysis") }
}

// WithTimeout bounds each request, including reading the body
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a client for the service rooted at endpoint
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	baseURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the service base URL
func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

// Analyze submits req and returns the decoded result. Every failure is a
// *RemoteCallError.
func (c *Client) Analyze(ctx context.Context, req Request, progress ProgressFunc) (models.AnalysisResult, error) {
	if progress == nil {
		progress = func(float64, string) {}
	}

	body, err := json.Marshal(newAnalyzeRequest(req))
	if err != nil {
		return nil, &RemoteCallError{Kind: KindNetwork, Message: "failed to encode request", Cause: err}
	}

	endpoint := c.baseURL.JoinPath(analyzePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &RemoteCallError{Kind: KindNetwork, Message: "failed to create request", Cause: err}
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(zap.String("request_id", requestID), zap.String("mode", string(req.Mode)))
	log.Debug("Sending analysis request", zap.String("url", endpoint.String()))

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		callErr := transportError(ctx, err)
		log.Warn("Analysis request failed", zap.String("kind", string(callErr.Kind)), zap.Error(err))
		return nil, callErr
	}
	defer func() { _ = resp.Body.Close() }()

	progress(0.5, MsgProcessing)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	log.Debug("Analysis response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, data)
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &RemoteCallError{Kind: KindDecode, Message: "could not decode server response", Cause: err}
	}
	result, ok := decoded.toResult()
	if !ok {
		return nil, &RemoteCallError{Kind: KindDecode, Message: fmt.Sprintf("unknown result type %q", decoded.Type)}
	}
	return result, nil
}

func serverError(status int, body []byte) *RemoteCallError {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &RemoteCallError{Kind: KindServer, StatusCode: status, Message: msgUnprocessableError}
	}

	message := errResp.Error
	if message == "" {
		message = fmt.Sprintf(msgServerStatus, status)
	}
	return &RemoteCallError{Kind: KindServer, StatusCode: status, Message: message}
}

func transportError(ctx context.Context, err error) *RemoteCallError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &RemoteCallError{Kind: KindTimeout, Message: "analysis timed out", Cause: err}
	}
	return &RemoteCallError{Kind: KindNetwork, Message: "could not reach analysis server", Cause: err}
}
