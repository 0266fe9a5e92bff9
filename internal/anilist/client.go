package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kapu/anilist-explorer-go/internal/constants"
	"github.com/kapu/anilist-explorer-go/internal/util"
	"github.com/kapu/anilist-explorer-go/pkg/errors"
)

// Requester executes one GraphQL document and returns the raw "data" payload.
type Requester interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage       `json:"data"`
	Errors []errors.GraphQLError `json:"errors"`
}

// Client talks to a single GraphQL endpoint. Each Execute is exactly one
// round trip; it never retries.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

type ClientOption func(*Client)

// WithRateLimit paces requests client-side. requestsPerMinute <= 0 disables pacing.
func WithRateLimit(requestsPerMinute, burst int) ClientOption {
	return func(c *Client) {
		if requestsPerMinute <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst)
	}
}

// WithCircuitBreaker makes Execute fail fast while the breaker is open.
func WithCircuitBreaker(cb *util.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(endpoint string, logger *zap.Logger, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = constants.APIConfig.AniListEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.Timeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute posts {query, variables} and returns the data payload unchanged.
// A non-2xx status, a network failure or an undecodable body is a transport
// RemoteError; a decoded response with a non-empty "errors" array is an
// application RemoteError.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if c.breaker != nil && !c.breaker.CanExecute() {
		retryAfter := c.breaker.RetryAfter()
		c.logger.Warn("Circuit breaker is open", zap.Duration("retry_after", retryAfter))
		return nil, errors.NewTransportError("circuit breaker open", http.StatusServiceUnavailable, "", nil)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.NewTransportError("rate limiter wait aborted", 0, "", err)
		}
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, errors.NewTransportError("failed to marshal request", 0, "", err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewTransportError("failed to create request", 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.APIConfig.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		c.logger.Warn("GraphQL request failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, errors.NewTransportError("request failed", 0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return nil, errors.NewTransportError("failed to read response", resp.StatusCode, "", err)
	}

	c.logger.Debug("GraphQL response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.recordFailure()
		}
		return nil, errors.NewTransportError(
			fmt.Sprintf("AniList error %d", resp.StatusCode),
			resp.StatusCode,
			util.TruncateString(string(body), 2048),
			nil,
		)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.recordFailure()
		return nil, errors.NewTransportError("failed to decode response", resp.StatusCode, util.TruncateString(string(body), 2048), err)
	}

	c.recordSuccess()

	if len(decoded.Errors) > 0 {
		c.logger.Warn("GraphQL application error",
			zap.String("request_id", requestID),
			zap.Int("errors", len(decoded.Errors)),
			zap.String("first", decoded.Errors[0].Message),
		)
		return nil, errors.NewApplicationError(resp.StatusCode, decoded.Errors)
	}

	return decoded.Data, nil
}

func (c *Client) recordFailure() {
	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
}

func (c *Client) recordSuccess() {
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
}
