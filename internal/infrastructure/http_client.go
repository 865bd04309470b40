package infrastructure

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"adsstudio/internal/domain"
	"adsstudio/pkg/logger"
	"adsstudio/pkg/metrics"

	"golang.org/x/time/rate"
)

// implements GenerationClient and PlanExporter interfaces
type HTTPClient struct {
	client      *http.Client
	sinkURL     string
	sinkSecret  string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

type HTTPClientOptions struct {
	Timeout            time.Duration
	SinkURL            string
	SinkSecret         string
	RateLimitPerSecond int
	RateLimitBurst     int
}

// creates a new HTTP client
func NewHTTPClient(opts HTTPClientOptions, logger *logger.Logger, metrics *metrics.Metrics) *HTTPClient {
	limit := rate.Inf
	if opts.RateLimitPerSecond > 0 {
		limit = rate.Limit(opts.RateLimitPerSecond)
	}
	burst := opts.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		sinkURL:     opts.SinkURL,
		sinkSecret:  opts.SinkSecret,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

// posts the cleaned campaign to the generation service. Non-success statuses
// are returned as a response, only transport faults are errors.
func (c *HTTPClient) Generate(ctx context.Context, effect domain.SubmitEffect) (*domain.RawResponse, error) {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("generation", "rate_limit")
		return nil, &domain.TransportError{Err: fmt.Errorf("rate limit exceeded: %w", err)}
	}

	payload, err := json.Marshal(effect.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("generation", "json_marshal")
		return nil, fmt.Errorf("failed to marshal campaign: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, effect.Endpoint, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordExternalAPIFailure("generation", "request_creation")
		return nil, &domain.TransportError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("generation", "network_error")
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("generation", "read_body")
		return nil, &domain.TransportError{Err: err}
	}

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordExternalAPICall("generation", fmt.Sprintf("error_%d", resp.StatusCode), duration)
	} else {
		c.metrics.RecordExternalAPICall("generation", "success", duration)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      effect.Endpoint,
		"status":   resp.StatusCode,
		"duration": duration,
		"bytes":    len(body),
	}).Info("Generation service responded")

	return &domain.RawResponse{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Body:       body,
	}, nil
}

// implements PlanExporter interface
func (c *HTTPClient) ExportPlan(ctx context.Context, name string, plan any) error {
	if c.sinkURL == "" {
		return domain.ErrSinkNotSet
	}

	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("sink", "rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"name": name,
		"plan": plan,
	})
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sink", "json_marshal")
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sinkURL, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sink", "request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Add HMAC signature if secret is provided
	if c.sinkSecret != "" {
		req.Header.Set("X-Signature", SignPayload(c.sinkSecret, payload))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sink", "network_error")
		return fmt.Errorf("failed to export plan: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordExternalAPICall("sink", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("sink API returned status %d", resp.StatusCode)
	}

	c.metrics.RecordExternalAPICall("sink", "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      c.sinkURL,
		"duration": duration,
		"name":     name,
	}).Info("Successfully exported plan")

	return nil
}

// SignPayload returns the hex HMAC-SHA256 of payload
func SignPayload(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// the reason phrase without the leading code
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
