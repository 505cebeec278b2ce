package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type BaseClient struct {
	name           string
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	Timeout time.Duration
	// Threshold is the number of consecutive failures that opens the breaker.
	// Zero keeps it closed forever; it then only counts requests.
	Threshold      int
	BreakerTimeout time.Duration
	HTTPClient     HTTPClient
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	threshold := uint32(0)
	if config.Threshold > 0 {
		threshold = uint32(config.Threshold)
	}

	// Circuit breaker settings
	breakerSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return threshold > 0 && counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BaseClient{
		name:           name,
		client:         httpClient,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(breakerSettings),
	}
}

// GetJSON performs a single GET and decodes the body into out. There are no
// retries; the next scheduled refresh is the retry.
func (c *BaseClient) GetJSON(ctx context.Context, op, url string, header http.Header, out interface{}) error {
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.get(ctx, op, url, header)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &FetchError{Kind: KindTransport, Source: c.name, Op: op, Err: err}
		}
		return err
	}

	body, ok := result.([]byte)
	if !ok {
		return &FetchError{Kind: KindDecode, Source: c.name, Op: op, Err: fmt.Errorf("unexpected result type %T", result)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Kind: KindDecode, Source: c.name, Op: op, Err: err}
	}

	return nil
}

func (c *BaseClient) get(ctx context.Context, op, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Source: c.name, Op: op, Err: fmt.Errorf("creating request failed: %w", err)}
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("HTTP request failed",
			zap.String("client", c.name),
			zap.String("op", op),
			zap.Error(err))
		return nil, &FetchError{Kind: KindTransport, Source: c.name, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			Kind:       KindProtocol,
			Source:     c.name,
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body=%q", string(payload)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Source: c.name, Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("Request successful",
		zap.String("client", c.name),
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)),
		zap.Duration("duration", time.Since(startTime)))

	return body, nil
}

// BreakerStats is a snapshot of the breaker state and its counters.
type BreakerStats struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	TotalSuccesses      uint32 `json:"total_successes"`
	TotalFailures       uint32 `json:"total_failures"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
}

func (c *BaseClient) Stats() BreakerStats {
	counts := c.circuitBreaker.Counts()
	return BreakerStats{
		Name:                c.name,
		State:               c.circuitBreaker.State().String(),
		Requests:            counts.Requests,
		TotalSuccesses:      counts.TotalSuccesses,
		TotalFailures:       counts.TotalFailures,
		ConsecutiveFailures: counts.ConsecutiveFailures,
	}
}
