package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"commerce-etl-lab/internal/domain"
)

// APIClient fetches JSON record arrays from an HTTP source with rate
// limiting, exponential-backoff retries, and a circuit breaker. It is a
// wrapper around the source, independent of the transform pipeline: its
// output is the same []domain.Record the CSV reader produces.
type APIClient struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *CircuitBreaker

	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration

	log zerolog.Logger
}

// APIOptions configures an APIClient. Zero values select the defaults.
type APIOptions struct {
	RequestsPerMinute int
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	Timeout           time.Duration
	Logger            zerolog.Logger
}

// NewAPIClient creates a client with the given options.
func NewAPIClient(opts APIOptions) *APIClient {
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 10
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &APIClient{
		http:       &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), opts.RequestsPerMinute),
		breaker:    NewCircuitBreaker(5, time.Minute),
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		maxDelay:   opts.MaxDelay,
		log:        opts.Logger,
	}
}

// FetchRecords GETs a JSON array of flat objects and converts each object
// into a Record, stringifying scalar values. Nested values are rejected.
func (c *APIClient) FetchRecords(ctx context.Context, url string) ([]domain.Record, error) {
	var payload []map[string]any

	err := c.withRetry(ctx, func() error {
		return c.breaker.Call(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				io.Copy(io.Discard, resp.Body)
				return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
			}
			return json.NewDecoder(resp.Body).Decode(&payload)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	records := make([]domain.Record, 0, len(payload))
	for _, obj := range payload {
		rec := domain.NewRecord()
		for k, v := range obj {
			s, err := stringifyScalar(v)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			rec.Fields[k] = s
		}
		records = append(records, rec)
	}
	return records, nil
}

// withRetry runs fn with exponential backoff. The breaker being open
// fails fast without consuming a retry sleep.
func (c *APIClient) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= c.maxRetries || ctx.Err() != nil {
			return err
		}

		delay := c.baseDelay << attempt
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
		c.log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("api fetch failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func stringifyScalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return fmt.Sprintf("%t", t), nil
	case float64:
		// JSON numbers arrive as float64; keep integers unpadded.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t)), nil
		}
		return fmt.Sprintf("%g", t), nil
	default:
		return "", fmt.Errorf("unsupported nested value of type %T", v)
	}
}
