package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// backoffSpread is the width of the uniform jitter factor applied to the
// retry delay. Each retry multiplies the delay by a sample from
// [0, backoffSpread), so the expected growth per retry is backoffSpread/2.
const backoffSpread = 8.0

// Config holds configuration for the Fetcher
type Config struct {
	// Rate limiting
	RequestsPerMinute int // Default: 60
	Burst             int // Default: 5

	// Backoff
	InitialBackoff time.Duration // Default: 1s
	BackoffCeiling time.Duration // Default: 64s

	// HTTP configuration
	UserAgent string        // Default: podcatch/1.0
	Timeout   time.Duration // Default: 0 (no client timeout)
}

// Fetcher performs HTTP GETs with client-side rate limiting and jittered
// exponential backoff. Transport failures are retried until the nominal
// delay reaches the ceiling; malformed requests and HTTP error statuses
// fail immediately.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  Config

	// injectable for tests
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(cfg Config) *Fetcher {
	// Apply defaults
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.Burst == 0 {
		cfg.Burst = 5
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.BackoffCeiling == 0 {
		cfg.BackoffCeiling = 64 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "podcatch/1.0"
	}

	limiter := rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)),
		cfg.Burst,
	)

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true, // audio bodies are already compressed
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: limiter,
		config:  cfg,
		sleep:   sleepContext,
		jitter:  rand.Float64,
	}
}

// Get fetches url and returns the whole response body, retrying transport
// failures with jittered exponential backoff.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := f.withBackoff(ctx, url, func() error {
		resp, err := f.do(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Download streams url into the file at path and returns the number of
// bytes written. Any pre-existing file at path is removed before each
// attempt so a retry never appends to a partial body.
func (f *Fetcher) Download(ctx context.Context, url, path string) (int64, error) {
	var written int64
	err := f.withBackoff(ctx, url, func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove partial file: %w", err)
		}

		resp, err := f.do(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		n, err := io.Copy(out, resp.Body)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// withBackoff runs attempt until it succeeds, a terminal error occurs, or
// the nominal delay reaches the ceiling. The loop sleeps before growing the
// delay, so the first retry always waits the initial backoff.
func (f *Fetcher) withBackoff(ctx context.Context, url string, attempt func() error) error {
	delay := f.config.InitialBackoff
	attempts := 0

	for {
		attempts++
		err := attempt()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}

		if serr := f.sleep(ctx, delay); serr != nil {
			return serr
		}

		delay = time.Duration(float64(delay) * backoffSpread * f.jitter())
		if delay >= f.config.BackoffCeiling {
			return &RetryError{URL: url, Attempts: attempts, Err: err}
		}
	}
}

// do performs a single rate-limited request and verifies the status code
func (f *Fetcher) do(ctx context.Context, url string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// isRetryable reports whether err is a transport-level failure worth
// retrying. Malformed requests, HTTP error statuses, filesystem errors,
// and context cancellation are terminal.
func isRetryable(err error) bool {
	if errors.Is(err, ErrInvalidRequest) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// sleepContext sleeps for d unless ctx is canceled first
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
