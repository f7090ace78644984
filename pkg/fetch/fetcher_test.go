package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// testFetcher returns a Fetcher with recorded instant sleeps and a fixed
// jitter factor so backoff growth is deterministic.
func testFetcher(jitter float64, sleeps *[]time.Duration) *Fetcher {
	f := NewFetcher(Config{
		RequestsPerMinute: 60000,
		Burst:             1000,
		InitialBackoff:    time.Millisecond,
		BackoffCeiling:    64 * time.Millisecond,
	})
	f.sleep = func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	f.jitter = func() float64 { return jitter }
	return f
}

// flakyServer drops the connection for the first `failures` requests and
// serves a small body afterwards.
func flakyServer(t *testing.T, failures int32) (*httptest.Server, *int32) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= failures {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("server does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack failed: %v", err)
				return
			}
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte("<feed/>"))
	}))
	return srv, &attempts
}

func TestGet_Success(t *testing.T) {
	srv, attempts := flakyServer(t, 0)
	defer srv.Close()

	var sleeps []time.Duration
	f := testFetcher(0.5, &sleeps)

	body, err := f.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if string(body) != "<feed/>" {
		t.Errorf("unexpected body: %q", body)
	}
	if got := atomic.LoadInt32(attempts); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
	if len(sleeps) != 0 {
		t.Errorf("expected no sleeps, got %v", sleeps)
	}
}

func TestGet_SucceedsAfterTransientFailures(t *testing.T) {
	srv, attempts := flakyServer(t, 2)
	defer srv.Close()

	var sleeps []time.Duration
	// jitter 0.5 grows the delay 4x per retry: 1ms, 4ms, 16ms, ...
	f := testFetcher(0.5, &sleeps)

	body, err := f.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected success on third attempt, got error: %v", err)
	}
	if string(body) != "<feed/>" {
		t.Errorf("unexpected body: %q", body)
	}
	if got := atomic.LoadInt32(attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %v", sleeps)
	}
	if sleeps[0] != time.Millisecond {
		t.Errorf("first sleep should be the initial backoff, got %v", sleeps[0])
	}
	if sleeps[1] != 4*time.Millisecond {
		t.Errorf("second sleep should be 4x the initial backoff, got %v", sleeps[1])
	}
}

func TestGet_AlwaysFailingTransportStopsAtCeiling(t *testing.T) {
	srv, attempts := flakyServer(t, 1000)
	defer srv.Close()

	var sleeps []time.Duration
	// Delays grow 1ms -> 4ms -> 16ms -> 64ms; the 64ms value hits the
	// ceiling, so the fetcher gives up after the third attempt.
	f := testFetcher(0.5, &sleeps)

	_, err := f.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected terminal error, got nil")
	}
	if !IsRetryExhausted(err) {
		t.Fatalf("expected retry exhaustion, got: %v", err)
	}

	var retryErr *RetryError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected *RetryError, got %T", err)
	}
	if retryErr.Attempts != 3 {
		t.Errorf("expected 3 attempts in error, got %d", retryErr.Attempts)
	}
	if retryErr.Unwrap() == nil {
		t.Error("expected the last transport error to be wrapped")
	}
	if got := atomic.LoadInt32(attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if len(sleeps) != 3 {
		t.Errorf("expected 3 sleeps, got %v", sleeps)
	}
}

func TestGet_HTTPErrorStatusNotRetried(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	f := testFetcher(0.5, &sleeps)

	_, err := f.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", statusErr.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("status errors must not retry, got %d attempts", got)
	}
	if len(sleeps) != 0 {
		t.Errorf("status errors must not sleep, got %v", sleeps)
	}
}

func TestGet_InvalidURLFailsImmediately(t *testing.T) {
	var sleeps []time.Duration
	f := testFetcher(0.5, &sleeps)

	_, err := f.Get(context.Background(), "://missing-scheme")
	if err == nil {
		t.Fatal("expected error for malformed URL, got nil")
	}
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
	if len(sleeps) != 0 {
		t.Errorf("input errors must not retry, got %v", sleeps)
	}
}

func TestDownload_WritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	f := testFetcher(0.5, &sleeps)

	path := filepath.Join(t.TempDir(), "episode.mp3")
	n, err := f.Download(context.Background(), srv.URL, path)
	if err != nil {
		t.Fatalf("expected successful download, got: %v", err)
	}
	if n != int64(len("audio-bytes")) {
		t.Errorf("expected %d bytes written, got %d", len("audio-bytes"), n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestDownload_ReplacesExistingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	var sleeps []time.Duration
	f := testFetcher(0.5, &sleeps)

	path := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(path, []byte("stale partial content"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Download(context.Background(), srv.URL, path); err != nil {
		t.Fatalf("expected successful download, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh" {
		t.Errorf("stale content must be replaced, not appended to; got %q", data)
	}
}

func TestDownload_RemovesStaleFileEvenWhenFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var sleeps []time.Duration
	f := testFetcher(0.5, &sleeps)

	path := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(path, []byte("stale partial content"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Download(context.Background(), srv.URL, path); err == nil {
		t.Fatal("expected error for 404 response, got nil")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale file should be removed before the attempt")
	}
}
