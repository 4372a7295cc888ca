package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	MinWorkers = 1
	MaxWorkers = 30

	// DefaultTimeout bounds each fetch when Config.Timeout is not positive.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrValidation is matched by every request validation failure.
	ErrValidation             = errors.New("invalid fetch request")
	ErrWorkerCountOutOfBounds = fmt.Errorf("%w: worker count out of bounds", ErrValidation)
	ErrNoSources              = fmt.Errorf("%w: no sources", ErrValidation)

	// ErrFetch is matched by every *FetchError.
	ErrFetch = errors.New("fetch failed")
)

type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Fetcher downloads every source and returns their lines merged. The order of
// lines between sources is unspecified.
type Fetcher interface {
	Fetch(ctx context.Context, sources []string, workers int) ([]string, error)
}

type Config struct {
	Timeout time.Duration
}

type httpFetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHTTPFetcher uses client for every request, or a pooled client when nil.
func NewHTTPFetcher(cfg Config, client *http.Client, logger zerolog.Logger) Fetcher {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: MaxWorkers,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &httpFetcher{
		client:  client,
		timeout: timeout,
		logger:  logger.With().Str("component", "fetcher").Logger(),
	}
}

// Validate checks a request before any network activity.
func Validate(sources []string, workers int) error {
	if workers < MinWorkers || workers > MaxWorkers {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrWorkerCountOutOfBounds, workers, MinWorkers, MaxWorkers)
	}
	if len(sources) == 0 {
		return ErrNoSources
	}
	return nil
}

func (f *httpFetcher) Fetch(ctx context.Context, sources []string, workers int) ([]string, error) {
	if err := Validate(sources, workers); err != nil {
		return nil, err
	}

	startTime := time.Now()
	results := make([][]string, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, source := range sources {
		g.Go(func() error {
			lines, err := f.fetchOne(gctx, source)
			if err != nil {
				return &FetchError{Source: source, Err: err}
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		f.logger.Error().Err(err).Int("sources", len(sources)).Int("workers", workers).Msg("Log fetch failed")
		return nil, err
	}

	total := 0
	for _, lines := range results {
		total += len(lines)
	}
	merged := make([]string, 0, total)
	for _, lines := range results {
		merged = append(merged, lines...)
	}

	f.logger.Info().
		Int("sources", len(sources)).
		Int("workers", workers).
		Int("lines", len(merged)).
		Dur("duration", time.Since(startTime)).
		Msg("Fetched log sources")
	return merged, nil
}

func (f *httpFetcher) fetchOne(ctx context.Context, source string) ([]string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid locator: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	f.logger.Debug().Str("source", source).Int("bytes", len(body)).Msg("Fetched log source")
	return splitLines(string(body)), nil
}

func splitLines(body string) []string {
	raw := strings.Split(body, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
