package fetchers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"homedash/internal/charts"
	"homedash/internal/logger"
)

// StdinSource reads the input from the fetcher's stdin.
const StdinSource = "-"

// DataFetcher loads chart input from files, stdin or HTTP endpoints
type DataFetcher struct {
	client *resty.Client
	stdin  io.Reader
	log    *logger.Logger
}

// Option configures a DataFetcher.
type Option func(*DataFetcher)

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(f *DataFetcher) { f.stdin = r }
}

// WithRetry sets how often failed requests are retried and the wait between
// attempts.
func WithRetry(count int, wait time.Duration) Option {
	return func(f *DataFetcher) {
		f.client.SetRetryCount(count)
		f.client.SetRetryWaitTime(wait)
	}
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher(opts ...Option) *DataFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetHeader("Accept", "application/json")
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

	f := &DataFetcher{
		client: client,
		stdin:  os.Stdin,
		log:    logger.Component("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsRemote reports whether source is an HTTP(S) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads one source: "-" or "" for stdin, an HTTP(S) URL, or a file path.
func (f *DataFetcher) Load(ctx context.Context, source string) (charts.Input, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case isStdin(source):
		data, err = io.ReadAll(f.stdin)
	case IsRemote(source):
		data, err = f.fetch(ctx, source)
	default:
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return charts.Input{}, fmt.Errorf("failed to read input %s: %w", source, err)
	}

	input, err := DecodeInput(data)
	if err != nil {
		return charts.Input{}, fmt.Errorf("input %s: %w", source, err)
	}
	f.log.Debug("input loaded", logger.Fields{
		"source":  source,
		"records": len(input.Records),
		"scores":  len(input.Scores),
	})
	return input, nil
}

func (f *DataFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}

func isStdin(source string) bool {
	return source == "" || source == StdinSource
}

// LoadAll loads every source concurrently. Results keep the order of
// sources; the first failure is returned. Stdin is read once, before the
// other sources start, and every stdin source gets the same input.
func (f *DataFetcher) LoadAll(ctx context.Context, sources []string) ([]charts.Input, error) {
	type result struct {
		index int
		input charts.Input
		err   error
	}

	inputs := make([]charts.Input, len(sources))

	var stdin *charts.Input
	for _, source := range sources {
		if isStdin(source) {
			input, err := f.Load(ctx, source)
			if err != nil {
				return nil, err
			}
			stdin = &input
			break
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan result, len(sources))
	pending := 0
	for i, source := range sources {
		if isStdin(source) {
			inputs[i] = *stdin
			continue
		}
		pending++
		go func(i int, source string) {
			input, err := f.Load(ctx, source)
			results <- result{index: i, input: input, err: err}
		}(i, source)
	}

	for ; pending > 0; pending-- {
		select {
		case r := <-results:
			if r.err != nil {
				f.log.Warn("input fetch failed", logger.Fields{"source": sources[r.index], "error": r.err.Error()})
				return nil, r.err
			}
			inputs[r.index] = r.input
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return inputs, nil
}
