package llm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/feels/internal/util"
)

// DefaultLabels is the vocabulary used when a mapping cannot be fetched
func DefaultLabels() map[int]string {
	return map[int]string{0: "Negative", 1: "Neutral", 2: "Positive"}
}

// LabelFetcher downloads label vocabularies for index-based models
type LabelFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewLabelFetcher creates a fetcher with the given timeout and proxy settings
func NewLabelFetcher(timeout time.Duration, httpProxy, httpsProxy, noProxy string) *LabelFetcher {
	return &LabelFetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(httpProxy, httpsProxy, noProxy),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: "feels/labels",
		maxBytes:  64 << 10,
	}
}

// Fetch retrieves and parses the mapping at rawURL
func (f *LabelFetcher) Fetch(ctx context.Context, rawURL string) (map[int]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	labels, err := ParseLabels(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// Load fetches the mapping at rawURL. An empty URL or any failure yields
// DefaultLabels, with the failure returned alongside.
func (f *LabelFetcher) Load(ctx context.Context, rawURL string) (map[int]string, error) {
	if rawURL == "" {
		return DefaultLabels(), nil
	}
	labels, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return DefaultLabels(), err
	}
	return labels, nil
}

// ParseLabels reads one label per line. Line i names label i unless the line
// carries its own leading index ("2\tpositive").
func ParseLabels(r io.Reader) (map[int]string, error) {
	labels := make(map[int]string)
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		idx, name := i, line
		if fields := strings.Fields(line); len(fields) >= 2 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				idx, name = n, strings.Join(fields[1:], " ")
			}
		}
		labels[idx] = name
		i++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("empty label mapping")
	}
	return labels, nil
}
