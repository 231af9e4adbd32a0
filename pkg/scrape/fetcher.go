package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	serrors "github.com/hyunsoo-k/speculo/pkg/errors"
	"github.com/hyunsoo-k/speculo/pkg/logging"
)

// DefaultUserAgent is sent on every fetch. Scraped portals reject
// requests with an obviously non-browser identity.
const DefaultUserAgent = "Mozilla/5.0"

const defaultFetchTimeout = 15 * time.Second

// Fetcher acquires static documents over plain HTTP GET. Safe for
// concurrent use; fetches share only the underlying client.
type Fetcher struct {
	client    *http.Client
	log       *logging.Logger
	userAgent string
}

// NewFetcher creates a Fetcher with the default client timeout.
func NewFetcher(log *logging.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		log:       log,
		userAgent: DefaultUserAgent,
	}
}

// Document GETs rawURL and parses the body into a goquery document.
func (f *Fetcher) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	source := sourceLabel(rawURL)
	start := time.Now()

	doc, err := f.document(ctx, rawURL)

	fetchTotal.WithLabelValues(source, outcomeLabel(err)).Inc()
	fetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		f.log.Error(logging.CategoryScrape, "fetch_failed", err.Error(), map[string]any{"source": source})
		return nil, err
	}
	return doc, nil
}

func (f *Fetcher) document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeScrapeFetch, "building request").WithContext("url", rawURL)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeScrapeFetch, "request failed").WithContext("url", rawURL).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, serrors.New(serrors.ErrCodeScrapeFetch, fmt.Sprintf("received status code %d", resp.StatusCode)).
			WithContext("url", rawURL).
			WithRetryable(resp.StatusCode >= 500)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.ErrCodeScrapeParse, "failed to parse HTML").WithContext("url", rawURL)
	}
	return doc, nil
}

// JSON GETs rawURL and decodes the response body into out.
func (f *Fetcher) JSON(ctx context.Context, rawURL string, out any) error {
	source := sourceLabel(rawURL)
	start := time.Now()

	err := f.json(ctx, rawURL, out)

	fetchTotal.WithLabelValues(source, outcomeLabel(err)).Inc()
	fetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		f.log.Error(logging.CategoryScrape, "fetch_failed", err.Error(), map[string]any{"source": source})
	}
	return err
}

func (f *Fetcher) json(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return serrors.Wrap(err, serrors.ErrCodeScrapeFetch, "building request").WithContext("url", rawURL)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return serrors.Wrap(err, serrors.ErrCodeScrapeFetch, "request failed").WithContext("url", rawURL).WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return serrors.New(serrors.ErrCodeScrapeFetch, fmt.Sprintf("received status code %d", resp.StatusCode)).
			WithContext("url", rawURL).
			WithRetryable(resp.StatusCode >= 500)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return serrors.Wrap(err, serrors.ErrCodeScrapeParse, "failed to decode JSON").WithContext("url", rawURL)
	}
	return nil
}

// Text returns the trimmed text of the first element matching selector,
// or "" when the selector misses. An absent element is not an error.
func Text(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// Texts returns the trimmed, non-empty texts of every element matching
// selector.
func Texts(doc *goquery.Document, selector string) []string {
	var out []string
	if selector == "" {
		return out
	}
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func sourceLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "invalid"
	}
	return parsed.Host
}
