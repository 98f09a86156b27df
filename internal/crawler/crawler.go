package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"coolpc/internal/observability"
)

const (
	DefaultURL      = "https://www.coolpc.com.tw/evaluate.php"
	DefaultEncoding = "big5"
	DefaultTimeout  = 30 * time.Second
	defaultAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Cache stores decoded documents keyed by source URL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Client retrieves the quote page and converts it to UTF-8.
type Client struct {
	URL       string
	UserAgent string
	Encoding  string
	Timeout   time.Duration
	// Cache is optional. Cache errors are logged and never fail a fetch.
	Cache      Cache
	HTTPClient *http.Client
}

func (c *Client) url() string {
	if c.URL == "" {
		return DefaultURL
	}
	return c.URL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// FetchDocument returns the decoded document. Failures are *FetchError.
func (c *Client) FetchDocument(ctx context.Context) (string, error) {
	url := c.url()
	if c.Cache != nil {
		doc, ok, err := c.Cache.Get(ctx, url)
		if err != nil {
			log.Printf("[Crawler] cache lookup failed: %v", err)
		} else if ok {
			observability.DocumentsFetched.WithLabelValues("cache").Inc()
			return doc, nil
		}
	}

	doc, err := c.fetch(ctx, url)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			observability.FetchFailures.WithLabelValues(fe.Cause).Inc()
		}
		return "", err
	}
	observability.DocumentsFetched.WithLabelValues("network").Inc()

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, url, doc); err != nil {
			log.Printf("[Crawler] cache store failed: %v", err)
		}
	}
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{Cause: CauseRequest, Err: err}
	}
	agent := c.UserAgent
	if agent == "" {
		agent = defaultAgent
	}
	req.Header.Set("User-Agent", agent)

	log.Printf("[Crawler] downloading %s", url)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{
			Cause:      CauseHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err)
	}
	return c.decode(body)
}

// decode converts body from the configured encoding. Undecodable bytes
// become U+FFFD instead of failing the fetch.
func (c *Client) decode(body []byte) (string, error) {
	name := c.Encoding
	if name == "" {
		name = DefaultEncoding
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return "", &FetchError{Cause: CauseDecode, Err: fmt.Errorf("unknown encoding %q", name)}
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil {
		return "", &FetchError{Cause: CauseDecode, Err: err}
	}
	return string(out), nil
}

// Download fetches the document and writes it to path as UTF-8.
func (c *Client) Download(ctx context.Context, path string) error {
	doc, err := c.FetchDocument(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("[Crawler] saved %s (%d bytes)", path, len(doc))
	return nil
}
