// Package fetch
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"feedguard/packages/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"
)

// Client fetches and parses pages. Transient upstream errors (502/503/504
// and transport failures) are retried with exponential backoff, bounded by
// the configured attempt count and the request context.
type Client struct {
	client    *http.Client
	userAgent string
	attempts  int
	backoff   time.Duration
}

func New(timeout time.Duration, userAgent string, attempts int, backoff time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		attempts:  attempts,
		backoff:   backoff,
	}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// FetchPage GETs rawURL and parses the response into a PageContent. All
// failures come back as an error; callers degrade the page rather than
// aborting the audit.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (*domain.PageContent, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		content, retryable, err := c.fetchOnce(ctx, rawURL)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		slog.Debug("Retrying fetch after transient error", "url", rawURL, "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) (content *domain.PageContent, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		// Transport errors (refused, reset, timeout) are worth one more try.
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retryableStatus(resp.StatusCode), fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	parsed, err := Parse(resp.Request.URL.String(), string(body))
	if err != nil {
		return nil, false, err
	}
	return parsed, false, nil
}

// Parse turns raw markup into a PageContent: goquery document, visible text
// with script/style/noscript stripped and whitespace collapsed, and a
// best-effort language detection over the leading text.
func Parse(finalURL, html string) (*domain.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	content := &domain.PageContent{FinalURL: finalURL, HTML: html, Doc: doc}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	description, _ := doc.Find("meta[name='description']").Attr("content")

	textDoc := doc.Clone()
	textDoc.Find("script, style, noscript").Remove()
	re := strings.NewReplacer("\n", " ", "\t", " ", "\r", " ")
	content.Text = strings.Join(strings.Fields(re.Replace(textDoc.Text())), " ")

	var snippet string
	words := strings.Fields(content.Text)
	if len(words) > 100 {
		snippet = strings.Join(words[:100], " ")
	} else {
		snippet = content.Text
	}
	sample := strings.TrimSpace(title + " " + strings.TrimSpace(description) + " " + snippet)
	if sample != "" {
		info := whatlanggo.Detect(sample)
		content.Lang = info.Lang.Iso6393()
	}

	return content, nil
}
