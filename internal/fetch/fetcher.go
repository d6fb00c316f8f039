package fetch

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/clonescan/clonescan/internal/model"
)

// Fetcher performs HTTP GETs against candidate URLs and returns
// normalized page text.
//
// Design decision: We hold a single http.Client rather than building one
// per request because client configuration (timeouts, redirect policy)
// must be consistent across the scan and connection pooling amortizes
// TLS handshakes when a candidate redirects within its own host.
type Fetcher struct {
	// client is the shared HTTP client.
	client *http.Client

	// userAgent identifies the scanner in request headers so that site
	// operators can recognize the traffic in their logs.
	userAgent string

	// maxBodySize caps the number of body bytes read per response.
	maxBodySize int64

	// logger receives debug-level fetch outcomes.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithClient replaces the HTTP client entirely. Intended for tests that
// need a custom transport.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets the logger for fetch outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher with independently bounded connect and read
// timeouts. The connect timeout applies to TCP establishment and TLS
// handshake; the read timeout bounds the whole request including body.
func New(connectTimeout, readTimeout time.Duration, opts ...Option) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		TLSHandshakeTimeout: connectTimeout,
	}

	f := &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   readTimeout,
		},
		userAgent:   "clonescan/1.0 (+https://github.com/clonescan/clonescan)",
		maxBodySize: 5 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch issues a GET against the URL and returns the normalized page,
// or nil when no usable page could be obtained. Redirects are followed.
// A page is usable when the final status is 2xx and the content type is
// text/html or another text/* type.
func (f *Fetcher) Fetch(ctx context.Context, url string) *model.FetchedPage {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Debug("invalid fetch URL", "url", url, "error", err)
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", "url", url, "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Debug("non-success status", "url", url, "status", resp.StatusCode)
		return nil
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !isTextContent(contentType) {
		f.logger.Debug("non-text content type", "url", url, "contentType", contentType)
		return nil
	}

	// Decode the body in its declared charset so that byte-level
	// similarity is not skewed by encoding differences between sites.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if err != nil {
		reader = io.LimitReader(resp.Body, f.maxBodySize)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		f.logger.Debug("body read failed", "url", url, "error", err)
		return nil
	}

	page := &model.FetchedPage{
		URL:         url,
		Text:        collapseWhitespace(string(body)),
		ContentType: contentType,
	}
	if strings.Contains(contentType, "text/html") {
		page.Title = extractTitle(body)
	}
	return page
}

// FetchDomain attempts https:// first and falls back to http://.
// Each attempt carries its own full timeout budget: a slow HTTPS attempt
// does not shorten the HTTP fallback.
func (f *Fetcher) FetchDomain(ctx context.Context, domain string) *model.FetchedPage {
	if page := f.Fetch(ctx, "https://"+domain); page != nil {
		return page
	}
	return f.Fetch(ctx, "http://"+domain)
}

// isTextContent reports whether the content type indicates HTML or text.
func isTextContent(contentType string) bool {
	return strings.Contains(contentType, "text/html") || strings.HasPrefix(contentType, "text/")
}

// collapseWhitespace reduces every whitespace run to a single space and
// trims the ends. The similarity metric compares these normalized texts
// so that formatting noise does not affect scores.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractTitle returns the text of the first <title> element, or "".
// Parsing failures on malformed pages simply yield an empty title;
// the title is reporting metadata, never a scan input.
func extractTitle(body []byte) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}
