// Package crawler collects the signals the analyzer scores: the raw page
// markup, a best-effort last-updated date, and the health of outbound links.
// The scoring pipeline consumes only the result shape; nothing here judges
// staleness.
package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"govstale/models"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultMaxLinks = 10

	defaultUserAgent = "govstale/1.0 (staleness audit)"

	// languageSampleRunes bounds the text handed to the language detector.
	languageSampleRunes = 2000
)

// Crawler fetches pages and derives crawl signals from them.
type Crawler struct {
	client    *http.Client
	logger    *slog.Logger
	detector  lingua.LanguageDetector
	maxLinks  int
	userAgent string
}

// New returns a Crawler with the given probe budget. The language detector
// is built once here; it is expensive to construct.
func New(logger *slog.Logger, timeout time.Duration, maxLinks int) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Chinese, lingua.English).
		Build()

	return &Crawler{
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		detector:  detector,
		maxLinks:  maxLinks,
		userAgent: defaultUserAgent,
	}
}

// Crawl fetches one page and derives its signal. A failed page fetch yields
// an empty-HTML signal rather than an error; the analyzer short-circuits on
// it and flags the page.
func (c *Crawler) Crawl(ctx context.Context, pageURL string) (models.CrawlSignal, models.PageInfo) {
	html, info, err := c.FetchPage(ctx, pageURL)
	if err != nil {
		c.logger.Warn("page fetch failed", "url", pageURL, "error", err)
		return models.CrawlSignal{URL: pageURL}, info
	}
	return c.Collect(ctx, pageURL, html, info)
}

// FetchPage retrieves the raw markup for a page. Non-200 responses are
// errors; the status code is still recorded in the returned info.
func (c *Crawler) FetchPage(ctx context.Context, pageURL string) ([]byte, models.PageInfo, error) {
	info := models.PageInfo{}
	if u, err := url.Parse(pageURL); err == nil {
		info.DomainType = detectDomainType(u.Host)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, info, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, info, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	info.StatusCode = resp.StatusCode
	info.FinalURL = resp.Request.URL.String()

	if resp.StatusCode != http.StatusOK {
		return nil, info, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, info, fmt.Errorf("failed to read response body: %w", err)
	}
	info.HTMLBytes = len(body)
	return body, info, nil
}

// Collect derives the crawl signal from already-fetched markup: outbound
// link health, the last-updated date, and reporting metadata. Used for both
// fresh fetches and cached artifacts.
func (c *Crawler) Collect(ctx context.Context, pageURL string, html []byte, info models.PageInfo) (models.CrawlSignal, models.PageInfo) {
	signal := models.CrawlSignal{URL: pageURL, HTML: string(html)}
	info.HTMLBytes = len(html)

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		c.logger.Warn("unparseable page URL, scoring raw markup only", "url", pageURL, "error", err)
		return signal, info
	}
	if info.DomainType == "" {
		info.DomainType = detectDomainType(parsedURL.Host)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		c.logger.Warn("failed to parse HTML, scoring raw markup only", "url", pageURL, "error", err)
		return signal, info
	}

	// Readability is best-effort enrichment; a parse failure leaves the
	// zero Article and the goquery fallbacks take over.
	var article readability.Article
	parser := readability.NewParser()
	if art, rerr := parser.Parse(bytes.NewReader(html), parsedURL); rerr == nil {
		article = art
	}

	signal.LastUpdated = extractLastUpdated(doc, article)

	links, total := extractLinks(doc, parsedURL, c.maxLinks)
	signal.LinkStatus = c.probeLinks(ctx, links)
	info.LinksFound = total
	info.LinksProbed = len(links)

	info.Title = article.Title
	if info.Title == "" {
		info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	text := article.TextContent
	if text == "" {
		text = doc.Find("body").Text()
	}
	info.Language = c.detectLanguage(text)

	return signal, info
}

// detectLanguage classifies the readable page text. Returns the lowercase
// ISO 639-1 code, or empty when detection is inconclusive.
func (c *Crawler) detectLanguage(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}
	if runes := []rune(sample); len(runes) > languageSampleRunes {
		sample = string(runes[:languageSampleRunes])
	}

	if language, ok := c.detector.DetectLanguageOf(sample); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}

// detectDomainType classifies the host. Two-level suffixes like .gov.tw are
// the common case for the sites this tool audits.
func detectDomainType(host string) string {
	host = strings.ToLower(host)
	switch {
	case strings.HasSuffix(host, ".gov") || strings.Contains(host, ".gov."):
		return "gov"
	case strings.HasSuffix(host, ".edu") || strings.Contains(host, ".edu."):
		return "edu"
	case strings.HasSuffix(host, ".org") || strings.Contains(host, ".org."):
		return "org"
	default:
		return "general"
	}
}
