package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ZordnajelA/aura/internal/common"
)

// Clip is the extracted content of a clipped web page
type Clip struct {
	Title    string
	Markdown string
}

// WebClipper fetches a page and converts its main content to markdown.
// Fetches to the same host are rate limited so burst clipping stays
// polite.
type WebClipper struct {
	client      *http.Client
	converter   *md.Converter
	logger      arbor.ILogger
	maxBodySize int64
	userAgent   string
	perSecond   int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewWebClipper(config *common.CaptureConfig, timeout time.Duration, logger arbor.ILogger) *WebClipper {
	perSecond := config.RequestsPerSecond
	if perSecond < 1 {
		perSecond = 1
	}

	return &WebClipper{
		client:      &http.Client{Timeout: timeout},
		converter:   md.NewConverter("", true, nil),
		logger:      logger,
		maxBodySize: config.MaxBodySize,
		userAgent:   config.UserAgent,
		perSecond:   perSecond,
		limiters:    make(map[string]*rate.Limiter),
	}
}

// Fetch downloads and extracts the page at rawURL
func (c *WebClipper) Fetch(ctx context.Context, rawURL string) (*Clip, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid clip URL: %s", rawURL)
	}

	if err := c.limiterFor(parsed.Host).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	clip, err := c.extract(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("url", rawURL).
		Str("title", clip.Title).
		Int("markdown_length", len(clip.Markdown)).
		Msg("Web page clipped")

	return clip, nil
}

// limiterFor returns the politeness limiter for a host, creating it on
// first use
func (c *WebClipper) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(c.perSecond), c.perSecond)
		c.limiters[host] = limiter
	}
	return limiter
}

// extract pulls the title and main content out of the page HTML
func (c *WebClipper) extract(html string) (*Clip, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := extractTitle(doc)

	// Strip chrome before conversion
	doc.Find("script, style, nav, footer, aside, header, iframe, noscript").Remove()

	content := doc.Find("main, article, .content, #content").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	contentHTML, err := content.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize content: %w", err)
	}

	markdown, err := c.converter.ConvertString(contentHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to markdown: %w", err)
	}

	return &Clip{
		Title:    title,
		Markdown: strings.TrimSpace(markdown),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if ogTitle, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && strings.TrimSpace(ogTitle) != "" {
		return strings.TrimSpace(ogTitle)
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return "Untitled"
}
