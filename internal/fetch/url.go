package fetch

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// nonContentTags are HTML tags that never contain useful content.
var nonContentTags = []string{"script", "style", "noscript", "svg", "iframe", "nav", "header", "footer", "aside"}

// Fetcher pulls readable text out of URLs mentioned in chat messages so
// the generator can react to linked content.
type Fetcher struct {
	client         *http.Client
	maxURLs        int
	maxCharsPerURL int
	logger         *zap.Logger
}

func NewFetcher(maxURLs, maxCharsPerURL int, timeout time.Duration, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:         &http.Client{Timeout: timeout},
		maxURLs:        maxURLs,
		maxCharsPerURL: maxCharsPerURL,
		logger:         logger,
	}
}

// ExtractURLs returns up to maxURLs http(s) links found in text.
func (f *Fetcher) ExtractURLs(text string) []string {
	urls := urlPattern.FindAllString(text, -1)
	if len(urls) > f.maxURLs {
		urls = urls[:f.maxURLs]
	}
	return urls
}

// FetchAll fetches every URL in text and returns a combined summary
// block, or "" when there is nothing usable. Failures are logged and
// skipped; linked content is enrichment, never a hard dependency.
func (f *Fetcher) FetchAll(ctx context.Context, text string) string {
	urls := f.ExtractURLs(text)
	if len(urls) == 0 {
		return ""
	}

	var parts []string
	for _, url := range urls {
		content, err := f.fetchOne(ctx, url)
		if err != nil {
			f.logger.Warn("Failed to fetch URL content",
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		if content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s]\n%s", url, content))
	}

	return strings.Join(parts, "\n\n")
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "zoo-bot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc.Find(strings.Join(nonContentTags, ",")).Remove()
	text := collapseWhitespace(doc.Find("body").Text())
	if len(text) > f.maxCharsPerURL {
		cut := f.maxCharsPerURL
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
