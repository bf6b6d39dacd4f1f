package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// bodyTags are the only elements kept in the reduced fragment handed to
// the markdown converter.
const bodyTags = "p, h1, h2, h3, h4, h5, li, strong, em"

// Fetcher retrieves article pages and reduces them to body-content HTML.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	policy     *bluemonday.Policy
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "h1", "h2", "h3", "h4", "h5", "li", "strong", "em")

	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		policy:     policy,
	}
}

// Fetch downloads the raw HTML of a page. The http.Client timeout bounds the
// whole call; any transport failure or non-2xx status becomes a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	return data, nil
}

// Extract reduces raw HTML to a fragment containing only body-content tags.
// Elements whose class or id mention "content" are preferred; when none match
// the whole document body is used. Script and style content never survives.
// An empty string means no body-like content was found; the caller decides.
func (f *Fetcher) Extract(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	containers := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		return strings.Contains(strings.ToLower(class), "content") ||
			strings.Contains(strings.ToLower(id), "content")
	})

	if containers.Length() == 0 {
		containers = doc.Find("body")
	}

	var sb strings.Builder
	containers.Find(bodyTags).Each(func(_ int, s *goquery.Selection) {
		html, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		sb.WriteString(html)
	})

	fragment := f.policy.Sanitize(sb.String())
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	slog.Debug("Content extracted", "fragment_length", len(fragment))

	return fragment, nil
}

// ExtractReadable is the second-chance pass used when the class/id heuristic
// finds nothing: readability isolates the main content block, which is then
// reduced through the same tag policy.
func (f *Fetcher) ExtractReadable(data []byte) (string, error) {
	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract readable content: %w", err)
	}

	fragment := f.policy.Sanitize(article.Content)
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	return fragment, nil
}
