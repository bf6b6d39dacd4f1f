package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"
)

// Resolver expands a source into a flat list of article links: direct links
// pass through, feed URLs are fetched and their entry links collected.
type Resolver struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
}

func NewResolver(httpClient *http.Client, userAgent string) *Resolver {
	return &Resolver{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

// Resolve returns every article link a source currently points at. A feed
// that fails to fetch or parse is logged and skipped; its entries are simply
// absent from this round.
func (r *Resolver) Resolve(ctx context.Context, source *Source) []string {
	seen := make(map[string]struct{})
	var links []string

	add := func(link string) {
		if link == "" {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}

	for _, link := range source.Links {
		add(link)
	}

	for _, feedURL := range source.Feeds {
		entries, err := r.fetchFeedLinks(ctx, feedURL)
		if err != nil {
			slog.Warn("Failed to resolve feed, skipping", "source", source.Name, "feed", feedURL, "error", err)
			continue
		}
		for _, link := range entries {
			add(link)
		}
	}

	return links
}

func (r *Resolver) fetchFeedLinks(ctx context.Context, feedURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	feed, err := r.parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var links []string
	for _, item := range feed.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}

	return links, nil
}
