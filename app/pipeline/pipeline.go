package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gemfeed/gempress/app/cache"
	"github.com/gemfeed/gempress/app/content"
	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/refine"
	"github.com/gemfeed/gempress/app/translate"
)

// Pipeline holds typed references to already-constructed collaborators and
// runs the full ingestion sequence for one article: fetch, extract, convert,
// clean, structure, dedup, translate, persist. No readiness polling: a
// Pipeline handed out is fully built.
type Pipeline struct {
	fetcher    *content.Fetcher
	converter  *content.Converter
	cleaner    *refine.Cleaner
	extractor  *refine.Extractor
	translator translate.Translator
	repo       database.ArticleRepository
	htmlCache  *cache.Cache
}

func NewPipeline(fetcher *content.Fetcher, converter *content.Converter,
	cleaner *refine.Cleaner, extractor *refine.Extractor,
	translator translate.Translator, repo database.ArticleRepository,
	htmlCache *cache.Cache) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		converter:  converter,
		cleaner:    cleaner,
		extractor:  extractor,
		translator: translator,
		repo:       repo,
		htmlCache:  htmlCache,
	}
}

// Ingest runs the whole pipeline for one link. The returned bool is true when
// a new article was created, false when deduplication returned an existing
// record. Stages execute strictly in sequence; any stage failure aborts this
// article only.
func (p *Pipeline) Ingest(ctx context.Context, link string) (*database.Article, bool, error) {
	html, err := p.fetchHTML(ctx, link)
	if err != nil {
		return nil, false, err
	}

	fragment, err := p.fetcher.Extract(html)
	if err != nil {
		return nil, false, err
	}

	if fragment == "" {
		slog.Debug("Content heuristic found nothing, trying readability", "link", link)
		fragment, err = p.fetcher.ExtractReadable(html)
		if err != nil {
			return nil, false, err
		}
	}
	if fragment == "" {
		return nil, false, fmt.Errorf("no body content found at %s", link)
	}

	markdown, err := p.converter.Run(fragment)
	if err != nil {
		return nil, false, err
	}

	cleanedText, err := p.cleaner.Run(ctx, markdown, link)
	if err != nil {
		return nil, false, fmt.Errorf("cleaning failed for %s: %w", link, err)
	}
	if cleanedText == "" {
		return nil, false, fmt.Errorf("cleaning produced no text for %s", link)
	}

	cleaned, err := p.extractor.Run(ctx, cleanedText, link)
	if err != nil {
		return nil, false, err
	}

	return p.persist(ctx, cleaned)
}

func (p *Pipeline) fetchHTML(ctx context.Context, link string) ([]byte, error) {
	if cached, ok := p.htmlCache.Get(ctx, link); ok {
		slog.Debug("HTML cache hit", "link", link)
		return []byte(cached), nil
	}

	html, err := p.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	p.htmlCache.Set(ctx, link, string(html))

	return html, nil
}

// persist applies the deduplication guarantee: at most one article per
// distinct cleaned body text. The existing record is returned unchanged on a
// duplicate; otherwise the text is translated and a fresh article inserted
// with processed=false and no posts.
func (p *Pipeline) persist(ctx context.Context, cleaned *refine.CleanedArticle) (*database.Article, bool, error) {
	existing, err := p.repo.GetArticleByCleanedText(cleaned.TextClean)
	if err != nil {
		return nil, false, fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		slog.Info("Duplicate article detected, returning existing record",
			"article_id", existing.ID, "link", cleaned.Link)
		return existing, false, nil
	}

	translation, err := p.translator.Translate(ctx, cleaned.TextClean)
	if err != nil {
		return nil, false, fmt.Errorf("translation failed for %s: %w", cleaned.Link, err)
	}

	article, err := p.repo.InsertArticle(database.Article{
		Name:        cleaned.Name,
		Description: cleaned.Description,
		Link:        cleaned.Link,
		CleanedText: cleaned.TextClean,
		Translation: translation,
		Tags:        cleaned.Tags,
		Processed:   false,
		Posts:       []database.SocialPost{},
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to persist article for %s: %w", cleaned.Link, err)
	}

	slog.Info("Article created", "article_id", article.ID, "link", article.Link)

	return article, true, nil
}
