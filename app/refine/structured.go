package refine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gemfeed/gempress/app/llm"
)

const extractorSystemPrompt = "You are an assistant that extracts structured article records."

const extractorPromptTemplate = `You are a professional text processing assistant. Take the fully cleaned article text and generate a single JSON object for database insertion.

Requirements:
1. Generate the following fields in JSON exactly and in this order:
   - name: a title or slug of the article
   - description: a short summary of 2-3 sentences
   - tags: a list of representative keywords
   - link: the source URL
   - text_clean: the main cleaned content with a coherent title at the top
2. Do not add any other fields or explanations.

Output ONLY the JSON object.

Cleaned text: %q
Source link: %q`

var (
	markdownLinks = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	listMarkers   = regexp.MustCompile(`(?m)^\s*-\s+`)
	bareURLs      = regexp.MustCompile(`https?://\S+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Extractor turns cleaned text into a validated CleanedArticle via one model pass.
type Extractor struct {
	invoker *llm.Invoker
}

func NewExtractor(invoker *llm.Invoker) *Extractor {
	return &Extractor{invoker: invoker}
}

// Run builds the extraction prompt, decodes the response (code fences,
// single-quote repair), validates the required fields, and sanitizes the body
// text. A record that stays invalid after repair is an ExtractionError, never
// a silently defaulted article.
func (e *Extractor) Run(ctx context.Context, cleanedText, link string) (*CleanedArticle, error) {
	prompt := fmt.Sprintf(extractorPromptTemplate, cleanedText, link)

	raw, err := e.invoker.Invoke(ctx, extractorSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var article CleanedArticle
	if err := llm.DecodeLoose(raw, &article); err != nil {
		return nil, &ExtractionError{Reason: err.Error()}
	}

	if err := validate(&article); err != nil {
		return nil, err
	}

	article.TextClean = SanitizeText(article.TextClean)
	if article.TextClean == "" {
		return nil, &ExtractionError{Reason: "text_clean is empty after sanitation"}
	}

	return &article, nil
}

func validate(article *CleanedArticle) error {
	var missing []string
	if strings.TrimSpace(article.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(article.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(article.Link) == "" {
		missing = append(missing, "link")
	}
	if strings.TrimSpace(article.TextClean) == "" {
		missing = append(missing, "text_clean")
	}

	if len(missing) > 0 {
		return &ExtractionError{Reason: "missing required fields: " + strings.Join(missing, ", ")}
	}

	return nil
}

// SanitizeText strips leftover markup from extracted body text: markdown
// links become bare link text, leading list markers and bare URLs disappear,
// and runs of blank lines collapse to one.
func SanitizeText(text string) string {
	text = markdownLinks.ReplaceAllString(text, "$1")
	text = listMarkers.ReplaceAllString(text, "")
	text = bareURLs.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
