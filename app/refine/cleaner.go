package refine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gemfeed/gempress/app/llm"
)

const cleanerSystemPrompt = "You are an assistant that cleans markdown."

const cleanerPromptTemplate = `You are a professional Markdown cleaning assistant. Transform the provided markdown segment into concise, readable plain text, keeping only the meaningful content. Do not add, remove, or invent content outside of the original text.

Requirements:
1. Remove all Markdown links, keeping only the link text.
2. Remove any HTML tags or embedded scripts.
3. Remove URLs, email addresses, or references to external websites.
4. Flatten lists into simple text without bullets or dashes.
5. Normalize whitespace: collapse multiple blank lines into a maximum of two.
6. Preserve headings as simple text but without Markdown symbols.
7. Keep the text in the same language as the original content.

Output only the cleaned text of this segment with no additional data, text or comment.

Source link: %q

Markdown segment: %q`

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Cleaner removes noise from converted Markdown, segment by segment.
type Cleaner struct {
	invoker     *llm.Invoker
	segmentSize int
}

func NewCleaner(invoker *llm.Invoker, segmentSize int) *Cleaner {
	if segmentSize <= 0 {
		segmentSize = 1000
	}
	return &Cleaner{invoker: invoker, segmentSize: segmentSize}
}

// Run cleans the full markdown text of one article. Each fixed-size segment
// goes through the model independently; a segment whose retries are exhausted
// is logged and skipped, so the final text omits it rather than aborting the
// whole document. Errors only when there is nothing to clean.
func (c *Cleaner) Run(ctx context.Context, markdown, link string) (string, error) {
	segments := splitSegments(markdown, c.segmentSize)
	if len(segments) == 0 {
		return "", fmt.Errorf("no segments to clean")
	}

	var cleaned []string
	for i, segment := range segments {
		prompt := fmt.Sprintf(cleanerPromptTemplate, link, segment)

		result, err := c.invoker.Invoke(ctx, cleanerSystemPrompt, prompt)
		if err != nil {
			slog.Warn("Segment cleaning failed, skipping segment",
				"segment", i+1, "total", len(segments), "link", link, "error", err)
			continue
		}

		if strings.TrimSpace(result) == "" {
			continue
		}
		cleaned = append(cleaned, strings.TrimSpace(result))
	}

	text := strings.Join(cleaned, "\n\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}

// splitSegments slices text into fixed-size rune segments.
func splitSegments(text string, size int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	var segments []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, string(runes[start:end]))
	}

	return segments
}
