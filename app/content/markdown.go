package content

import (
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const defaultChunkSize = 1000

// Converter turns HTML fragments into Markdown. Input is split into bounded
// chunks before conversion so a single oversized fragment cannot push the
// converter past its reliable input size; each chunk converts independently.
type Converter struct {
	chunkSize int
}

func NewConverter() *Converter {
	return &Converter{chunkSize: defaultChunkSize}
}

// Run converts an HTML fragment to Markdown. Chunk boundaries prefer sentence
// ends, then tag ends, over arbitrary cuts, to avoid splitting markup mid-tag.
// Converted chunks are joined with a blank line; the result is lossy but bounded.
func (c *Converter) Run(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", &ConversionError{Reason: "input HTML is empty"}
	}

	chunks := splitChunks(html, c.chunkSize)

	var parts []string
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		md, err := htmltomarkdown.ConvertString(chunk)
		if err != nil {
			slog.Warn("Chunk conversion failed, skipping", "chunk", i, "error", err)
			continue
		}
		if strings.TrimSpace(md) == "" {
			continue
		}
		parts = append(parts, strings.TrimSpace(md))
	}

	result := strings.Join(parts, "\n\n")
	if strings.TrimSpace(result) == "" {
		return "", &ConversionError{Reason: "conversion produced no output"}
	}

	return result, nil
}

// splitChunks cuts s into pieces of at most size bytes, preferring to break
// after a sentence end ('.') and falling back to a tag end ('>').
func splitChunks(s string, size int) []string {
	if size <= 0 {
		return []string{s}
	}

	var chunks []string
	start := 0
	for start < len(s) {
		if start+size >= len(s) {
			chunks = append(chunks, s[start:])
			break
		}

		end := strings.LastIndexByte(s[start:start+size], '.')
		if end == -1 {
			end = strings.LastIndexByte(s[start:start+size], '>')
		}
		if end == -1 {
			end = size - 1
		}
		end = start + end + 1

		chunks = append(chunks, s[start:end])
		start = end
	}

	return chunks
}
