package refine

import "fmt"

// CleanedArticle is the structured output of the extraction stage. It is
// transient: validated here, then consumed to build a stored article.
type CleanedArticle struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	TextClean   string   `json:"text_clean"`
	Link        string   `json:"link"`
}

// ExtractionError reports structured output that stayed malformed or
// incomplete after the repair pass.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("structured extraction failed: %s", e.Reason)
}
