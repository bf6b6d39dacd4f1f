package database

import (
	"time"
)

// SocialPost is a ready-to-publish post generated from a translated article.
// Posts are immutable once generated; a regeneration replaces the whole slice.
type SocialPost struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	Text  string   `json:"text"`
}

// Article represents an ingested article record in the database
type Article struct {
	ID          string // Database UUID
	Name        string
	Description string
	Link        string // Source URL, unique
	CleanedText string // Canonical cleaned body, original language, unique
	Translation string // Cleaned body translated to the target language
	Tags        []string
	Processed   bool // True only after social posts were generated and saved
	Posts       []SocialPost
	DateAdded   time.Time
}
