package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo handles database operations for articles
type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, name, description, link, cleaned_text, translation, tags, processed, posts, date_added`

func (r *ArticleRepo) GetArticle(id string) (*Article, error) {
	row := r.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

func (r *ArticleRepo) GetArticleByLink(link string) (*Article, error) {
	row := r.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE link = ?`, link)
	return scanArticle(row)
}

func (r *ArticleRepo) GetArticleByCleanedText(text string) (*Article, error) {
	row := r.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE cleaned_text = ?`, text)
	return scanArticle(row)
}

func (r *ArticleRepo) GetAllArticles() ([]Article, error) {
	rows, err := r.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY date_added DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	return scanArticles(rows)
}

func (r *ArticleRepo) GetUnprocessedArticles() ([]Article, error) {
	rows, err := r.db.Query(`SELECT ` + articleColumns + ` FROM articles WHERE processed = 0 ORDER BY date_added ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed articles: %w", err)
	}
	return scanArticles(rows)
}

func (r *ArticleRepo) ListArticles(filter ArticleFilter) ([]Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	args := []interface{}{}

	if filter.Processed != nil {
		query += ` WHERE processed = ?`
		args = append(args, boolToInt(*filter.Processed))
	}

	query += ` ORDER BY date_added DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return scanArticles(rows)
}

// InsertArticle stores a new article and returns it with its assigned identifier.
func (r *ArticleRepo) InsertArticle(article Article) (*Article, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.DateAdded.IsZero() {
		article.DateAdded = time.Now().UTC()
	}

	tags, err := json.Marshal(emptyIfNil(article.Tags))
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	posts, err := json.Marshal(emptyPostsIfNil(article.Posts))
	if err != nil {
		return nil, fmt.Errorf("failed to encode posts: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO articles (id, name, description, link, cleaned_text, translation, tags, processed, posts, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.Name, article.Description, article.Link, article.CleanedText,
		article.Translation, string(tags), boolToInt(article.Processed), string(posts), article.DateAdded)
	if err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return &article, nil
}

// UpdateArticle saves a mutated article record (posts, processed, metadata, date_added).
func (r *ArticleRepo) UpdateArticle(article *Article) error {
	tags, err := json.Marshal(emptyIfNil(article.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	posts, err := json.Marshal(emptyPostsIfNil(article.Posts))
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}

	result, err := r.db.Exec(`
		UPDATE articles
		SET name = ?, description = ?, translation = ?, tags = ?, processed = ?, posts = ?, date_added = ?
		WHERE id = ?
	`, article.Name, article.Description, article.Translation, string(tags),
		boolToInt(article.Processed), string(posts), article.DateAdded, article.ID)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article %s not found", article.ID)
	}

	return nil
}

// UpdateArticleMetadata applies partial edits coming from the API. Nil fields are untouched.
func (r *ArticleRepo) UpdateArticleMetadata(id string, name, description *string, processed *bool) error {
	article, err := r.GetArticle(id)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("article %s not found", id)
	}

	if name != nil {
		article.Name = *name
	}
	if description != nil {
		article.Description = *description
	}
	if processed != nil {
		article.Processed = *processed
	}

	return r.UpdateArticle(article)
}

func (r *ArticleRepo) DeleteArticle(id string) error {
	result, err := r.db.Exec(`DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article %s not found", id)
	}

	return nil
}

func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

func (r *ArticleRepo) GetArticleStats() (total, processed, unprocessed int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN processed = 1 THEN 1 ELSE 0 END), 0) as processed,
			COALESCE(SUM(CASE WHEN processed = 0 THEN 1 ELSE 0 END), 0) as unprocessed
		FROM articles
	`).Scan(&total, &processed, &unprocessed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get article stats: %w", err)
	}
	return total, processed, unprocessed, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticleRow(s rowScanner) (*Article, error) {
	var article Article
	var tagsJSON, postsJSON string
	var processed int

	err := s.Scan(&article.ID, &article.Name, &article.Description, &article.Link,
		&article.CleanedText, &article.Translation, &tagsJSON, &processed,
		&postsJSON, &article.DateAdded)
	if err != nil {
		return nil, err
	}

	article.Processed = processed != 0

	if err := json.Unmarshal([]byte(tagsJSON), &article.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(postsJSON), &article.Posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	return &article, nil
}

func scanArticle(row *sql.Row) (*Article, error) {
	article, err := scanArticleRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}
	return article, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func emptyPostsIfNil(posts []SocialPost) []SocialPost {
	if posts == nil {
		return []SocialPost{}
	}
	return posts
}
