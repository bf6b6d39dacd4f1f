package database

// ArticleFilter narrows ListArticles results. Nil fields match everything.
type ArticleFilter struct {
	Processed *bool
	Limit     int
	Offset    int
}

type ArticleRepository interface {
	GetArticle(id string) (*Article, error)
	GetArticleByLink(link string) (*Article, error)
	GetArticleByCleanedText(text string) (*Article, error)

	GetAllArticles() ([]Article, error)
	GetUnprocessedArticles() ([]Article, error)
	ListArticles(filter ArticleFilter) ([]Article, error)

	InsertArticle(article Article) (*Article, error)
	UpdateArticle(article *Article) error
	UpdateArticleMetadata(id string, name, description *string, processed *bool) error
	DeleteArticle(id string) error

	GetArticleCount() (int, error)
	GetArticleStats() (total, processed, unprocessed int, err error)
}
