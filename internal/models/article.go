package models

// Layout columns of an issue page
const (
	ColumnHeadline uint8 = 0
	ColumnLeft     uint8 = 1
	ColumnRight    uint8 = 2
)

// InvalidMarker fills every text field of the missing-article placeholder
const InvalidMarker = "INVALID"

// Article represents a published article
type Article struct {
	ID      string `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Author  string `json:"author" db:"author"`
	Date    uint64 `json:"date" db:"date"` // unix seconds, set by the client
	Paper   string `json:"paper" db:"paper"`
	Issue   uint64 `json:"issue" db:"issue"`
	Image   string `json:"image" db:"image"`
	Style   uint8  `json:"style" db:"style"`
	Column  uint8  `json:"column" db:"layout_column"`
	SortNum int16  `json:"sortnum" db:"sortnum"`
	Content string `json:"content" db:"content"` // serialized rich-text delta, opaque
}

// InvalidArticle returns the placeholder served when an article id is unknown
func InvalidArticle() Article {
	return Article{
		ID:      InvalidMarker,
		Title:   InvalidMarker,
		Author:  InvalidMarker,
		Paper:   InvalidMarker,
		Image:   InvalidMarker,
		Content: `{"ops":[{"insert":"INVALID"}]}`,
	}
}

// IsInvalid reports whether a is the missing-article placeholder
func (a Article) IsInvalid() bool {
	return a == InvalidArticle()
}

// ArticleFilter narrows an article listing. Nil fields are not filtered on.
type ArticleFilter struct {
	Paper  *string
	Issue  *uint64
	Column *uint8
}

// IssueColumn builds the filter used to lay out one column of an issue
func IssueColumn(paper string, issue uint64, column uint8) ArticleFilter {
	return ArticleFilter{Paper: &paper, Issue: &issue, Column: &column}
}

// Matches reports whether a passes every set field of f
func (f ArticleFilter) Matches(a *Article) bool {
	if f.Paper != nil && a.Paper != *f.Paper {
		return false
	}
	if f.Issue != nil && a.Issue != *f.Issue {
		return false
	}
	if f.Column != nil && a.Column != *f.Column {
		return false
	}
	return true
}

// PublishArticleRequest is the body of POST /api/publish
type PublishArticleRequest struct {
	Article Article `json:"article"`
	Code    uint32  `json:"code"`
}
