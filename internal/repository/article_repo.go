package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/school-news-site/internal/database"
	"github.com/school-news-site/internal/models"
)

const articleColumns = `id, title, author, date, paper, issue, image, style, layout_column, sortnum, content`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db sqlx.ExtContext
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db.DB}
}

// Upsert inserts an article or replaces every field of the stored one
func (r *articleRepo) Upsert(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES (:id, :title, :author, :date, :paper, :issue, :image, :style, :layout_column, :sortnum, :content)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			date = excluded.date,
			paper = excluded.paper,
			issue = excluded.issue,
			image = excluded.image,
			style = excluded.style,
			layout_column = excluded.layout_column,
			sortnum = excluded.sortnum,
			content = excluded.content
	`
	_, err := sqlx.NamedExecContext(ctx, r.db, query, article)
	return err
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := r.db.Rebind(`SELECT ` + articleColumns + ` FROM articles WHERE id = ?`)

	var article models.Article
	err := sqlx.GetContext(ctx, r.db, &article, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// List retrieves the articles matching filter, in no particular order
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Paper != nil {
		conds = append(conds, "paper = ?")
		args = append(args, *filter.Paper)
	}
	if filter.Issue != nil {
		conds = append(conds, "issue = ?")
		args = append(args, *filter.Issue)
	}
	if filter.Column != nil {
		conds = append(conds, "layout_column = ?")
		args = append(args, *filter.Column)
	}

	query := `SELECT ` + articleColumns + ` FROM articles`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	articles := []*models.Article{}
	if err := sqlx.SelectContext(ctx, r.db, &articles, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return articles, nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, "SELECT COUNT(*) FROM articles")
	return count, err
}
