package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/school-news-site/internal/database"
	"github.com/school-news-site/internal/models"
)

// paperRepo is the concrete implementation of PaperRepository
type paperRepo struct {
	db sqlx.ExtContext
}

// NewPaperRepo creates a new paper repository
func NewPaperRepo(db *database.DB) PaperRepository {
	return &paperRepo{db: db.DB}
}

// Upsert inserts a paper or replaces every field of the stored one
func (r *paperRepo) Upsert(ctx context.Context, paper *models.Paper) error {
	query := `
		INSERT INTO papers (id, name, featured_issue, logo)
		VALUES (:id, :name, :featured_issue, :logo)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			featured_issue = excluded.featured_issue,
			logo = excluded.logo
	`
	_, err := sqlx.NamedExecContext(ctx, r.db, query, paper)
	return err
}

// GetByID retrieves a paper by ID
func (r *paperRepo) GetByID(ctx context.Context, id string) (*models.Paper, error) {
	query := r.db.Rebind(`SELECT id, name, featured_issue, logo FROM papers WHERE id = ?`)

	var paper models.Paper
	err := sqlx.GetContext(ctx, r.db, &paper, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// List retrieves every paper ordered by name
func (r *paperRepo) List(ctx context.Context) ([]*models.Paper, error) {
	papers := []*models.Paper{}
	err := sqlx.SelectContext(ctx, r.db, &papers, `SELECT id, name, featured_issue, logo FROM papers ORDER BY name, id`)
	return papers, err
}

// Summaries retrieves the id and name of every paper
func (r *paperRepo) Summaries(ctx context.Context) ([]models.PaperSummary, error) {
	summaries := []models.PaperSummary{}
	err := sqlx.SelectContext(ctx, r.db, &summaries, `SELECT id, name FROM papers`)
	return summaries, err
}

// Count returns the total number of papers
func (r *paperRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, "SELECT COUNT(*) FROM papers")
	return count, err
}
