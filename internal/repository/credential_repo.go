package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/school-news-site/internal/database"
	"github.com/school-news-site/internal/models"
)

// credentialRepo is the concrete implementation of CredentialRepository
type credentialRepo struct {
	db sqlx.ExtContext
}

// NewCredentialRepo creates a new credential repository
func NewCredentialRepo(db *database.DB) CredentialRepository {
	return &credentialRepo{db: db.DB}
}

// Seed inserts the singleton row; an existing row is left untouched
func (r *credentialRepo) Seed(ctx context.Context, code uint32) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO credentials (id, code, hook_url) VALUES (?, ?, '')
		ON CONFLICT (id) DO NOTHING
	`)
	res, err := r.db.ExecContext(ctx, query, models.CredentialRowID, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Get retrieves the singleton row
func (r *credentialRepo) Get(ctx context.Context) (*models.Credential, error) {
	query := r.db.Rebind(`SELECT code, hook_url FROM credentials WHERE id = ?`)

	var cred models.Credential
	err := sqlx.GetContext(ctx, r.db, &cred, query, models.CredentialRowID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// SwapCode overwrites the stored code only while it still equals current
func (r *credentialRepo) SwapCode(ctx context.Context, current, next uint32) (bool, error) {
	query := r.db.Rebind(`UPDATE credentials SET code = ? WHERE id = ? AND code = ?`)
	res, err := r.db.ExecContext(ctx, query, next, models.CredentialRowID, current)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetHookURL sets where code rotations are announced
func (r *credentialRepo) SetHookURL(ctx context.Context, url string) error {
	query := r.db.Rebind(`UPDATE credentials SET hook_url = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, url, models.CredentialRowID)
	return err
}
