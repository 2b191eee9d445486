package repository

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/school-news-site/internal/database"
	"github.com/school-news-site/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Upsert(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	Count(ctx context.Context) (int, error)
}

// PaperRepository defines the interface for paper data operations
type PaperRepository interface {
	Upsert(ctx context.Context, paper *models.Paper) error
	GetByID(ctx context.Context, id string) (*models.Paper, error)
	List(ctx context.Context) ([]*models.Paper, error)
	Summaries(ctx context.Context) ([]models.PaperSummary, error)
	Count(ctx context.Context) (int, error)
}

// CredentialRepository defines the interface for the singleton credentials row
type CredentialRepository interface {
	// Seed inserts the credentials row with code unless it already exists
	Seed(ctx context.Context, code uint32) (bool, error)
	// Get returns nil when the row has not been seeded
	Get(ctx context.Context) (*models.Credential, error)
	// SwapCode replaces current with next, reporting false when current is not the stored code
	SwapCode(ctx context.Context, current, next uint32) (bool, error)
	SetHookURL(ctx context.Context, url string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article    ArticleRepository
	Paper      PaperRepository
	Credential CredentialRepository

	db   *database.DB
	txMu sync.Mutex
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:    NewArticleRepo(db),
		Paper:      NewPaperRepo(db),
		Credential: NewCredentialRepo(db),
		db:         db,
	}
}

// InTx runs fn with repositories bound to a single transaction.
// Repositories built without a database (test doubles) run fn serially instead.
func (r *Repositories) InTx(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		r.txMu.Lock()
		defer r.txMu.Unlock()
		return fn(r)
	}

	return r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&Repositories{
			Article:    &articleRepo{db: tx},
			Paper:      &paperRepo{db: tx},
			Credential: &credentialRepo{db: tx},
		})
	})
}
