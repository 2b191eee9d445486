package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/notify"
	"github.com/school-news-site/internal/repository"
	"github.com/school-news-site/internal/validation"
)

var (
	// ErrIncorrectCode is returned when a publish request carries anything but the active code
	ErrIncorrectCode = errors.New("incorrect code")
	// ErrNotSeeded is returned when the credentials row does not exist yet
	ErrNotSeeded = errors.New("credentials not seeded")
	// ErrRotateConflict is returned when every rotation attempt lost to a concurrent publish
	ErrRotateConflict = errors.New("publishing code kept changing during rotation")
)

// CredentialService defines the interface for the publishing code
type CredentialService interface {
	Seed(ctx context.Context) (bool, error)
	Verify(ctx context.Context, code uint32) (bool, error)
	Rotate(ctx context.Context) (uint32, error)
	Resend(ctx context.Context) error
	CurrentCode(ctx context.Context) (uint32, error)
	HookURL(ctx context.Context) (string, error)
	SetHookURL(ctx context.Context, url string) error
}

// ContentService defines the interface for reading articles and papers
type ContentService interface {
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	GetPaper(ctx context.Context, id string) (*models.Paper, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListColumn(ctx context.Context, paper string, issue uint64, column uint8) ([]*models.Article, error)
	ListPapers(ctx context.Context) ([]*models.Paper, error)
	PaperSummaries(ctx context.Context) ([]models.PaperSummary, error)
	Counts(ctx context.Context) (articles int, papers int, err error)
}

// PublishService defines the interface for code-gated writes
type PublishService interface {
	PublishArticle(ctx context.Context, req *models.PublishArticleRequest) (*models.Article, error)
	CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (*models.Paper, error)
}

// Services holds all service interfaces
type Services struct {
	Credential CredentialService
	Content    ContentService
	Publish    PublishService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, notifier notify.Notifier, log zerolog.Logger) *Services {
	credSvc := newCredentialService(repos.Credential, notifier, GenerateCode, log)
	contentSvc := newContentService(repos, log)
	publishSvc := newPublishService(repos, credSvc, validation.NewValidator(), log)

	return &Services{
		Credential: credSvc,
		Content:    contentSvc,
		Publish:    publishSvc,
	}
}
