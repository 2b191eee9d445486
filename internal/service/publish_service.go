package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/metrics"
	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/repository"
	"github.com/school-news-site/internal/validation"
)

const (
	kindArticle = "article"
	kindPaper   = "paper"
)

// publishService is the concrete implementation of PublishService
type publishService struct {
	repos     *repository.Repositories
	creds     *credentialService
	validator *validation.Validator
	log       zerolog.Logger
}

func newPublishService(repos *repository.Repositories, creds *credentialService, validator *validation.Validator, log zerolog.Logger) *publishService {
	return &publishService{
		repos:     repos,
		creds:     creds,
		validator: validator,
		log:       log.With().Str("service", "publish").Logger(),
	}
}

// PublishArticle stores req.Article if req.Code is the active code, then rotates the code
func (s *publishService) PublishArticle(ctx context.Context, req *models.PublishArticleRequest) (*models.Article, error) {
	article := req.Article
	if err := s.validator.ValidateArticle(&article); err != nil {
		metrics.PublishTotal.WithLabelValues(kindArticle, metrics.ResultInvalid).Inc()
		return nil, err
	}

	err := s.commit(ctx, kindArticle, req.Code, func(tx *repository.Repositories) error {
		return tx.Article.Upsert(ctx, &article)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("article_id", article.ID).Str("paper", article.Paper).Uint64("issue", article.Issue).Msg("Article published")
	return &article, nil
}

// CreatePaper stores req.Paper if req.Code is the active code, then rotates the code
func (s *publishService) CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (*models.Paper, error) {
	paper := req.Paper
	if err := s.validator.ValidatePaper(&paper); err != nil {
		metrics.PublishTotal.WithLabelValues(kindPaper, metrics.ResultInvalid).Inc()
		return nil, err
	}

	err := s.commit(ctx, kindPaper, req.Code, func(tx *repository.Repositories) error {
		return tx.Paper.Upsert(ctx, &paper)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("paper_id", paper.ID).Uint64("featured_issue", paper.FeaturedIssue).Msg("Paper published")
	return &paper, nil
}

// commit swaps code for a fresh one and runs write in the same transaction.
// Of several callers holding the same code at most one commits.
func (s *publishService) commit(ctx context.Context, kind string, code uint32, write func(tx *repository.Repositories) error) error {
	next := nextCode(s.creds.gen, code)

	var hookURL string
	err := s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		swapped, err := tx.Credential.SwapCode(ctx, code, next)
		if err != nil {
			return fmt.Errorf("failed to rotate code: %w", err)
		}
		if !swapped {
			return ErrIncorrectCode
		}

		if err := write(tx); err != nil {
			return fmt.Errorf("failed to store %s: %w", kind, err)
		}

		cred, err := tx.Credential.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load hook url: %w", err)
		}
		if cred != nil {
			hookURL = cred.HookURL
		}
		return nil
	})

	switch {
	case errors.Is(err, ErrIncorrectCode):
		metrics.PublishTotal.WithLabelValues(kind, metrics.ResultRejected).Inc()
		s.log.Warn().Str("kind", kind).Msg("Publish rejected, incorrect code")
		return err
	case err != nil:
		metrics.PublishTotal.WithLabelValues(kind, metrics.ResultError).Inc()
		return err
	}

	metrics.PublishTotal.WithLabelValues(kind, metrics.ResultSuccess).Inc()
	s.creds.announce(hookURL, next)
	return nil
}
