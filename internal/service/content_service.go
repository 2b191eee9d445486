package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/repository"
)

// contentService is the concrete implementation of ContentService
type contentService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newContentService(repos *repository.Repositories, log zerolog.Logger) *contentService {
	return &contentService{
		repos: repos,
		log:   log.With().Str("service", "content").Logger(),
	}
}

// GetArticle returns nil when no article has id
func (s *contentService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// GetPaper returns nil when no paper has id
func (s *contentService) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	paper, err := s.repos.Paper.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	return paper, nil
}

// ListArticles returns the articles matching filter ordered by sortnum
func (s *contentService) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	articles, err := s.repos.Article.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	SortBySortNum(articles)
	return articles, nil
}

// ListColumn returns one column of an issue ordered by sortnum
func (s *contentService) ListColumn(ctx context.Context, paper string, issue uint64, column uint8) ([]*models.Article, error) {
	return s.ListArticles(ctx, models.IssueColumn(paper, issue, column))
}

func (s *contentService) ListPapers(ctx context.Context) ([]*models.Paper, error) {
	papers, err := s.repos.Paper.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}
	return papers, nil
}

func (s *contentService) PaperSummaries(ctx context.Context) ([]models.PaperSummary, error) {
	summaries, err := s.repos.Paper.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list paper summaries: %w", err)
	}
	return summaries, nil
}

func (s *contentService) Counts(ctx context.Context) (int, int, error) {
	articles, err := s.repos.Article.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count articles: %w", err)
	}
	papers, err := s.repos.Paper.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count papers: %w", err)
	}
	return articles, papers, nil
}

// SortBySortNum orders articles ascending by sortnum, keeping ties in input order
func SortBySortNum(articles []*models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].SortNum < articles[j].SortNum
	})
}
