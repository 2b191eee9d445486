package mocks

import (
	"context"

	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/service"
)

// MockCredentialService is a mock implementation of CredentialService
type MockCredentialService struct {
	Code        uint32
	Hook        string
	Seeded      bool
	Err         error
	ResendCalls int
	RotateCalls int
}

// Verify interface compliance
var _ service.CredentialService = (*MockCredentialService)(nil)

func NewMockCredentialService(code uint32) *MockCredentialService {
	return &MockCredentialService{Code: code}
}

func (m *MockCredentialService) Seed(ctx context.Context) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	inserted := !m.Seeded
	m.Seeded = true
	return inserted, nil
}

func (m *MockCredentialService) Verify(ctx context.Context, code uint32) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	return code == m.Code, nil
}

func (m *MockCredentialService) Rotate(ctx context.Context) (uint32, error) {
	m.RotateCalls++
	if m.Err != nil {
		return 0, m.Err
	}
	m.Code++
	return m.Code, nil
}

func (m *MockCredentialService) Resend(ctx context.Context) error {
	m.ResendCalls++
	return m.Err
}

func (m *MockCredentialService) CurrentCode(ctx context.Context) (uint32, error) {
	return m.Code, m.Err
}

func (m *MockCredentialService) HookURL(ctx context.Context) (string, error) {
	return m.Hook, m.Err
}

func (m *MockCredentialService) SetHookURL(ctx context.Context, url string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Hook = url
	return nil
}

// MockContentService is a mock implementation of ContentService
type MockContentService struct {
	Articles map[string]*models.Article
	Papers   map[string]*models.Paper
	Err      error
}

// Verify interface compliance
var _ service.ContentService = (*MockContentService)(nil)

func NewMockContentService() *MockContentService {
	return &MockContentService{
		Articles: make(map[string]*models.Article),
		Papers:   make(map[string]*models.Paper),
	}
}

func (m *MockContentService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Articles[id], nil
}

func (m *MockContentService) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Papers[id], nil
}

func (m *MockContentService) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if filter.Matches(a) {
			result = append(result, a)
		}
	}
	service.SortBySortNum(result)
	return result, nil
}

func (m *MockContentService) ListColumn(ctx context.Context, paper string, issue uint64, column uint8) ([]*models.Article, error) {
	return m.ListArticles(ctx, models.IssueColumn(paper, issue, column))
}

func (m *MockContentService) ListPapers(ctx context.Context) ([]*models.Paper, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*models.Paper, 0, len(m.Papers))
	for _, p := range m.Papers {
		result = append(result, p)
	}
	return result, nil
}

func (m *MockContentService) PaperSummaries(ctx context.Context) ([]models.PaperSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]models.PaperSummary, 0, len(m.Papers))
	for _, p := range m.Papers {
		result = append(result, models.PaperSummary{ID: p.ID, Name: p.Name})
	}
	return result, nil
}

func (m *MockContentService) Counts(ctx context.Context) (int, int, error) {
	return len(m.Articles), len(m.Papers), m.Err
}

// MockPublishService is a mock implementation of PublishService
type MockPublishService struct {
	PublishArticleFunc func(ctx context.Context, req *models.PublishArticleRequest) (*models.Article, error)
	CreatePaperFunc    func(ctx context.Context, req *models.CreatePaperRequest) (*models.Paper, error)
	Code               uint32
	Published          []*models.Article
	Created            []*models.Paper
}

// Verify interface compliance
var _ service.PublishService = (*MockPublishService)(nil)

func NewMockPublishService(code uint32) *MockPublishService {
	return &MockPublishService{
		Code:      code,
		Published: make([]*models.Article, 0),
		Created:   make([]*models.Paper, 0),
	}
}

func (m *MockPublishService) PublishArticle(ctx context.Context, req *models.PublishArticleRequest) (*models.Article, error) {
	if m.PublishArticleFunc != nil {
		return m.PublishArticleFunc(ctx, req)
	}
	if req.Code != m.Code {
		return nil, service.ErrIncorrectCode
	}
	article := req.Article
	m.Published = append(m.Published, &article)
	m.Code++
	return &article, nil
}

func (m *MockPublishService) CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (*models.Paper, error) {
	if m.CreatePaperFunc != nil {
		return m.CreatePaperFunc(ctx, req)
	}
	if req.Code != m.Code {
		return nil, service.ErrIncorrectCode
	}
	paper := req.Paper
	m.Created = append(m.Created, &paper)
	m.Code++
	return &paper, nil
}
