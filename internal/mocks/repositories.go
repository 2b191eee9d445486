package mocks

import (
	"context"
	"sync"

	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/repository"
)

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu          sync.Mutex
	Articles    map[string]*models.Article
	UpsertError error
	GetError    error
	ListError   error
	UpsertCalls int
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
	}
}

func (m *MockArticleRepository) Upsert(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	if m.UpsertError != nil {
		return m.UpsertError
	}
	stored := *article
	m.Articles[article.ID] = &stored
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	stored := *a
	return &stored, nil
}

// List returns matches in insertion-independent map order, like the real store
func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	result := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if filter.Matches(a) {
			stored := *a
			result = append(result, &stored)
		}
	}
	return result, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles), nil
}

// MockPaperRepository is a mock implementation of PaperRepository
type MockPaperRepository struct {
	mu          sync.Mutex
	Papers      map[string]*models.Paper
	UpsertError error
	GetError    error
}

var _ repository.PaperRepository = (*MockPaperRepository)(nil)

func NewMockPaperRepository() *MockPaperRepository {
	return &MockPaperRepository{
		Papers: make(map[string]*models.Paper),
	}
}

func (m *MockPaperRepository) Upsert(ctx context.Context, paper *models.Paper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertError != nil {
		return m.UpsertError
	}
	stored := *paper
	m.Papers[paper.ID] = &stored
	return nil
}

func (m *MockPaperRepository) GetByID(ctx context.Context, id string) (*models.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Papers[id]
	if !ok {
		return nil, nil
	}
	stored := *p
	return &stored, nil
}

func (m *MockPaperRepository) List(ctx context.Context) ([]*models.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.Paper, 0, len(m.Papers))
	for _, p := range m.Papers {
		stored := *p
		result = append(result, &stored)
	}
	return result, nil
}

func (m *MockPaperRepository) Summaries(ctx context.Context) ([]models.PaperSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.PaperSummary, 0, len(m.Papers))
	for _, p := range m.Papers {
		result = append(result, models.PaperSummary{ID: p.ID, Name: p.Name})
	}
	return result, nil
}

func (m *MockPaperRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Papers), nil
}

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mu         sync.Mutex
	Credential *models.Credential
	GetError   error
	SwapError  error
	SwapCalls  int
	// BeforeSwap runs at the start of every SwapCode call, without the lock held
	BeforeSwap func()
}

var _ repository.CredentialRepository = (*MockCredentialRepository)(nil)

// NewMockCredentialRepository returns a repository seeded with code
func NewMockCredentialRepository(code uint32) *MockCredentialRepository {
	return &MockCredentialRepository{
		Credential: &models.Credential{Code: code},
	}
}

func (m *MockCredentialRepository) Seed(ctx context.Context, code uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Credential != nil {
		return false, nil
	}
	m.Credential = &models.Credential{Code: code}
	return true, nil
}

func (m *MockCredentialRepository) Get(ctx context.Context) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	if m.Credential == nil {
		return nil, nil
	}
	c := *m.Credential
	return &c, nil
}

func (m *MockCredentialRepository) SwapCode(ctx context.Context, current, next uint32) (bool, error) {
	if m.BeforeSwap != nil {
		m.BeforeSwap()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SwapCalls++
	if m.SwapError != nil {
		return false, m.SwapError
	}
	if m.Credential == nil || m.Credential.Code != current {
		return false, nil
	}
	m.Credential.Code = next
	return true, nil
}

func (m *MockCredentialRepository) SetHookURL(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Credential != nil {
		m.Credential.HookURL = url
	}
	return nil
}

// Code returns the stored code, or 0 when unseeded
func (m *MockCredentialRepository) Code() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Credential == nil {
		return 0
	}
	return m.Credential.Code
}

// NewMockRepositories bundles the given mocks. Transactions run serially without rollback.
func NewMockRepositories(articles *MockArticleRepository, papers *MockPaperRepository, creds *MockCredentialRepository) *repository.Repositories {
	return &repository.Repositories{
		Article:    articles,
		Paper:      papers,
		Credential: creds,
	}
}
