package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-news-site/internal/mocks"
	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/service"
	"github.com/school-news-site/internal/validation"
)

type fixture struct {
	articles *mocks.MockArticleRepository
	papers   *mocks.MockPaperRepository
	creds    *mocks.MockCredentialRepository
	notifier *mocks.MockNotifier
	svc      *service.Services
}

func newFixture(code uint32) *fixture {
	f := &fixture{
		articles: mocks.NewMockArticleRepository(),
		papers:   mocks.NewMockPaperRepository(),
		creds:    mocks.NewMockCredentialRepository(code),
		notifier: mocks.NewMockNotifier(),
	}
	repos := mocks.NewMockRepositories(f.articles, f.papers, f.creds)
	f.svc = service.NewServices(repos, f.notifier, zerolog.Nop())
	return f
}

func TestPublishArticle_StoresAndRotates(t *testing.T) {
	f := newFixture(5000)
	f.creds.Credential.HookURL = "https://hooks.example.com/x"
	ctx := context.Background()

	article, err := f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{
		Article: models.Article{ID: "first-day", Title: "First Day", Paper: "gazette", Issue: 1},
		Code:    5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "first-day", article.ID)

	stored, err := f.svc.Content.GetArticle(ctx, "first-day")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "First Day", stored.Title)

	newCode := f.creds.Code()
	assert.NotEqual(t, uint32(5000), newCode)
	assert.GreaterOrEqual(t, newCode, service.MinCode)

	sent := f.notifier.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, mocks.Notification{URL: "https://hooks.example.com/x", Code: newCode}, sent[0])
}

func TestPublishArticle_IncorrectCodeChangesNothing(t *testing.T) {
	f := newFixture(5000)
	ctx := context.Background()

	_, err := f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{
		Article: models.Article{ID: "sneaky"},
		Code:    4999,
	})
	assert.ErrorIs(t, err, service.ErrIncorrectCode)

	stored, err := f.svc.Content.GetArticle(ctx, "sneaky")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, uint32(5000), f.creds.Code())
	assert.Empty(t, f.notifier.Notifications())
}

func TestPublish_OnlyLatestCodeVerifies(t *testing.T) {
	f := newFixture(7777)
	ctx := context.Background()

	var issued []uint32
	for i := 0; i < 20; i++ {
		code := f.creds.Code()
		issued = append(issued, code)

		_, err := f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{
			Article: models.Article{ID: "story", SortNum: int16(i)},
			Code:    code,
		})
		require.NoError(t, err, "publish %d", i)
	}

	for _, old := range issued {
		ok, err := f.svc.Credential.Verify(ctx, old)
		require.NoError(t, err)
		assert.False(t, ok, "code %d should no longer verify", old)
	}

	ok, err := f.svc.Credential.Verify(ctx, f.creds.Code())
	require.NoError(t, err)
	assert.True(t, ok)

	count, _, err := f.svc.Content.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "republishing the same id overwrites")
}

func TestPublishArticle_InvalidPayloadDoesNotConsumeCode(t *testing.T) {
	f := newFixture(5000)

	_, err := f.svc.Publish.PublishArticle(context.Background(), &models.PublishArticleRequest{
		Article: models.Article{ID: "bad", Column: 7},
		Code:    5000,
	})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.Equal(t, "column", verrs[0].Field)
	assert.Equal(t, 0, f.creds.SwapCalls)
	assert.Equal(t, uint32(5000), f.creds.Code())
}

func TestPublishArticle_StoresIDsAsSent(t *testing.T) {
	f := newFixture(5000)
	ctx := context.Background()

	sentArticles := []models.Article{
		{ID: "Big_News", Title: "Big News", Paper: "The_Gazette", Issue: 2},
		{ID: "my-great-article-", Title: "Great", Paper: "gazette", Issue: 1},
		{ID: "--st-news", Title: "St News", Paper: "--st-news", Issue: 1},
		{ID: "Élan", Title: "Élan", Paper: "Élan", Issue: 3, Column: models.ColumnLeft},
	}

	for _, sent := range sentArticles {
		article, err := f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{
			Article: sent,
			Code:    f.creds.Code(),
		})
		require.NoError(t, err, "publish %q", sent.ID)
		assert.Equal(t, sent.ID, article.ID)
		assert.Equal(t, sent.Paper, article.Paper)

		stored, err := f.svc.Content.GetArticle(ctx, sent.ID)
		require.NoError(t, err)
		require.NotNil(t, stored, "article %q not found under the id it was sent with", sent.ID)
		assert.Equal(t, sent, *stored)
	}

	_, err := f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{
		Article: models.Article{ID: "Big_News", Title: "Bigger News", Paper: "The_Gazette", Issue: 2},
		Code:    f.creds.Code(),
	})
	require.NoError(t, err)

	count, _, err := f.svc.Content.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sentArticles), count)

	column, err := f.svc.Content.ListColumn(ctx, "The_Gazette", 2, models.ColumnHeadline)
	require.NoError(t, err)
	require.Len(t, column, 1)
	assert.Equal(t, "Bigger News", column[0].Title)
}

func TestPublishArticle_UnroutableIDDoesNotConsumeCode(t *testing.T) {
	f := newFixture(5000)

	_, err := f.svc.Publish.PublishArticle(context.Background(), &models.PublishArticleRequest{
		Article: models.Article{ID: "news/today"},
		Code:    5000,
	})

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.Equal(t, "id", verrs[0].Field)
	assert.Equal(t, 0, f.creds.SwapCalls)
	assert.Equal(t, uint32(5000), f.creds.Code())
}

func TestPublishArticle_StorageErrorIsReturned(t *testing.T) {
	f := newFixture(5000)
	f.articles.UpsertError = errors.New("disk full")

	_, err := f.svc.Publish.PublishArticle(context.Background(), &models.PublishArticleRequest{
		Article: models.Article{ID: "story"},
		Code:    5000,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrIncorrectCode)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, f.notifier.Notifications())
}

func TestCreatePaper(t *testing.T) {
	f := newFixture(3000)
	ctx := context.Background()

	paper, err := f.svc.Publish.CreatePaper(ctx, &models.CreatePaperRequest{
		Paper: models.Paper{ID: "The_Gazette", Name: "The Gazette", FeaturedIssue: 4, Logo: "/g.png"},
		Code:  3000,
	})
	require.NoError(t, err)
	assert.Equal(t, "The_Gazette", paper.ID)

	stored, err := f.svc.Content.GetPaper(ctx, "The_Gazette")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, uint64(4), stored.FeaturedIssue)
	assert.NotEqual(t, uint32(3000), f.creds.Code())

	_, err = f.svc.Publish.CreatePaper(ctx, &models.CreatePaperRequest{
		Paper: models.Paper{ID: "other", Name: "Other", Logo: "/o.png"},
		Code:  3000,
	})
	assert.ErrorIs(t, err, service.ErrIncorrectCode)
}

func TestContentService_ListColumnSortsBySortNum(t *testing.T) {
	f := newFixture(1024)
	ctx := context.Background()

	for _, a := range []*models.Article{
		{ID: "c", Paper: "gazette", Issue: 5, Column: models.ColumnLeft, SortNum: 10},
		{ID: "a", Paper: "gazette", Issue: 5, Column: models.ColumnLeft, SortNum: -3},
		{ID: "b", Paper: "gazette", Issue: 5, Column: models.ColumnLeft, SortNum: 2},
		{ID: "x", Paper: "gazette", Issue: 5, Column: models.ColumnRight, SortNum: 0},
		{ID: "y", Paper: "gazette", Issue: 6, Column: models.ColumnLeft, SortNum: 0},
	} {
		require.NoError(t, f.articles.Upsert(ctx, a))
	}

	articles, err := f.svc.Content.ListColumn(ctx, "gazette", 5, models.ColumnLeft)
	require.NoError(t, err)

	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestContentService_ListArticlesEmpty(t *testing.T) {
	f := newFixture(1024)

	articles, err := f.svc.Content.ListColumn(context.Background(), "nobody", 1, models.ColumnHeadline)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestContentService_StorageErrorsWrap(t *testing.T) {
	f := newFixture(1024)
	boom := errors.New("boom")
	f.articles.ListError = boom
	f.articles.GetError = boom

	_, err := f.svc.Content.ListColumn(context.Background(), "gazette", 1, models.ColumnLeft)
	assert.ErrorIs(t, err, boom)

	_, err = f.svc.Content.GetArticle(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestSortBySortNum_IsStable(t *testing.T) {
	articles := []*models.Article{
		{ID: "first", SortNum: 1},
		{ID: "neg", SortNum: -1},
		{ID: "second", SortNum: 1},
		{ID: "third", SortNum: 1},
	}

	service.SortBySortNum(articles)

	want := []string{"neg", "first", "second", "third"}
	for i, a := range articles {
		if a.ID != want[i] {
			t.Errorf("Expected %s at %d, got %s", want[i], i, a.ID)
		}
	}
}

func TestCredentialService(t *testing.T) {
	ctx := context.Background()

	t.Run("rotate replaces code and notifies", func(t *testing.T) {
		f := newFixture(2000)
		f.creds.Credential.HookURL = "https://hooks.example.com/r"

		code, err := f.svc.Credential.Rotate(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, uint32(2000), code)
		assert.Equal(t, code, f.creds.Code())

		ok, err := f.svc.Credential.Verify(ctx, 2000)
		require.NoError(t, err)
		assert.False(t, ok)

		sent := f.notifier.Notifications()
		require.Len(t, sent, 1)
		assert.Equal(t, code, sent[0].Code)
	})

	t.Run("rotate retries when a publish changes the code first", func(t *testing.T) {
		f := newFixture(2000)
		f.creds.Credential.HookURL = "https://hooks.example.com/r"
		f.creds.BeforeSwap = func() {
			// first attempt loses to a publish that stores 9999
			if f.creds.SwapCalls == 0 {
				f.creds.Credential.Code = 9999
			}
		}

		code, err := f.svc.Credential.Rotate(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, f.creds.SwapCalls)
		assert.NotEqual(t, uint32(9999), code)
		assert.Equal(t, code, f.creds.Code())

		sent := f.notifier.Notifications()
		require.Len(t, sent, 1)
		assert.Equal(t, f.creds.Code(), sent[0].Code, "announced code must be the stored code")
	})

	t.Run("rotate gives up after repeated conflicts", func(t *testing.T) {
		f := newFixture(2000)
		f.creds.BeforeSwap = func() {
			f.creds.Credential.Code++
		}

		_, err := f.svc.Credential.Rotate(ctx)
		assert.ErrorIs(t, err, service.ErrRotateConflict)
		assert.Empty(t, f.notifier.Notifications())
	})

	t.Run("rotate and publish race", func(t *testing.T) {
		f := newFixture(2000)
		f.creds.Credential.HookURL = "https://hooks.example.com/r"

		var (
			wg         sync.WaitGroup
			rotated    uint32
			rotateErr  error
			publishErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, publishErr = f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{
				Article: models.Article{ID: "story"},
				Code:    2000,
			})
		}()
		go func() {
			defer wg.Done()
			rotated, rotateErr = f.svc.Credential.Rotate(ctx)
		}()
		wg.Wait()

		require.NoError(t, rotateErr)
		if publishErr != nil {
			assert.ErrorIs(t, publishErr, service.ErrIncorrectCode)
		}

		codes := make([]uint32, 0, 2)
		for _, n := range f.notifier.Notifications() {
			codes = append(codes, n.Code)
		}
		assert.Contains(t, codes, rotated)
		assert.Contains(t, codes, f.creds.Code(), "the stored code must have been announced")
		if publishErr == nil {
			assert.Len(t, codes, 2)
		} else {
			assert.Len(t, codes, 1)
		}
	})

	t.Run("resend keeps code", func(t *testing.T) {
		f := newFixture(2000)

		require.NoError(t, f.svc.Credential.Resend(ctx))
		assert.Equal(t, uint32(2000), f.creds.Code())
		assert.Equal(t, []mocks.Notification{{URL: "", Code: 2000}}, f.notifier.Notifications())
	})

	t.Run("hook url round trip", func(t *testing.T) {
		f := newFixture(2000)

		require.NoError(t, f.svc.Credential.SetHookURL(ctx, "https://hooks.example.com/new"))
		url, err := f.svc.Credential.HookURL(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://hooks.example.com/new", url)
	})

	t.Run("seed is idempotent", func(t *testing.T) {
		f := newFixture(2000)

		inserted, err := f.svc.Credential.Seed(ctx)
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Equal(t, uint32(2000), f.creds.Code())
	})

	t.Run("unseeded", func(t *testing.T) {
		f := newFixture(2000)
		f.creds.Credential = nil

		_, err := f.svc.Credential.CurrentCode(ctx)
		assert.ErrorIs(t, err, service.ErrNotSeeded)
		assert.ErrorIs(t, f.svc.Credential.Resend(ctx), service.ErrNotSeeded)

		_, err = f.svc.Publish.PublishArticle(ctx, &models.PublishArticleRequest{Article: models.Article{ID: "x"}, Code: 2000})
		assert.ErrorIs(t, err, service.ErrIncorrectCode)

		inserted, err := f.svc.Credential.Seed(ctx)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.GreaterOrEqual(t, f.creds.Code(), service.MinCode)
	})

	t.Run("storage error", func(t *testing.T) {
		f := newFixture(2000)
		f.creds.GetError = errors.New("locked")

		_, err := f.svc.Credential.Verify(ctx, 2000)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrNotSeeded)
	})
}
