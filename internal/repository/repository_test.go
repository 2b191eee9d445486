package repository_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-news-site/internal/database/dbtest"
	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/repository"
)

func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.New(dbtest.New(t))
}

func TestArticleRepo_UpsertIsIdempotent(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	article := &models.Article{
		ID:      "first-day",
		Title:   "First Day",
		Author:  "Sam",
		Date:    1700000000,
		Paper:   "gazette",
		Issue:   3,
		Image:   "/img/first.png",
		Style:   1,
		Column:  models.ColumnLeft,
		SortNum: -2,
		Content: `{"ops":[{"insert":"Hello\n"}]}`,
	}

	require.NoError(t, repos.Article.Upsert(ctx, article))
	require.NoError(t, repos.Article.Upsert(ctx, article))

	count, err := repos.Article.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repos.Article.GetByID(ctx, "first-day")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, *article, *stored)
}

func TestArticleRepo_UpsertReplacesEveryField(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Article.Upsert(ctx, &models.Article{
		ID: "story", Title: "Old", Author: "A", Image: "old.png", Issue: 1, SortNum: 4, Content: "{}",
	}))

	replacement := &models.Article{ID: "story", Title: "New", Paper: "chronicle", Issue: 2}
	require.NoError(t, repos.Article.Upsert(ctx, replacement))

	stored, err := repos.Article.GetByID(ctx, "story")
	require.NoError(t, err)
	assert.Equal(t, *replacement, *stored, "no field of the old record should survive")
}

func TestArticleRepo_GetByID_Missing(t *testing.T) {
	repos := newRepos(t)

	article, err := repos.Article.GetByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, article)
}

func TestArticleRepo_ListFilters(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	seed := []*models.Article{
		{ID: "a", Paper: "gazette", Issue: 5, Column: models.ColumnLeft, SortNum: 3},
		{ID: "b", Paper: "gazette", Issue: 5, Column: models.ColumnLeft, SortNum: 1},
		{ID: "c", Paper: "gazette", Issue: 5, Column: models.ColumnHeadline, SortNum: 9},
		{ID: "d", Paper: "gazette", Issue: 4, Column: models.ColumnLeft, SortNum: 0},
		{ID: "e", Paper: "chronicle", Issue: 5, Column: models.ColumnLeft, SortNum: 0},
	}
	for _, a := range seed {
		require.NoError(t, repos.Article.Upsert(ctx, a))
	}

	issue := uint64(5)
	column := models.ColumnLeft

	tests := []struct {
		name   string
		filter models.ArticleFilter
		want   []string
	}{
		{"issue and column", models.ArticleFilter{Issue: &issue, Column: &column}, []string{"a", "b", "e"}},
		{"paper issue and column", models.IssueColumn("gazette", 5, models.ColumnLeft), []string{"a", "b"}},
		{"headline column", models.IssueColumn("gazette", 5, models.ColumnHeadline), []string{"c"}},
		{"no filter", models.ArticleFilter{}, []string{"a", "b", "c", "d", "e"}},
		{"empty result", models.IssueColumn("gazette", 5, models.ColumnRight), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles, err := repos.Article.List(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(articles))
			for _, a := range articles {
				ids = append(ids, a.ID)
			}
			sort.Strings(ids)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPaperRepo_UpsertAndSummaries(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Paper.Upsert(ctx, &models.Paper{ID: "gazette", Name: "Gazette", FeaturedIssue: 1, Logo: "g.png"}))
	require.NoError(t, repos.Paper.Upsert(ctx, &models.Paper{ID: "chronicle", Name: "Chronicle", FeaturedIssue: 7, Logo: "c.png"}))
	require.NoError(t, repos.Paper.Upsert(ctx, &models.Paper{ID: "gazette", Name: "The Gazette", FeaturedIssue: 2, Logo: "g2.png"}))

	paper, err := repos.Paper.GetByID(ctx, "gazette")
	require.NoError(t, err)
	require.NotNil(t, paper)
	assert.Equal(t, models.Paper{ID: "gazette", Name: "The Gazette", FeaturedIssue: 2, Logo: "g2.png"}, *paper)

	missing, err := repos.Paper.GetByID(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	summaries, err := repos.Paper.Summaries(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.PaperSummary{
		{ID: "gazette", Name: "The Gazette"},
		{ID: "chronicle", Name: "Chronicle"},
	}, summaries)

	papers, err := repos.Paper.List(ctx)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "chronicle", papers[0].ID)

	count, err := repos.Paper.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCredentialRepo_SeedOnlyOnce(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	cred, err := repos.Credential.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, cred, "row should not exist before seeding")

	inserted, err := repos.Credential.Seed(ctx, 4242)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repos.Credential.Seed(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, inserted)

	cred, err = repos.Credential.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, uint32(4242), cred.Code)
	assert.Equal(t, "", cred.HookURL)
}

func TestCredentialRepo_SwapCode(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	_, err := repos.Credential.Seed(ctx, 2000)
	require.NoError(t, err)

	swapped, err := repos.Credential.SwapCode(ctx, 1999, 3000)
	require.NoError(t, err)
	assert.False(t, swapped, "wrong current code must not swap")

	swapped, err = repos.Credential.SwapCode(ctx, 2000, 3000)
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = repos.Credential.SwapCode(ctx, 2000, 4000)
	require.NoError(t, err)
	assert.False(t, swapped, "old code must not swap twice")

	cred, err := repos.Credential.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), cred.Code)
}

func TestCredentialRepo_LargeCodesAndHook(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	_, err := repos.Credential.Seed(ctx, 1024)
	require.NoError(t, err)
	swapped, err := repos.Credential.SwapCode(ctx, 1024, 4294967295)
	require.NoError(t, err)
	require.True(t, swapped)
	require.NoError(t, repos.Credential.SetHookURL(ctx, "https://hooks.example.com/abc"))

	cred, err := repos.Credential.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), cred.Code)
	assert.Equal(t, "https://hooks.example.com/abc", cred.HookURL)
}

func TestRepositories_InTxRollsBack(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	_, err := repos.Credential.Seed(ctx, 5000)
	require.NoError(t, err)

	failure := errors.New("write failed")
	err = repos.InTx(ctx, func(tx *repository.Repositories) error {
		swapped, err := tx.Credential.SwapCode(ctx, 5000, 6000)
		require.NoError(t, err)
		require.True(t, swapped)
		require.NoError(t, tx.Article.Upsert(ctx, &models.Article{ID: "ghost"}))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	cred, err := repos.Credential.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(5000), cred.Code, "code rotation should roll back with the write")

	article, err := repos.Article.GetByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, article)
}
