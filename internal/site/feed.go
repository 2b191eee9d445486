package site

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/sourcegraph/sitemap"

	"github.com/school-news-site/internal/models"
)

// IssueFeed builds the RSS feed of one issue of paper
func IssueFeed(baseURL string, paper *models.Paper, issue uint64, articles []*models.Article) *feeds.Feed {
	base := strings.TrimRight(baseURL, "/")

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s, Issue No. %d", paper.Name, issue),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/newspaper/%s/%d", base, paper.ID, issue)},
		Description: paper.Name,
		Image:       &feeds.Image{Url: paper.Logo, Title: paper.Name, Link: base + "/newspaper/" + paper.ID},
	}

	var newest time.Time
	for _, a := range articles {
		created := time.Unix(int64(a.Date), 0).UTC()
		if created.After(newest) {
			newest = created
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          a.ID,
			Title:       a.Title,
			Link:        &feeds.Link{Href: base + "/read/" + a.ID},
			Author:      &feeds.Author{Name: a.Author},
			Description: PreviewText(a.Content),
			Created:     created,
		})
	}
	feed.Created = newest
	return feed
}

// Sitemap lists every paper and article page
func Sitemap(baseURL string, papers []*models.Paper, articles []*models.Article) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	urlSet := sitemap.URLSet{
		URLs: []sitemap.URL{{Loc: base + "/", ChangeFreq: sitemap.Daily, Priority: 1.0}},
	}
	for _, p := range papers {
		urlSet.URLs = append(urlSet.URLs, sitemap.URL{
			Loc:        fmt.Sprintf("%s/newspaper/%s/%d", base, p.ID, p.FeaturedIssue),
			ChangeFreq: sitemap.Daily,
			Priority:   0.8,
		})
	}
	for _, a := range articles {
		url := sitemap.URL{
			Loc:        base + "/read/" + a.ID,
			ChangeFreq: sitemap.Daily,
			Priority:   0.5,
		}
		if a.Date > 0 {
			mod := time.Unix(int64(a.Date), 0).UTC()
			url.LastMod = &mod
		}
		urlSet.URLs = append(urlSet.URLs, url)
	}
	return sitemap.Marshal(&urlSet)
}
