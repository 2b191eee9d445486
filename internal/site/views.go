package site

import (
	"fmt"
	"time"

	"github.com/school-news-site/internal/models"
)

// Placeholders shown when an article points at a paper that does not exist
const (
	UnknownPaper = "UNKNOWN"
	MissingPaper = "ERROR"
)

// Page titles
const (
	TitleArticleNotFound   = "Article Not Found"
	TitleNewspaperNotFound = "Newspaper Not Found"
	TitleWrongLink         = "404 (Wrong Link)"
)

// MenuImage is the banner shown on menu pages
const MenuImage = "/menu.png"

// ArticlePage is rendered by article.html
type ArticlePage struct {
	ID          string
	Title       string
	Author      string
	Date        uint64
	Paper       string
	PaperID     string
	Issue       uint64
	Image       string
	Logo        string
	ArticleJSON string
	Preview     string
}

// NewArticlePage builds the reading view of article; paper may be nil
func NewArticlePage(article *models.Article, paper *models.Paper) ArticlePage {
	page := ArticlePage{
		ID:          article.ID,
		Title:       article.Title,
		Author:      article.Author,
		Date:        article.Date,
		Paper:       UnknownPaper,
		PaperID:     MissingPaper,
		Issue:       article.Issue,
		Image:       article.Image,
		Logo:        MissingPaper,
		ArticleJSON: article.Content,
		Preview:     PreviewText(article.Content),
	}
	if paper != nil {
		page.Paper = paper.Name
		page.PaperID = paper.ID
		page.Logo = paper.Logo
	}
	return page
}

// Preview is one article teaser on an issue page
type Preview struct {
	ID          string
	Title       string
	Author      string
	Image       string
	Style       uint8
	ArticleJSON string
	Text        string
}

// NewPreviews builds teasers in the given order
func NewPreviews(articles []*models.Article) []Preview {
	previews := make([]Preview, 0, len(articles))
	for _, a := range articles {
		previews = append(previews, Preview{
			ID:          a.ID,
			Title:       a.Title,
			Author:      a.Author,
			Image:       a.Image,
			Style:       a.Style,
			ArticleJSON: a.Content,
			Text:        PreviewText(a.Content),
		})
	}
	return previews
}

// IssuePage is rendered by newspaper.html
type IssuePage struct {
	ID        string
	Logo      string
	Title     string
	Issue     uint64
	Headlines []Preview
	Left      []Preview
	Right     []Preview
}

// MenuLink is one card on a menu page
type MenuLink struct {
	URL   string
	Name  string
	Info  string
	Image string
}

// MenuPage is rendered by menu.html. Body names the partial template with the page text.
type MenuPage struct {
	Title string
	Image string
	Body  string
	Links []MenuLink
}

// HomePage lists every paper with its featured issue
func HomePage(papers []*models.Paper) MenuPage {
	links := make([]MenuLink, 0, len(papers))
	for _, p := range papers {
		links = append(links, MenuLink{
			URL:   "/newspaper/" + p.ID,
			Name:  p.Name,
			Info:  fmt.Sprintf("Latest Issue: No. %d", p.FeaturedIssue),
			Image: p.Logo,
		})
	}
	return MenuPage{Title: "Home", Image: MenuImage, Body: "page_home", Links: links}
}

// SubmissionsPage points readers at the submission form
func SubmissionsPage(formURL string) MenuPage {
	return MenuPage{
		Title: "Submissions",
		Image: MenuImage,
		Body:  "page_submissions",
		Links: []MenuLink{{
			URL:   formURL,
			Name:  "Submit Your News Here!",
			Info:  "Make sure you're on your school account",
			Image: "https://growthsupermarket.com/wp-content/uploads/2018/06/GoogleForms_logo-e1529921391153.png",
		}},
	}
}

// AboutPage describes the club
func AboutPage() MenuPage {
	return MenuPage{Title: "Club Information", Image: MenuImage, Body: "page_about"}
}

// EditPage is rendered by edit.html. Exactly one of Article and Newspaper is set.
type EditPage struct {
	Edit      bool
	Article   *models.Article
	Newspaper *models.Paper
	Papers    []models.PaperSummary
}

// MessagePage is a page carrying only a title, used for not-found results
type MessagePage struct {
	Title string
}

// FormatDate renders unix seconds the way article bylines show them
func FormatDate(unix uint64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(int64(unix), 0).UTC().Format("January 2, 2006")
}
