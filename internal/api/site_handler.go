package api

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/school-news-site/internal/config"
	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/service"
	"github.com/school-news-site/internal/site"
)

// SiteHandler renders the public and editor pages
type SiteHandler struct {
	services *service.Services
	cfg      config.SiteConfig
	static   http.FileSystem
	log      zerolog.Logger
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(services *service.Services, cfg config.SiteConfig, log zerolog.Logger) *SiteHandler {
	h := &SiteHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "site").Logger(),
	}
	if cfg.StaticDir != "" {
		h.static = http.Dir(cfg.StaticDir)
	}
	return h
}

// Home handles GET /
func (h *SiteHandler) Home(c *gin.Context) {
	papers, err := h.services.Content.ListPapers(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to list papers")
		return
	}
	c.HTML(http.StatusOK, site.TemplateMenu, site.HomePage(papers))
}

// About handles GET /about
func (h *SiteHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, site.TemplateMenu, site.AboutPage())
}

// Submissions handles GET /submissions
func (h *SiteHandler) Submissions(c *gin.Context) {
	c.HTML(http.StatusOK, site.TemplateMenu, site.SubmissionsPage(h.cfg.SubmissionURL))
}

// ReadArticle handles GET /read/:id
func (h *SiteHandler) ReadArticle(c *gin.Context) {
	ctx := c.Request.Context()

	article, err := h.services.Content.GetArticle(ctx, c.Param("id"))
	if err != nil {
		h.serverError(c, err, "Failed to get article")
		return
	}
	if article == nil {
		h.message(c, http.StatusOK, site.TitleArticleNotFound)
		return
	}

	paper, err := h.services.Content.GetPaper(ctx, article.Paper)
	if err != nil {
		h.serverError(c, err, "Failed to get paper")
		return
	}
	c.HTML(http.StatusOK, site.TemplateArticle, site.NewArticlePage(article, paper))
}

// FeaturedIssue handles GET /newspaper/:paper by redirecting to the featured issue.
// Unknown papers are sent to issue 404, which renders the not-found page.
func (h *SiteHandler) FeaturedIssue(c *gin.Context) {
	id := c.Param("paper")

	paper, err := h.services.Content.GetPaper(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "Failed to get paper")
		return
	}

	issue := uint64(http.StatusNotFound)
	if paper != nil {
		issue = paper.FeaturedIssue
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/newspaper/%s/%d", id, issue))
}

// Issue handles GET /newspaper/:paper/:issue
func (h *SiteHandler) Issue(c *gin.Context) {
	ctx := c.Request.Context()

	issue, err := strconv.ParseUint(c.Param("issue"), 10, 64)
	if err != nil {
		h.NotFound(c)
		return
	}

	paper, err := h.services.Content.GetPaper(ctx, c.Param("paper"))
	if err != nil {
		h.serverError(c, err, "Failed to get paper")
		return
	}
	if paper == nil {
		h.message(c, http.StatusOK, site.TitleNewspaperNotFound)
		return
	}

	columns := make([][]*models.Article, 3)
	g, gctx := errgroup.WithContext(ctx)
	for i, column := range []uint8{models.ColumnHeadline, models.ColumnLeft, models.ColumnRight} {
		i, column := i, column
		g.Go(func() error {
			articles, err := h.services.Content.ListColumn(gctx, paper.ID, issue, column)
			if err != nil {
				return err
			}
			columns[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.serverError(c, err, "Failed to list issue")
		return
	}

	c.HTML(http.StatusOK, site.TemplateNewspaper, site.IssuePage{
		ID:        paper.ID,
		Logo:      paper.Logo,
		Title:     paper.Name,
		Issue:     issue,
		Headlines: site.NewPreviews(columns[0]),
		Left:      site.NewPreviews(columns[1]),
		Right:     site.NewPreviews(columns[2]),
	})
}

// Feed handles GET /newspaper/:paper/feed.xml with the featured issue as RSS
func (h *SiteHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()

	paper, err := h.services.Content.GetPaper(ctx, c.Param("paper"))
	if err != nil {
		h.serverError(c, err, "Failed to get paper")
		return
	}
	if paper == nil {
		h.NotFound(c)
		return
	}

	issue := paper.FeaturedIssue
	articles, err := h.services.Content.ListArticles(ctx, models.ArticleFilter{Paper: &paper.ID, Issue: &issue})
	if err != nil {
		h.serverError(c, err, "Failed to list issue")
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	if err := site.IssueFeed(h.baseURL(c), paper, issue, articles).WriteRss(c.Writer); err != nil {
		h.log.Error().Err(err).Str("paper_id", paper.ID).Msg("Failed to write feed")
	}
}

// Sitemap handles GET /sitemap.xml
func (h *SiteHandler) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()

	papers, err := h.services.Content.ListPapers(ctx)
	if err != nil {
		h.serverError(c, err, "Failed to list papers")
		return
	}
	articles, err := h.services.Content.ListArticles(ctx, models.ArticleFilter{})
	if err != nil {
		h.serverError(c, err, "Failed to list articles")
		return
	}

	xml, err := site.Sitemap(h.baseURL(c), papers, articles)
	if err != nil {
		h.serverError(c, err, "Failed to build sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", xml)
}

// NewArticle handles GET /edit/article
func (h *SiteHandler) NewArticle(c *gin.Context) {
	papers, err := h.services.Content.PaperSummaries(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to list papers")
		return
	}
	c.HTML(http.StatusOK, site.TemplateEdit, site.EditPage{Article: &models.Article{}, Papers: papers})
}

// EditArticle handles GET /edit/article/:id
func (h *SiteHandler) EditArticle(c *gin.Context) {
	ctx := c.Request.Context()

	article, err := h.services.Content.GetArticle(ctx, c.Param("id"))
	if err != nil {
		h.serverError(c, err, "Failed to get article")
		return
	}
	if article == nil {
		h.message(c, http.StatusOK, site.TitleArticleNotFound)
		return
	}

	papers, err := h.services.Content.PaperSummaries(ctx)
	if err != nil {
		h.serverError(c, err, "Failed to list papers")
		return
	}
	c.HTML(http.StatusOK, site.TemplateEdit, site.EditPage{Edit: true, Article: article, Papers: papers})
}

// NewPaper handles GET /edit/newspaper
func (h *SiteHandler) NewPaper(c *gin.Context) {
	c.HTML(http.StatusOK, site.TemplateEdit, site.EditPage{Newspaper: &models.Paper{}})
}

// EditPaper handles GET /edit/newspaper/:id
func (h *SiteHandler) EditPaper(c *gin.Context) {
	paper, err := h.services.Content.GetPaper(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "Failed to get paper")
		return
	}
	if paper == nil {
		h.message(c, http.StatusOK, site.TitleNewspaperNotFound)
		return
	}
	c.HTML(http.StatusOK, site.TemplateEdit, site.EditPage{Edit: true, Newspaper: paper})
}

// NotFound serves a file from the static directory, or the 404 page
func (h *SiteHandler) NotFound(c *gin.Context) {
	if h.static != nil && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
		name := path.Clean("/" + c.Request.URL.Path)
		if f, err := h.static.Open(name); err == nil {
			info, statErr := f.Stat()
			f.Close()
			if statErr == nil && !info.IsDir() {
				c.FileFromFS(name, h.static)
				return
			}
		} else if !os.IsNotExist(err) {
			h.log.Warn().Err(err).Str("path", name).Msg("Failed to open static file")
		}
	}
	h.message(c, http.StatusNotFound, site.TitleWrongLink)
}

func (h *SiteHandler) message(c *gin.Context, status int, title string) {
	c.HTML(status, site.TemplateMessage, site.MessagePage{Title: title})
}

func (h *SiteHandler) serverError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.HTML(http.StatusInternalServerError, site.TemplateMessage, site.MessagePage{Title: msgUnexpectedError})
}

func (h *SiteHandler) baseURL(c *gin.Context) string {
	if h.cfg.BaseURL != "" {
		return h.cfg.BaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
