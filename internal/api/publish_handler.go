package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/models"
	"github.com/school-news-site/internal/service"
	"github.com/school-news-site/internal/validation"
)

// Plain-text replies read by the editor pages
const (
	msgArticlePublished = "Article Published!"
	msgPaperPublished   = "Newspaper Published!"
	msgIncorrectCode    = "Incorrect Code!"
	msgCodeSent         = "Code Sent"
	msgUnexpectedError  = "Unexpected Error"
)

// PublishHandler handles the /api endpoints
type PublishHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPublishHandler creates a new PublishHandler
func NewPublishHandler(services *service.Services, log zerolog.Logger) *PublishHandler {
	return &PublishHandler{
		services: services,
		log:      log.With().Str("handler", "publish").Logger(),
	}
}

// PublishArticle handles POST /api/publish
func (h *PublishHandler) PublishArticle(c *gin.Context) {
	var req models.PublishArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if _, err := h.services.Publish.PublishArticle(c.Request.Context(), &req); err != nil {
		h.publishError(c, err)
		return
	}
	c.String(http.StatusOK, msgArticlePublished)
}

// CreatePaper handles POST /api/create_paper
func (h *PublishHandler) CreatePaper(c *gin.Context) {
	var req models.CreatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if _, err := h.services.Publish.CreatePaper(c.Request.Context(), &req); err != nil {
		h.publishError(c, err)
		return
	}
	c.String(http.StatusOK, msgPaperPublished)
}

// GetArticle handles GET /api/article/:id.
// Unknown ids answer with the placeholder article rather than an error.
func (h *PublishHandler) GetArticle(c *gin.Context) {
	article, err := h.services.Content.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Str("article_id", c.Param("id")).Msg("Failed to get article")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get article"})
		return
	}
	if article == nil {
		c.JSON(http.StatusOK, models.InvalidArticle())
		return
	}
	c.JSON(http.StatusOK, article)
}

// ResendCode handles GET /api/resend_code
func (h *PublishHandler) ResendCode(c *gin.Context) {
	if err := h.services.Credential.Resend(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Failed to resend publishing code")
		c.String(http.StatusInternalServerError, msgUnexpectedError)
		return
	}
	c.String(http.StatusOK, msgCodeSent)
}

func (h *PublishHandler) publishError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, service.ErrIncorrectCode):
		c.String(http.StatusUnauthorized, msgIncorrectCode)
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verrs})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Publish failed")
		c.String(http.StatusInternalServerError, msgUnexpectedError)
	}
}
