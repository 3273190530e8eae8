package handlers

import (
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// PageHandler serves page CRUD outside the editing session.
type PageHandler struct {
	pages  *services.PageService
	logger *logging.ChanneledLogger
}

func NewPageHandler(pages *services.PageService, logger *logging.ChanneledLogger) *PageHandler {
	return &PageHandler{pages: pages, logger: logger}
}

// List returns the page summaries for the dashboard overview.
func (h *PageHandler) List(c *gin.Context) {
	summaries, err := h.pages.List(c.Request.Context())
	if err != nil {
		h.logger.Content().Error("Failed to list pages", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": summaries})
}

// Get returns one full page document by id.
func (h *PageHandler) Get(c *gin.Context) {
	page, err := h.pages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	if page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetBySlug returns a page by its public slug, the render path for the
// site frontend.
func (h *PageHandler) GetBySlug(c *gin.Context) {
	page, err := h.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	if page == nil || !page.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, page)
}

type createPageRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Create stores a new empty page.
func (h *PageHandler) Create(c *gin.Context) {
	var req createPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	page, err := h.pages.Create(c.Request.Context(), req.Title, req.Slug)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, page)
}

// Delete removes a page permanently. Admin only.
func (h *PageHandler) Delete(c *gin.Context) {
	if err := h.pages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
