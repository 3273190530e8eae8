package handlers

import (
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

// ForumHandler serves the forum dashboard.
type ForumHandler struct {
	forum *services.ForumService
}

func NewForumHandler(forum *services.ForumService) *ForumHandler {
	return &ForumHandler{forum: forum}
}

// List returns every thread, pinned first.
func (h *ForumHandler) List(c *gin.Context) {
	threads, err := h.forum.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list threads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

// Get returns one thread.
func (h *ForumHandler) Get(c *gin.Context) {
	thread, err := h.forum.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load thread"})
		return
	}
	if thread == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}
	c.JSON(http.StatusOK, thread)
}

type createThreadRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Body   string `json:"body"`
}

// Create stores a new thread.
func (h *ForumHandler) Create(c *gin.Context) {
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	thread, err := h.forum.Create(c.Request.Context(), req.Title, req.Author, req.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, thread)
}

type updateThreadRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	IsPinned bool   `json:"isPinned"`
	IsLocked bool   `json:"isLocked"`
}

// Update replaces a thread's editable fields.
func (h *ForumHandler) Update(c *gin.Context) {
	var req updateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	thread, err := h.forum.Update(c.Request.Context(), c.Param("id"), req.Title, req.Body, req.IsPinned, req.IsLocked)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, thread)
}

// Delete removes a thread. Admin only.
func (h *ForumHandler) Delete(c *gin.Context) {
	if err := h.forum.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
