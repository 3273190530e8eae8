package handlers

import (
	"errors"
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/commonsforge/pagecraft-go/internal/domain/blocks"
	"github.com/commonsforge/pagecraft-go/internal/domain/dragdrop"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// EditorHandler exposes the page editor controller over HTTP. Each open
// editing surface is a server-side session addressed by id.
type EditorHandler struct {
	editor *services.EditorService
	logger *logging.ChanneledLogger
}

func NewEditorHandler(editor *services.EditorService, logger *logging.ChanneledLogger) *EditorHandler {
	return &EditorHandler{editor: editor, logger: logger}
}

type openSessionRequest struct {
	PageID string `json:"pageId"`
}

// Open starts an editing session over a page.
func (h *EditorHandler) Open(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.Open(c.Request.Context(), req.PageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get returns the current session snapshot.
func (h *EditorHandler) Get(c *gin.Context) {
	view, err := h.editor.Get(c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Close discards the session and its unsaved edits.
func (h *EditorHandler) Close(c *gin.Context) {
	h.editor.Close(c.Param("sessionId"))
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// DragStart begins a drag gesture.
func (h *EditorHandler) DragStart(c *gin.Context) {
	var item dragdrop.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.DragStart(c.Param("sessionId"), item)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DragOver updates the hover target; the response carries the indicator.
func (h *EditorHandler) DragOver(c *gin.Context) {
	var target dragdrop.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.DragOver(c.Param("sessionId"), target)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DragCancel abandons the gesture.
func (h *EditorHandler) DragCancel(c *gin.Context) {
	view, err := h.editor.DragCancel(c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DragEnd resolves the drop and applies the resulting document command.
func (h *EditorHandler) DragEnd(c *gin.Context) {
	var target dragdrop.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.DragEnd(c.Param("sessionId"), target)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type appendBlockRequest struct {
	TypeID string `json:"typeId"`
}

// AppendBlock places a new block at the end of the page.
func (h *EditorHandler) AppendBlock(c *gin.Context) {
	var req appendBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.AppendBlock(c.Param("sessionId"), req.TypeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type moveBlockRequest struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"`
}

// MoveBlock swaps a block with its up or down neighbor.
func (h *EditorHandler) MoveBlock(c *gin.Context) {
	var req moveBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	direction := blocks.DirectionUp
	if req.Direction == string(blocks.DirectionDown) {
		direction = blocks.DirectionDown
	}
	view, err := h.editor.MoveBlock(c.Param("sessionId"), req.Index, direction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type deleteBlockRequest struct {
	Index   int  `json:"index"`
	Confirm bool `json:"confirm"`
}

// DeleteBlock removes a block; the first call without confirm is rejected
// with 409 so the UI can prompt.
func (h *EditorHandler) DeleteBlock(c *gin.Context) {
	var req deleteBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.DeleteBlock(c.Param("sessionId"), req.Index, req.Confirm)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RenderForm returns the property-form fields for one placed block.
func (h *EditorHandler) RenderForm(c *gin.Context) {
	fields, err := h.editor.RenderForm(c.Param("sessionId"), c.Param("blockId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

type fieldChangeRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ChangeField applies one property-form field change.
func (h *EditorHandler) ChangeField(c *gin.Context) {
	var req fieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.ChangeBlockField(c.Param("sessionId"), c.Param("blockId"), req.Name, req.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type updatePropertiesRequest struct {
	Properties map[string]any `json:"properties"`
}

// UpdateProperties replaces a block's property bag wholesale.
func (h *EditorHandler) UpdateProperties(c *gin.Context) {
	var req updatePropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.UpdateBlockProperties(c.Param("sessionId"), c.Param("blockId"), req.Properties)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type listOpRequest struct {
	Name      string `json:"name"`
	Op        string `json:"op"` // add | remove | move
	Item      any    `json:"item"`
	Index     int    `json:"index"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
}

// ChangeList applies one composite-list operation (add, remove, move) to a
// block's list property.
func (h *EditorHandler) ChangeList(c *gin.Context) {
	var req listOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sessionID, blockID := c.Param("sessionId"), c.Param("blockId")

	var (
		view *services.SessionView
		err  error
	)
	switch req.Op {
	case "add":
		view, err = h.editor.ListFieldAdd(sessionID, blockID, req.Name, req.Item)
	case "remove":
		view, err = h.editor.ListFieldRemove(sessionID, blockID, req.Name, req.Index)
	case "move":
		view, err = h.editor.ListFieldMove(sessionID, blockID, req.Name, req.FromIndex, req.ToIndex)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown list operation"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type pageSettingsRequest struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	FontFamily  *string `json:"fontFamily"`
	BgColour    *string `json:"bgColour"`
}

// UpdateSettings edits page-level metadata within the session.
func (h *EditorHandler) UpdateSettings(c *gin.Context) {
	var req pageSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.editor.UpdatePageSettings(c.Param("sessionId"), req.Title, req.Slug,
		req.Description, req.FontFamily, req.BgColour)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save persists the working snapshot.
func (h *EditorHandler) Save(c *gin.Context) {
	view, err := h.editor.Save(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TogglePublish flips the publish state in the working copy; an explicit
// save persists it.
func (h *EditorHandler) TogglePublish(c *gin.Context) {
	view, err := h.editor.TogglePublish(c.Param("sessionId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *EditorHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "editor session not found"})
	case errors.Is(err, services.ErrPageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	case errors.Is(err, services.ErrConfirmationRequired):
		c.JSON(http.StatusConflict, gin.H{"error": "confirmation required", "confirmRequired": true})
	case errors.Is(err, services.ErrSessionLimitReached):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "editor session limit reached"})
	case errors.Is(err, services.ErrSaveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "a save is already in progress"})
	default:
		h.logger.Editor().Error("Editor request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "editor request failed"})
	}
}
