package handlers

import (
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

// RegistryHandler serves the block-type library.
type RegistryHandler struct {
	registry *services.RegistryService
}

func NewRegistryHandler(registry *services.RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// List returns every block-type schema for the mod library panel.
func (h *RegistryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"blockTypes": h.registry.ListSchemas()})
}

// Get returns one block-type schema by id.
func (h *RegistryHandler) Get(c *gin.Context) {
	typeID := c.Param("typeId")
	s, ok := h.registry.GetSchema(typeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown block type"})
		return
	}
	c.JSON(http.StatusOK, s)
}
