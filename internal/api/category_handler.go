package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

// CategoryHandler handles the category registry
type CategoryHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

// ListPage handles GET /kb/categories/
func (h *CategoryHandler) ListPage(c *gin.Context) {
	categories, err := h.services.Category.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "flash": popFlash(c)})
}

// List handles GET /kb/categories/api
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.services.Category.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Get handles GET /kb/categories/api/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.services.Category.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Create handles POST /kb/categories/api
func (h *CategoryHandler) Create(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	category, err := h.services.Category.Create(c.Request.Context(), actorFrom(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Update handles PUT /kb/categories/api/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	category, err := h.services.Category.Update(c.Request.Context(), actorFrom(c), id, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /kb/categories/api/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.services.Category.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
