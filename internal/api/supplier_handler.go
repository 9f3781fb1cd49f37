package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

// SupplierHandler handles the supplier registry
type SupplierHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *SupplierHandler {
	return &SupplierHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "supplier").Logger(),
	}
}

// ListPage handles GET /kb/suppliers/
func (h *SupplierHandler) ListPage(c *gin.Context) {
	search := c.Query("search")
	suppliers, err := h.services.Supplier.List(c.Request.Context(), actorFrom(c), search)
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"suppliers":    suppliers,
		"search_query": search,
		"flash":        popFlash(c),
	})
}

// ViewPage handles GET /kb/suppliers/:id
func (h *SupplierHandler) ViewPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	supplier, err := h.services.Supplier.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplier, "flash": popFlash(c)})
}

// List handles GET /kb/suppliers/api
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.services.Supplier.List(c.Request.Context(), actorFrom(c), c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// Get handles GET /kb/suppliers/api/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	supplier, err := h.services.Supplier.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// Create handles POST /kb/suppliers/api
func (h *SupplierHandler) Create(c *gin.Context) {
	var in models.SupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	supplier, err := h.services.Supplier.Create(c.Request.Context(), actorFrom(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// Update handles PUT /kb/suppliers/api/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.SupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	supplier, err := h.services.Supplier.Update(c.Request.Context(), actorFrom(c), id, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// Delete handles DELETE /kb/suppliers/api/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.services.Supplier.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
