package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

const articlesPage = "/kb/articles/"

// ArticleHandler handles article pages and the article JSON API
type ArticleHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Dashboard handles GET /kb/articles/dashboard
func (h *ArticleHandler) Dashboard(c *gin.Context) {
	d, err := h.services.Dashboard.Get(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d, "flash": popFlash(c)})
}

// Approvals handles GET /kb/articles/admin/approvals
func (h *ArticleHandler) Approvals(c *gin.Context) {
	q, err := h.services.Article.ReviewQueue(c.Request.Context(), actorFrom(c))
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": q, "flash": popFlash(c)})
}

// ListPage handles GET /kb/articles/
func (h *ArticleHandler) ListPage(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFrom(c)
	filter := models.ArticleFilter{
		Search:     c.Query("search"),
		CategoryID: queryID(c, "category_id"),
		Limit:      service.MaxListLimit,
	}

	articles, err := h.services.Article.List(ctx, actor, filter)
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	categories, err := h.services.Category.List(ctx, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":          models.Summaries(articles),
		"categories":        categories,
		"selected_category": filter.CategoryID,
		"search_query":      filter.Search,
		"flash":             popFlash(c),
	})
}

// ViewPage handles GET /kb/articles/:id and counts a view
func (h *ArticleHandler) ViewPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := h.services.Article.View(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		pageError(c, h.log, err, articlesPage, "You do not have permission to view this article.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article, "flash": popFlash(c)})
}

// Approve handles POST /kb/articles/:id/approve
func (h *ArticleHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Approve(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	redirectWithFlash(c, referrerOr(c, articlesPage), flashSuccess,
		fmt.Sprintf("Article %q has been published!", article.Title))
}

// Reject handles POST /kb/articles/:id/reject
func (h *ArticleHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Reject(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	redirectWithFlash(c, referrerOr(c, articlesPage), flashInfo,
		fmt.Sprintf("Article %q has been returned to draft.", article.Title))
}

// DeleteForm handles POST /kb/articles/api/:id, the form variant of delete
func (h *ArticleHandler) DeleteForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Delete(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		pageError(c, h.log, err, h.cfg.Server.DashboardPath, msgAccessDenied)
		return
	}
	redirectWithFlash(c, articlesPage, flashSuccess,
		fmt.Sprintf("Article %q has been deleted successfully!", article.Title))
}

// List handles GET /kb/articles/api
func (h *ArticleHandler) List(c *gin.Context) {
	filter := models.ArticleFilter{
		Search:     c.Query("search"),
		CategoryID: queryID(c, "category_id"),
		Status:     models.ArticleStatus(c.Query("status")),
		Limit:      queryInt(c, "limit", service.DefaultListLimit),
		Offset:     queryInt(c, "offset", 0),
	}
	articles, err := h.services.Article.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Summaries(articles))
}

// Get handles GET /kb/articles/api/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /kb/articles/api
func (h *ArticleHandler) Create(c *gin.Context) {
	var in models.ArticleCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	article, err := h.services.Article.Create(c.Request.Context(), actorFrom(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /kb/articles/api/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	patch, err := decodeArticlePatch(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	article, err := h.services.Article.Update(c.Request.Context(), actorFrom(c), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /kb/articles/api/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.services.Article.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit handles POST /kb/articles/api/:id/submit
func (h *ArticleHandler) Submit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	article, err := h.services.Article.Submit(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Recent handles GET /kb/articles/api/recent
func (h *ArticleHandler) Recent(c *gin.Context) {
	articles, err := h.services.Article.Recent(c.Request.Context(), actorFrom(c), queryInt(c, "limit", service.DefaultFeedLimit))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Summaries(articles))
}

// Popular handles GET /kb/articles/api/popular
func (h *ArticleHandler) Popular(c *gin.Context) {
	articles, err := h.services.Article.Popular(c.Request.Context(), actorFrom(c), queryInt(c, "limit", service.DefaultFeedLimit))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.Summaries(articles))
}

// UploadImage handles POST /kb/articles/api/upload-image
func (h *ArticleHandler) UploadImage(c *gin.Context) {
	fail := func(err error) {
		status := errs.StatusCode(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Msg("Image upload failed")
		}
		c.JSON(status, gin.H{"success": false, "error": errs.Message(err)})
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		// a field sent without a filename arrives as a plain form value
		if form := c.Request.MultipartForm; form != nil && len(form.Value["image"]) > 0 {
			_, err = h.services.Image.Upload(c.Request.Context(), actorFrom(c), "", strings.NewReader(""))
		} else {
			_, err = h.services.Image.Upload(c.Request.Context(), actorFrom(c), "", nil)
		}
		fail(err)
		return
	}
	defer file.Close()

	res, err := h.services.Image.Upload(c.Request.Context(), actorFrom(c), header.Filename, file)
	if err != nil {
		fail(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// decodeArticlePatch reads a partial update, distinguishing an absent
// foreign key from an explicit null
func decodeArticlePatch(c *gin.Context) (*models.ArticlePatch, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
		return nil, errs.NewBadRequestError("Invalid JSON body").WithCause(err)
	}

	patch := &models.ArticlePatch{}
	strField := func(key string, dst **string) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return errs.NewBadRequestError(key + " must be a string").WithField(key)
		}
		if s == nil {
			empty := ""
			s = &empty
		}
		*dst = s
		return nil
	}
	idField := func(key string, dst *models.OptionalID) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		var id *int64
		if err := json.Unmarshal(v, &id); err != nil {
			return errs.NewBadRequestError(key + " must be an integer or null").WithField(key)
		}
		*dst = models.OptionalID{Set: true, Value: id}
		return nil
	}

	for _, f := range []struct {
		key string
		dst **string
	}{
		{"title", &patch.Title},
		{"body", &patch.Body},
		{"tags", &patch.Tags},
		{"attachments", &patch.Attachments},
		{"status", &patch.Status},
	} {
		if err := strField(f.key, f.dst); err != nil {
			return nil, err
		}
	}
	if err := idField("category_id", &patch.CategoryID); err != nil {
		return nil, err
	}
	if err := idField("supplier_id", &patch.SupplierID); err != nil {
		return nil, err
	}
	return patch, nil
}
