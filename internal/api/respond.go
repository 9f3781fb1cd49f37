package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/rs/zerolog"
)

const (
	flashCookie = "flash"

	flashSuccess = "success"
	flashInfo    = "info"
	flashError   = "error"

	msgAccessDenied = "You do not have permission to access this page."
)

// Flash is a one-shot message carried across a redirect
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// respondError writes {"error": msg} with the status the error maps to.
// Unexpected errors are logged and reported generically.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := errs.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": errs.Message(err)})
}

// setFlash stores a message for the next page render
func setFlash(c *gin.Context, category, message string) {
	c.SetCookie(flashCookie, category+":"+message, 60, "/", "", false, true)
}

// popFlash returns and clears the pending flash message, if any
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	category, message, ok := strings.Cut(raw, ":")
	if !ok {
		return &Flash{Category: flashInfo, Message: raw}
	}
	return &Flash{Category: category, Message: message}
}

// redirectWithFlash sets a flash message and redirects the browser
func redirectWithFlash(c *gin.Context, location, category, message string) {
	setFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// pageError handles a failure on a browser route. Authorization failures
// redirect with a flash; everything else is reported as JSON.
func pageError(c *gin.Context, log zerolog.Logger, err error, location, deniedMessage string) {
	if errs.IsForbidden(err) {
		redirectWithFlash(c, location, flashError, deniedMessage)
		return
	}
	respondError(c, log, err)
}

// parseID reads the :id path parameter; a non-integer id is a 404
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, falling back to def
// when it is absent or malformed
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// queryID reads an optional positive id query parameter
func queryID(c *gin.Context, key string) *int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// referrerOr returns the Referer header when present, otherwise fallback
func referrerOr(c *gin.Context, fallback string) string {
	if ref := c.GetHeader("Referer"); ref != "" {
		return ref
	}
	return fallback
}
