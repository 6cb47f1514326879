package api

import (
	"net/http"
	"strconv"
	"strings"

	"Mnemo/internal/memory/service"
	"Mnemo/internal/models"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker func(c *gin.Context) error

// Handler exposes the memory engine's query operations over HTTP, for
// callers that prefer request/response over the notification bus.
type Handler struct {
	service *service.MemoryService
	health  map[string]HealthChecker
}

// NewHandler creates a new Handler instance.
func NewHandler(s *service.MemoryService, health map[string]HealthChecker) *Handler {
	return &Handler{service: s, health: health}
}

// GetFact handles GET /memory/facts/:key. Never-stored and expired facts
// are indistinguishable: both answer 404.
func (h *Handler) GetFact(c *gin.Context) {
	fact, err := h.service.RetrieveFact(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if fact == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fact not found"})
		return
	}
	c.JSON(http.StatusOK, fact)
}

// Search handles GET /memory/search?q=...&collections=facts,preferences&limit=5&floor=0.4
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'q'"})
		return
	}

	var collections []string
	if raw := c.Query("collections"); raw != "" {
		collections = strings.Split(raw, ",")
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	floor, _ := strconv.ParseFloat(c.DefaultQuery("floor", "0"), 64)

	results, err := h.service.Search(c.Request.Context(), query, collections, limit, floor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// Context handles GET /memory/context?message=... and returns the context
// bundle the response generator consumes.
func (h *Handler) Context(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'message'"})
		return
	}

	bundle, err := h.service.RetrieveContext(c.Request.Context(), message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// Visualization handles GET /memory/visualization?type=summary&filter=...
func (h *Handler) Visualization(c *gin.Context) {
	vizType := c.DefaultQuery("type", "summary")
	data, err := h.service.VisualizationData(c.Request.Context(), vizType, c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"type": vizType, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": vizType, "data": data})
}

// Export handles GET /memory/export.
func (h *Handler) Export(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Import handles POST /memory/import with an export document body.
func (h *Handler) Import(c *gin.Context) {
	var doc models.ExportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.service.Import(c.Request.Context(), &doc); err != nil {
		status := http.StatusInternalServerError
		if err == service.ErrMissingMetadata {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "metadata": doc.Metadata})
}

// Healthz handles GET /memory/healthz, pinging every registered backend.
func (h *Handler) Healthz(c *gin.Context) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.health))
	for name, check := range h.health {
		if err := check(c); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}
	c.JSON(status, checks)
}
