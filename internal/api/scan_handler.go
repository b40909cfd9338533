package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/barcode"
	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/service"
)

// ScanHandler handles scan endpoints
type ScanHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(services *service.Services, log zerolog.Logger) *ScanHandler {
	return &ScanHandler{
		services: services,
		log:      log.With().Str("handler", "scan").Logger(),
	}
}

// ScanText handles POST /v1/scans
// The client (usually a browser-side scanner) already decoded the
// barcode; the body carries the payload text plus the categories to mark.
func (h *ScanHandler) ScanText(c *gin.Context) {
	var req struct {
		Text       string   `json:"text" binding:"required"`
		Categories []string `json:"categories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	h.mark(c, req.Text, req.Categories)
}

// ScanImage handles POST /v1/scans/image
// Accepts a multipart image upload, decodes the barcode server-side and
// marks attendance from the embedded payload.
func (h *ScanHandler) ScanImage(c *gin.Context) {
	ctx := c.Request.Context()

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image field required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	text, err := h.services.Codes.DecodeImage(ctx, data)
	if err != nil {
		if errors.Is(err, barcode.ErrNoCode) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no barcode decoded from image"})
			return
		}
		h.log.Error().Err(err).Msg("Image decode failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.mark(c, text, c.PostFormArray("categories"))
}

// mark parses the payload, resolves the identifier and marks the
// requested categories (all of them when none are given).
func (h *ScanHandler) mark(c *gin.Context, text string, categoryNames []string) {
	ctx := c.Request.Context()

	payload, err := barcode.ParsePayload(text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload is not valid JSON"})
		return
	}

	identifier := payload.Identifier()
	if identifier == "" {
		// an empty identifier would match every row with a blank
		// name; reject it at the boundary
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload has no id or name"})
		return
	}

	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category(name))
	}
	if len(categories) == 0 {
		categories = models.Categories
	}

	result, err := h.services.Attendance.Mark(ctx, identifier, categories)
	if err != nil {
		var noMatch *service.NoMatchError
		var unknown *service.UnknownCategoryError
		switch {
		case errors.As(err, &noMatch):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			respondRosterError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"identifier": identifier,
		"payload":    payload,
		"result":     result,
	})
}
