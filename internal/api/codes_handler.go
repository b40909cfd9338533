package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/service"
)

// CodesHandler handles barcode generation endpoints
type CodesHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCodesHandler creates a new CodesHandler
func NewCodesHandler(services *service.Services, log zerolog.Logger) *CodesHandler {
	return &CodesHandler{
		services: services,
		log:      log.With().Str("handler", "codes").Logger(),
	}
}

// GenerateCodes handles POST /v1/codes
// Renders one barcode PNG per roster row into the output directory
func (h *CodesHandler) GenerateCodes(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.services.Codes.Generate(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Code generation failed")
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// DownloadArchive handles GET /v1/codes/archive
// Streams a zip bundle of all generated PNGs
func (h *CodesHandler) DownloadArchive(c *gin.Context) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", "attachment; filename=qrcodes.zip")

	if err := h.services.Codes.Bundle(ctx, c.Writer); err != nil {
		h.log.Error().Err(err).Msg("Bundle failed")
		// Can't return error JSON after streaming has started
		return
	}
}

// DownloadManifest handles GET /v1/codes/manifest
// Streams the printing manifest CSV (Team Name, Name, QR path)
func (h *CodesHandler) DownloadManifest(c *gin.Context) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=qr_manifest.csv")

	if err := h.services.Codes.Manifest(ctx, c.Writer); err != nil {
		h.log.Error().Err(err).Msg("Manifest failed")
		return
	}
}
