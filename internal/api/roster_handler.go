package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/event-checkin-api/internal/config"
	"github.com/event-checkin-api/internal/models"
	"github.com/event-checkin-api/internal/roster"
	"github.com/event-checkin-api/internal/service"
)

// RosterHandler handles roster endpoints
type RosterHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewRosterHandler creates a new RosterHandler
func NewRosterHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "roster").Logger(),
	}
}

// GetRoster handles GET /v1/roster?q=...
// Returns the session roster, optionally filtered by a case-insensitive
// name/team substring.
func (h *RosterHandler) GetRoster(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.services.Roster.Summary(ctx)
	if err != nil {
		respondRosterError(c, err)
		return
	}

	rows, err := h.services.Roster.Rows(ctx, c.Query("q"))
	if err != nil {
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"rows":    rows,
	})
}

// UploadRoster handles POST /v1/roster
// Accepts a multipart CSV/XLS/XLSX upload and replaces the session roster
func (h *RosterHandler) UploadRoster(c *gin.Context) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Roster.MaxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required (CSV or XLSX)"})
		return
	}
	defer file.Close()

	sessionID, err := h.services.Roster.Upload(ctx, header.Filename, file)
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("Upload failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.services.Roster.Summary(ctx)
	if err != nil {
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"summary":    summary,
	})
}

// ToggleFlag handles POST /v1/roster/rows/:index/flags
func (h *RosterHandler) ToggleFlag(c *gin.Context) {
	ctx := c.Request.Context()

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row index must be an integer"})
		return
	}

	var req struct {
		Category string `json:"category" binding:"required"`
		Value    *bool  `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and value are required"})
		return
	}

	if err := h.services.Roster.Toggle(ctx, index, models.Category(req.Category), *req.Value); err != nil {
		var unknown *service.UnknownCategoryError
		switch {
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, roster.ErrRowOutOfRange):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			respondRosterError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"row":      index,
		"category": req.Category,
		"value":    *req.Value,
	})
}

// SaveRoster handles POST /v1/roster/save
// Overwrites the session's source CSV in place
func (h *RosterHandler) SaveRoster(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.services.Roster.Save(ctx); err != nil {
		if errors.Is(err, roster.ErrReadOnlySource) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "roster has no writable CSV source; use export instead",
			})
			return
		}
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "roster saved"})
}

// ExportRoster handles GET /v1/roster/export?format=csv|xlsx
func (h *RosterHandler) ExportRoster(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, xlsx"})
		return
	}

	var err error
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=roster_with_attendance.csv")
		err = h.services.Roster.ExportCSV(ctx, c.Writer)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=roster_with_attendance.xlsx")
		err = h.services.Roster.ExportXLSX(ctx, c.Writer)
	}
	if err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}

// respondRosterError maps roster-session errors to HTTP responses
func respondRosterError(c *gin.Context, err error) {
	if errors.Is(err, roster.ErrNoRoster) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "no roster loaded; upload one via POST /v1/roster",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
