// Package api is the HTTP adapter: it translates requests into calls on the
// validation core and records outcomes in the audit log.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/upload-gatekeeper/internal/filename"
	"github.com/garyjia/upload-gatekeeper/internal/repository"
	"github.com/garyjia/upload-gatekeeper/internal/upload"
)

// ValidateRequest is the body of a validation call
type ValidateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// ValidateResponse reports the validation outcome
type ValidateResponse struct {
	Field  string `json:"field"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// MovedNameRequest asks for the canonical storage name of an upload reference
type MovedNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// MovedNameResponse carries the decomposed name and its storage form
type MovedNameResponse struct {
	DisplayName string `json:"display_name"`
	UniqueID    string `json:"unique_id"`
	Extension   string `json:"extension"`
	MovedName   string `json:"moved_name"`
}

// Handler handles upload validation requests
type Handler struct {
	validator *upload.Validator
	audit     *repository.ValidationAuditRepository
	logger    *zap.Logger
}

// NewHandler creates a new handler. audit may be nil, in which case attempts
// are not recorded.
func NewHandler(validator *upload.Validator, audit *repository.ValidationAuditRepository, logger *zap.Logger) *Handler {
	return &Handler{
		validator: validator,
		audit:     audit,
		logger:    logger,
	}
}

// Validate processes POST /api/v1/uploads/validate
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and value are required"})
		return
	}

	outcome := h.validator.Check(c.Request.Context(), req.Field, req.Value)

	h.recordAttempt(c, req, outcome)

	c.JSON(http.StatusOK, ValidateResponse{
		Field:  req.Field,
		Valid:  outcome.Valid,
		Reason: string(outcome.Reason),
	})
}

// MovedName processes POST /api/v1/uploads/moved-name
func (h *Handler) MovedName(c *gin.Context) {
	var req MovedNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	parsed, err := filename.Parse(req.Name)
	if err != nil {
		h.logger.Debug("Rejected malformed upload name", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "name carries no unique identifier"})
		return
	}

	c.JSON(http.StatusOK, MovedNameResponse{
		DisplayName: parsed.DisplayName,
		UniqueID:    parsed.UniqueID,
		Extension:   parsed.Extension,
		MovedName:   parsed.MovedFileName(),
	})
}

// ListAttempts processes GET /api/v1/uploads/attempts
func (h *Handler) ListAttempts(c *gin.Context) {
	if h.audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit log disabled"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = parsed
	}

	attempts, err := h.audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list validation attempts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// Health processes GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// recordAttempt writes the outcome to the audit log; failures are logged and
// never affect the response.
func (h *Handler) recordAttempt(c *gin.Context, req ValidateRequest, outcome upload.Outcome) {
	if h.audit == nil {
		return
	}

	attempt := &repository.ValidationAttempt{
		Field:  req.Field,
		Value:  req.Value,
		Valid:  outcome.Valid,
		Reason: string(outcome.Reason),
	}
	if err := h.audit.Record(c.Request.Context(), attempt); err != nil {
		h.logger.Warn("Failed to record validation attempt", zap.Error(err))
	}
}
