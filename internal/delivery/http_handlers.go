package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"adsstudio/internal/domain"
	"adsstudio/internal/usecase"
	"adsstudio/pkg/logger"

	"github.com/gin-gonic/gin"
)

// handles HTTP requests
type HTTPHandlers struct {
	studio *usecase.StudioService
	logger *logger.Logger
}

// creates new HTTP handlers
func NewHTTPHandlers(studio *usecase.StudioService, logger *logger.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		studio: studio,
		logger: logger,
	}
}

type normalizeURLRequest struct {
	URL string `json:"url"`
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_version": "v1",
		"service":     "Ads Studio",
		"version":     "1.0.0",
		"description": "Campaign form normalization and ad preview generation",
		"endpoints": gin.H{
			"defaults":  "GET /api/v1/form/defaults",
			"normalize": []string{"POST /api/v1/normalize/url", "POST /api/v1/normalize/payload"},
			"images":    "POST /api/v1/images/encode (multipart field: file)",
			"sessions": []string{
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/submit",
				"POST /api/v1/sessions/:id/reset",
				"GET /api/v1/sessions/:id/plan",
				"POST /api/v1/sessions/:id/plan/export",
			},
		},
		"request_id": c.GetString("request_id"),
	})
}

// GetDefaultForm returns the form an operator starts from
func (h *HTTPHandlers) GetDefaultForm(c *gin.Context) {
	c.JSON(http.StatusOK, domain.DefaultCampaignForm())
}

// NormalizeURL applies the website heuristic on demand
func (h *HTTPHandlers) NormalizeURL(c *gin.Context) {
	var req normalizeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": usecase.NormalizeURL(req.URL)})
}

// NormalizePayload previews the body that a submit would send
func (h *HTTPHandlers) NormalizePayload(c *gin.Context) {
	var form domain.CampaignForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.badRequest(c, "Invalid campaign form", err)
		return
	}

	response := gin.H{
		"payload": usecase.CleanPayload(form),
		"valid":   true,
	}
	if err := usecase.Validate(form); err != nil {
		response["valid"] = false
		response["error"] = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

// EncodeImage converts an uploaded image into a data URL
func (h *HTTPHandlers) EncodeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "Missing file", err)
		return
	}

	limit := int64(h.studio.MaxImageBytes())
	if limit > 0 && fileHeader.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":      "Image too large",
			"message":    fmt.Sprintf("image %q is %d bytes, limit is %d", fileHeader.Filename, fileHeader.Size, limit),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.badRequest(c, "Unreadable file", err)
		return
	}
	defer file.Close()

	// one byte past the limit lets the encoder report the overflow
	var reader io.Reader = file
	if limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		h.badRequest(c, "Unreadable file", err)
		return
	}

	image, err := h.studio.EncodeImage(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "Invalid image",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}

	c.JSON(http.StatusOK, image)
}

// CreateSession opens a session on the default form
func (h *HTTPHandlers) CreateSession(c *gin.Context) {
	session, err := h.studio.NewSession(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to create session", err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession returns the form snapshot and submission state
func (h *HTTPHandlers) GetSession(c *gin.Context) {
	ctx := h.sessionContext(c)

	session, err := h.studio.GetSession(ctx, c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SubmitSession validates the posted form and calls the generation service.
// Validation and service failures are part of the returned state, not HTTP errors.
func (h *HTTPHandlers) SubmitSession(c *gin.Context) {
	ctx := h.sessionContext(c)

	var form domain.CampaignForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.badRequest(c, "Invalid campaign form", err)
		return
	}

	session, err := h.studio.SubmitSession(ctx, c.Param("id"), form)
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ResetSession restores defaults and discards the result
func (h *HTTPHandlers) ResetSession(c *gin.Context) {
	ctx := h.sessionContext(c)

	session, err := h.studio.ResetSession(ctx, c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DownloadPlan serves the last plan as a JSON attachment
func (h *HTTPHandlers) DownloadPlan(c *gin.Context) {
	ctx := h.sessionContext(c)

	name, data, err := h.studio.PlanDocument(ctx, c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", data)
}

// ExportPlan pushes the last plan to the configured sink
func (h *HTTPHandlers) ExportPlan(c *gin.Context) {
	ctx := h.sessionContext(c)

	name, err := h.studio.ExportPlan(ctx, c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Plan exported successfully",
		"name":       name,
		"request_id": c.GetString("request_id"),
	})
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "ads-studio",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) sessionContext(c *gin.Context) context.Context {
	return context.WithValue(c.Request.Context(), logger.SessionIDKey, c.Param("id"))
}

// maps service errors to HTTP statuses
func (h *HTTPHandlers) sessionError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Session not found",
			"message":    err.Error(),
			"request_id": requestID,
		})
	case errors.Is(err, domain.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Submission in progress",
			"message":    err.Error(),
			"request_id": requestID,
		})
	case errors.Is(err, domain.ErrNoPlan):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "No plan available",
			"message":    "submit the campaign successfully before downloading its plan",
			"request_id": requestID,
		})
	case errors.Is(err, domain.ErrSinkNotSet):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "Export not configured",
			"message":    err.Error(),
			"request_id": requestID,
		})
	default:
		h.internalError(c, "Request failed", err)
	}
}

func (h *HTTPHandlers) badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      message,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) internalError(c *gin.Context, message string, err error) {
	h.logger.WithContext(c.Request.Context()).WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      message,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
