package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slide-generator/internal/model"
	"slide-generator/internal/service"
)

// PptxContentType is the MIME type of downloaded documents.
const PptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// PresentationHandler serves the presentations API.
type PresentationHandler struct {
	svc    service.PresentationService
	logger *zap.Logger
}

func NewPresentationHandler(svc service.PresentationService, logger *zap.Logger) *PresentationHandler {
	return &PresentationHandler{
		svc:    svc,
		logger: logger.Named("PresentationHandler"),
	}
}

// RegisterRoutes mounts the routes on group (normally the rate limited API prefix group).
func (h *PresentationHandler) RegisterRoutes(group *gin.RouterGroup) {
	presentations := group.Group("/presentations")
	{
		presentations.POST("", h.createPresentation)
		presentations.GET("/:id", h.getPresentation)
		presentations.GET("/:id/download", h.downloadPresentation)
		presentations.POST("/:id/configure", h.configurePresentation)
		presentations.DELETE("/:id", h.deletePresentation)
	}
}

type createPresentationRequest struct {
	Topic  string                   `json:"topic"`
	Config model.PresentationConfig `json:"config"`
}

func (h *PresentationHandler) createPresentation(c *gin.Context) {
	var req createPresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, model.ErrInvalidConfig) {
			handleServiceError(c, err)
			return
		}
		handleServiceError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req.Topic, req.Config)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	presentationsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, model.CreatedResponse{
		ID:      p.ID,
		Message: "Presentation created successfully",
	})
}

func (h *PresentationHandler) getPresentation(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PresentationHandler) downloadPresentation(c *gin.Context) {
	doc, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer doc.Close()

	downloadsTotal.Inc()
	c.DataFromReader(http.StatusOK, doc.Size, PptxContentType, doc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, doc.Name),
	})
}

// configurePresentation принимает ключи конфига на верхнем уровне тела;
// тело вида {"config": {...}} тоже принимается.
func (h *PresentationHandler) configurePresentation(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		handleServiceError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}
	patch, err := parseConfigPatch(body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if _, err := h.svc.Configure(c.Request.Context(), c.Param("id"), patch); err != nil {
		handleServiceError(c, err)
		return
	}
	presentationsConfiguredTotal.Inc()
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Presentation configuration updated successfully"})
}

func parseConfigPatch(body []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: request body is required", model.ErrInvalidInput)
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil || patch == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", model.ErrInvalidConfig)
	}
	if inner, ok := patch["config"]; ok && len(patch) == 1 {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(inner, &nested); err == nil && nested != nil {
			return nested, nil
		}
	}
	return patch, nil
}

func (h *PresentationHandler) deletePresentation(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	presentationsDeletedTotal.Inc()
	c.Status(http.StatusNoContent)
}
