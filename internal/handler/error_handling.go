package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slide-generator/internal/model"
)

// statusForKind is the fixed mapping from error kind to HTTP status.
var statusForKind = map[model.ErrorKind]int{
	model.KindValidation:    http.StatusBadRequest,
	model.KindNotFound:      http.StatusNotFound,
	model.KindRateLimited:   http.StatusTooManyRequests,
	model.KindUpstream:      http.StatusInternalServerError,
	model.KindSerialization: http.StatusInternalServerError,
	model.KindInternal:      http.StatusInternalServerError,
}

func handleServiceError(c *gin.Context, err error) {
	kind := model.KindOf(err)
	statusCode, ok := statusForKind[kind]
	if !ok {
		kind, statusCode = model.KindInternal, http.StatusInternalServerError
	}
	errResp := model.ErrorResponse{Code: kind}

	switch {
	case errors.Is(err, model.ErrTopicRequired):
		errResp.Error = "Topic is required"
	case errors.Is(err, model.ErrNotFound):
		errResp.Error = "Presentation not found"
	case kind == model.KindValidation, kind == model.KindUpstream, kind == model.KindRateLimited:
		errResp.Error = err.Error()
	case kind == model.KindSerialization:
		zap.L().Error("Presentation serialization failed", zap.Error(err))
		errResp.Error = "Failed to build or store the presentation file"
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		errResp.Error = "An unexpected internal error occurred"
	}

	if statusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	requestErrorsTotal.WithLabelValues(string(kind)).Inc()
	c.AbortWithStatusJSON(statusCode, errResp)
}
