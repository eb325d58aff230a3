package httpapi

import (
	"context"
	"errors"
	"net/http"

	"outbound-caller/internal/calls"
	"outbound-caller/internal/dispatch"
	"outbound-caller/internal/script"
	"outbound-caller/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies; a call form is a few hundred bytes.
const MaxBodyBytes = 64 << 10

// Dispatcher is the part of dispatch.Service the handlers need.
type Dispatcher interface {
	Dispatch(ctx context.Context, input map[string]any) (dispatch.Result, error)
}

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: decode input, call the dispatch service, return JSON.
type Handlers struct {
	Dispatch Dispatcher
}

type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, failure{Success: false, Message: msg})
}

// CreateCall handles POST /api/calls.
func (h Handlers) CreateCall(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Dispatch == nil {
		fail(c, http.StatusInternalServerError, "Calling service is not configured. Please contact the administrator.")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "Request body is too large")
			return
		}
		fail(c, http.StatusBadRequest, "Could not read request body")
		return
	}
	var input map[string]any
	if err := sonic.Unmarshal(raw, &input); err != nil || input == nil {
		fail(c, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}

	res, err := h.Dispatch.Dispatch(c.Request.Context(), input)
	if err != nil {
		var de *dispatch.Error
		if errors.As(err, &de) {
			if de.Status >= http.StatusInternalServerError {
				log.Error("call dispatch failed", "status", de.Status, "err", err)
			} else {
				log.Info("call dispatch rejected", "status", de.Status, "reason", de.Message)
			}
			fail(c, de.Status, de.Message)
			return
		}
		log.Error("call dispatch failed", "err", err)
		fail(c, http.StatusInternalServerError, "Unexpected error while placing the call")
		return
	}
	c.JSON(http.StatusOK, res)
}

type previewResponse struct {
	Script string `json:"script"`
}

// PreviewScript handles POST /api/preview. Fields are optional: the preview
// is rendered with fallbacks while the form is incomplete.
func (h Handlers) PreviewScript(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	var req calls.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}
	c.JSON(http.StatusOK, previewResponse{Script: script.Preview(req)})
}

// Health handles GET /healthz.
func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
