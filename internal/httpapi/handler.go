package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/CSEN-174-W25/csen-174-thebteam/internal/errors"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/sentry"
)

// genericErrorMessage is the only failure text callers ever see for
// internal errors. Details stay in the logs.
const genericErrorMessage = "An error occurred while processing the request."

// missingQueryMessage mirrors the entry point contract for bad payloads.
const missingQueryMessage = `The request must include a "query" field in the JSON payload.`

// Asker answers one authenticated advisor query. *advisor.Engine
// satisfies it.
type Asker interface {
	Ask(ctx context.Context, userID, query string) (string, error)
}

// Handler serves the RAG endpoint.
type Handler struct {
	engine Asker
	log    *logger.Logger
}

// NewHandler creates the RAG endpoint handler.
func NewHandler(engine Asker, log *logger.Logger) *Handler {
	return &Handler{engine: engine, log: log.WithModule("httpapi")}
}

type ragRequest struct {
	Query string `json:"query"`
}

// HandleRag answers POST /api/rag. The caller identity comes from the
// auth middleware; the body carries {"query": "..."}.
func (h *Handler) HandleRag(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var req ragRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingQueryMessage})
		return
	}

	answer, err := h.engine.Ask(c.Request.Context(), userID, req.Query)
	if err != nil {
		h.respondError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func (h *Handler) respondError(c *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		unauthorized(c)
	case errors.Is(err, apperrors.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": missingQueryMessage})
	default:
		h.log.WithField("user_id", userID).WithError(err).Error("advisor request failed")
		sentry.CaptureExceptionWithContext(c.Request.Context(), err)
		body := gin.H{"error": genericErrorMessage}
		var capErr *apperrors.CapabilityError
		if errors.As(err, &capErr) {
			body["details"] = "the " + capErr.Capability + " backend is unavailable"
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
