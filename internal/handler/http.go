// Package handler exposes the HTTP API: document summarization, translation
// flows, translation sheets and the JSON metrics endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc-intel-server/internal/eli"
	"doc-intel-server/internal/metrics"
	"doc-intel-server/internal/models"
	"doc-intel-server/internal/repository"
	"doc-intel-server/internal/service"
)

// Handler carries the wired services behind the HTTP API.
type Handler struct {
	summaries    *service.SummaryService
	translations *service.TranslationService
	batch        *service.BatchTranslationPipeline
	acts         *eli.Client

	summaryRepo     repository.SummaryRepository
	translationRepo repository.TranslationRepository

	aggregator *metrics.Aggregator
	logger     *zap.Logger

	startTime      time.Time
	requestTimeout time.Duration
}

// New creates the HTTP handler set.
func New(
	summaries *service.SummaryService,
	translations *service.TranslationService,
	batch *service.BatchTranslationPipeline,
	acts *eli.Client,
	summaryRepo repository.SummaryRepository,
	translationRepo repository.TranslationRepository,
	aggregator *metrics.Aggregator,
	logger *zap.Logger,
	requestTimeout time.Duration,
) *Handler {
	return &Handler{
		summaries:       summaries,
		translations:    translations,
		batch:           batch,
		acts:            acts,
		summaryRepo:     summaryRepo,
		translationRepo: translationRepo,
		aggregator:      aggregator,
		logger:          logger.Named("HTTPHandler"),
		startTime:       time.Now().UTC(),
		requestTimeout:  requestTimeout,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (h *Handler) RegisterRoutes(router *gin.Engine, cache *ResponseCache) {
	api := router.Group("/api/v1")
	api.Use(RequestMetricsMiddleware(h.aggregator))
	api.Use(h.timeoutMiddleware())

	pdfOps := api.Group("/pdf-operations")
	{
		pdfOps.POST("/summarize", h.summarizePDF)
	}

	eliOps := api.Group("/eli-operations")
	{
		eliOps.POST("/summarize", h.summarizeAct)
		if cache != nil {
			eliOps.GET("/acts", cache.Wrap(h.listPublishers))
			eliOps.GET("/acts/:publisher/:year", cache.Wrap(h.listActs))
		} else {
			eliOps.GET("/acts", h.listPublishers)
			eliOps.GET("/acts/:publisher/:year", h.listActs)
		}
	}

	translations := api.Group("/translations")
	{
		translations.POST("/translate", h.translate)
		translations.POST("/regenerate", h.regenerate)
		translations.POST("/verify", h.verify)
		translations.POST("/batch", h.batchTranslate)
		translations.GET("", h.listTranslations)
	}

	sheets := api.Group("/sheets")
	{
		sheets.POST("/import", h.importSheet)
		sheets.GET("/export", h.exportSheet)
	}

	summaries := api.Group("/summaries")
	{
		summaries.GET("", h.listSummaries)
		summaries.GET("/:id", h.getSummary)
	}

	metricsGroup := api.Group("/metrics")
	{
		metricsGroup.GET("", h.getMetrics)
		metricsGroup.GET("/global", h.getGlobalMetrics)
		metricsGroup.GET("/endpoints", h.getEndpointsMetrics)
		metricsGroup.GET("/endpoint/*endpoint", h.getEndpointMetrics)
	}

	api.GET("/health", h.health)
}

// timeoutMiddleware imposes the request-level deadline. The core relies on
// this being the only timeout in the request path.
func (h *Handler) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// respondError maps domain sentinels to stable JSON error bodies. Expected
// failure modes never produce 5xx; a timeout is reported distinctly because
// the backend may still be consuming resources.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, models.ErrTimeout):
		h.abortWith(c, http.StatusGatewayTimeout, "request took too long")
	case errors.Is(err, context.Canceled):
		h.abortWith(c, 499, "request cancelled by client")
	case errors.Is(err, models.ErrActNotFound):
		h.abortWith(c, http.StatusNotFound, models.ErrActNotFound.Error())
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrArtifactNotFound):
		h.abortWith(c, http.StatusNotFound, models.ErrNotFound.Error())
	case errors.Is(err, models.ErrAttemptsExhausted):
		h.abortWith(c, http.StatusUnprocessableEntity, models.ErrAttemptsExhausted.Error())
	case errors.Is(err, models.ErrExtractionFailed):
		h.abortWith(c, http.StatusBadRequest, models.ErrExtractionFailed.Error())
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		h.abortWith(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Unhandled request error", zap.Error(err))
		h.abortWith(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) abortWith(c *gin.Context, status int, message string) {
	text := http.StatusText(status)
	if text == "" {
		text = "Client Closed Request"
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Status:  text,
		Message: message,
	})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func (h *Handler) health(c *gin.Context) {
	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"startTs":  h.startTime,
		"uptimeMs": now.Sub(h.startTime).Milliseconds(),
	})
}
