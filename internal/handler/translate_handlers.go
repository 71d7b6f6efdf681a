package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"doc-intel-server/internal/models"
	"doc-intel-server/internal/service"
)

// translationsResponse is the body of the translate and regenerate
// endpoints.
type translationsResponse struct {
	Translations []models.TranslationResult `json:"translations"`
	Requested    int                        `json:"requested"`
	Partial      bool                       `json:"partial"`
}

func requestedCount(req models.TranslateRequest) int {
	if req.AlternativesCount < 1 {
		return 1
	}
	return req.AlternativesCount
}

// translate handles POST /translations/translate: 200 when every requested
// alternative was produced, 206 when some were abandoned, 422 when none.
func (h *Handler) translate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	results, err := h.translations.Translate(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondTranslations(c, requestedCount(req), results)
}

// regenerate handles POST /translations/regenerate. The stream is consumed
// here, one lazy pull per alternative; an abort mid-consumption (client
// deadline) stops further generator calls.
func (h *Handler) regenerate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stream := h.translations.Regenerate(c.Request.Context(), req)
	results := make([]models.TranslationResult, 0, requestedCount(req))
	for {
		result, err := stream.Next(c.Request.Context())
		if err != nil {
			h.respondError(c, err)
			return
		}
		if result == nil {
			break
		}
		results = append(results, *result)
	}

	if len(results) == 0 {
		h.abortWith(c, http.StatusUnprocessableEntity, models.ErrAttemptsExhausted.Error())
		return
	}
	h.respondTranslations(c, requestedCount(req), results)
}

// verify handles POST /translations/verify.
func (h *Handler) verify(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Translation == "" {
		h.abortWith(c, http.StatusBadRequest, "'translation' is required for verification")
		return
	}

	verification, err := h.translations.Verify(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verification)
}

type batchTranslateRequest struct {
	SourceLanguage string   `json:"sourceLanguage" binding:"required"`
	TargetLanguage string   `json:"targetLanguage" binding:"required"`
	Context        string   `json:"context"`
	Items          []string `json:"items" binding:"required,min=1"`
}

type batchTranslateResponse struct {
	Items   []service.BatchItem `json:"items"`
	Partial bool                `json:"partial"`
}

// batchTranslate handles POST /translations/batch: 200 when every chunk
// succeeded, 206 when at least one chunk was dropped, 422 when nothing
// survived.
func (h *Handler) batchTranslate(c *gin.Context) {
	var req batchTranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	items, partial, err := h.batch.Translate(c.Request.Context(),
		req.SourceLanguage, req.TargetLanguage, req.Context, req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(items) == 0 {
		h.abortWith(c, http.StatusUnprocessableEntity, models.ErrAttemptsExhausted.Error())
		return
	}

	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
	}
	c.JSON(status, batchTranslateResponse{Items: items, Partial: partial})
}

// listTranslations handles GET /translations.
func (h *Handler) listTranslations(c *gin.Context) {
	limit, offset := paginationParams(c)
	items, err := h.translationRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"translations": items, "limit": limit, "offset": offset})
}

func (h *Handler) respondTranslations(c *gin.Context, requested int, results []models.TranslationResult) {
	partial := len(results) < requested
	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
	}
	c.JSON(status, translationsResponse{
		Translations: results,
		Requested:    requested,
		Partial:      partial,
	})
}
