package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"doc-intel-server/internal/models"
)

// maxUploadBytes bounds the accepted PDF size.
const maxUploadBytes = 32 << 20

// summarizePDF handles POST /pdf-operations/summarize: multipart upload,
// text extraction, summarization. Extraction failure is the client's
// problem (400); generation exhaustion is 422.
func (h *Handler) summarizePDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.abortWith(c, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		h.abortWith(c, http.StatusBadRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary, err := h.summaries.SummarizePDF(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type summarizeActRequest struct {
	Publisher string `json:"publisher" binding:"required"`
	Year      int    `json:"year" binding:"required"`
	Position  int    `json:"position" binding:"required"`
}

// summarizeAct handles POST /eli-operations/summarize. Both a missing act
// and summarize-budget exhaustion report 404: from the client's view the
// requested document summary does not exist.
func (h *Handler) summarizeAct(c *gin.Context) {
	var req summarizeActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	summary, err := h.summaries.SummarizeAct(c.Request.Context(), req.Publisher, req.Year, req.Position)
	if err != nil {
		if errors.Is(err, models.ErrAttemptsExhausted) {
			h.abortWith(c, http.StatusNotFound, "could not produce a summary for the requested act")
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// listPublishers handles GET /eli-operations/acts.
func (h *Handler) listPublishers(c *gin.Context) {
	publishers, err := h.acts.ListPublishers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publishers": publishers})
}

// listActs handles GET /eli-operations/acts/:publisher/:year.
func (h *Handler) listActs(c *gin.Context) {
	publisher := c.Param("publisher")
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.abortWith(c, http.StatusBadRequest, "year must be an integer")
		return
	}

	acts, err := h.acts.ListActs(c.Request.Context(), publisher, year)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publisher": publisher, "year": year, "acts": acts})
}

// listSummaries handles GET /summaries.
func (h *Handler) listSummaries(c *gin.Context) {
	limit, offset := paginationParams(c)
	items, err := h.summaryRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": items, "limit": limit, "offset": offset})
}

// getSummary handles GET /summaries/:id.
func (h *Handler) getSummary(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid summary id")
		return
	}
	summary, err := h.summaryRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
