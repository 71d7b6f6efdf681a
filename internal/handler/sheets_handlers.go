package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"doc-intel-server/internal/models"
	"doc-intel-server/internal/sheets"
)

// importSheet handles POST /sheets/import: a CSV translation sheet is
// parsed and every row without a translation is batch-translated. Rows that
// already carry a translation pass through untouched.
func (h *Handler) importSheet(c *gin.Context) {
	sourceLang := c.Query("sourceLanguage")
	targetLang := c.Query("targetLanguage")
	if sourceLang == "" || targetLang == "" {
		h.abortWith(c, http.StatusBadRequest, "sourceLanguage and targetLanguage query parameters are required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.abortWith(c, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.respondError(c, err)
		return
	}

	rows, err := sheets.Parse(data)
	if err != nil {
		h.abortWith(c, http.StatusBadRequest, "invalid sheet: "+err.Error())
		return
	}

	pending := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Translation == "" {
			pending = append(pending, row.Original)
		}
	}

	translated := 0
	partial := false
	if len(pending) > 0 {
		items, p, err := h.batch.Translate(c.Request.Context(), sourceLang, targetLang, "", pending)
		if err != nil {
			h.respondError(c, err)
			return
		}
		translated = len(items)
		partial = p
	}

	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
	}
	c.JSON(status, gin.H{
		"imported":   len(rows),
		"translated": translated,
		"skipped":    len(rows) - len(pending),
		"partial":    partial,
	})
}

// exportSheet handles GET /sheets/export: stored translations as CSV.
func (h *Handler) exportSheet(c *gin.Context) {
	limit, offset := paginationParams(c)
	items, err := h.translationRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(items) == 0 {
		items = []models.Translation{}
	}

	data, err := sheets.Export(items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="translations.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
