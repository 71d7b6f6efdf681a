// Package sheets reads and writes translation sheets in CSV form.
// A sheet row pairs an original segment with its translation and
// optional context note.
package sheets

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"doc-intel-server/internal/models"
)

// Row is one translation-sheet entry.
type Row struct {
	Original    string
	Translation string
	Context     string
}

// Parse decodes a CSV translation sheet. The header must contain an
// "original" column (aliases: source, text) and may contain
// "translation" and "context" columns.
func Parse(data []byte) ([]Row, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.New("csv sheet is empty")
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	origIdx := -1
	for _, name := range []string{"original", "source", "text"} {
		if i, ok := idx[name]; ok {
			origIdx = i
			break
		}
	}
	if origIdx == -1 {
		return nil, errors.New("csv missing original column (original/source/text)")
	}
	trIdx := -1
	if i, ok := idx["translation"]; ok {
		trIdx = i
	}
	ctxIdx := -1
	if i, ok := idx["context"]; ok {
		ctxIdx = i
	}

	var rows []Row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if origIdx >= len(rec) || rec[origIdx] == "" {
			continue
		}
		row := Row{Original: rec[origIdx]}
		if trIdx >= 0 && trIdx < len(rec) {
			row.Translation = rec[trIdx]
		}
		if ctxIdx >= 0 && ctxIdx < len(rec) {
			row.Context = rec[ctxIdx]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Export encodes stored translations as a CSV sheet.
func Export(items []models.Translation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"original", "translation", "source_language", "target_language"}); err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := w.Write([]string{it.Original, it.Translated, it.SourceLanguage, it.TargetLanguage}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
