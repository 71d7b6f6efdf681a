package sheets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-intel-server/internal/models"
	"doc-intel-server/internal/sheets"
)

func TestParse(t *testing.T) {
	t.Run("full sheet", func(t *testing.T) {
		data := []byte("original,translation,context\nhello,czesc,greeting\nbye,,farewell\n")

		rows, err := sheets.Parse(data)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, sheets.Row{Original: "hello", Translation: "czesc", Context: "greeting"}, rows[0])
		assert.Equal(t, sheets.Row{Original: "bye", Context: "farewell"}, rows[1])
	})

	t.Run("alias source column", func(t *testing.T) {
		rows, err := sheets.Parse([]byte("source\nhello\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "hello", rows[0].Original)
	})

	t.Run("missing original column fails", func(t *testing.T) {
		_, err := sheets.Parse([]byte("key,value\na,b\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "original")
	})

	t.Run("empty sheet fails", func(t *testing.T) {
		_, err := sheets.Parse([]byte(""))
		require.Error(t, err)
	})

	t.Run("BOM is stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("original\nhello\n")...)
		rows, err := sheets.Parse(data)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("blank originals skipped", func(t *testing.T) {
		rows, err := sheets.Parse([]byte("original\nhello\n\nworld\n"))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestExport(t *testing.T) {
	items := []models.Translation{
		{Original: "hello", Translated: "czesc", SourceLanguage: "en", TargetLanguage: "pl"},
		{Original: "a,b", Translated: "x", SourceLanguage: "en", TargetLanguage: "pl"},
	}

	data, err := sheets.Export(items)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "original,translation,source_language,target_language", lines[0])
	assert.Equal(t, "hello,czesc,en,pl", lines[1])
	assert.Equal(t, `"a,b",x,en,pl`, lines[2], "values containing the separator are quoted")
}
