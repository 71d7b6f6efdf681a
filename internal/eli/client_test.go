package eli_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-intel-server/internal/eli"
	"doc-intel-server/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *eli.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, eli.NewClient(srv.URL, 5*time.Second, zap.NewNop())
}

func TestGetActText(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acts/DU/2023/100":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"publisher": "DU", "year": 2023, "pos": 100, "title": "Sample act"}`))
		case "/acts/DU/2023/100/text":
			w.Write([]byte("full act text"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	act, err := client.GetActText(context.Background(), "DU", 2023, 100)

	require.NoError(t, err)
	assert.Equal(t, "Sample act", act.Title)
	assert.Equal(t, "full act text", act.Text)
}

func TestGetActText_NotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetActText(context.Background(), "DU", 2023, 999)

	assert.ErrorIs(t, err, models.ErrActNotFound)
}

func TestGetActText_EmptyBodyIsNotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acts/DU/2023/100" {
			w.Write([]byte(`{"title": "Sample act"}`))
			return
		}
		// Text endpoint answers 200 with no body.
	})

	_, err := client.GetActText(context.Background(), "DU", 2023, 100)

	assert.ErrorIs(t, err, models.ErrActNotFound)
}

func TestListActs(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acts/DU/2023", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"pos": 1, "title": "First"}, {"pos": 2, "title": "Second"}]}`))
	})

	acts, err := client.ListActs(context.Background(), "DU", 2023)

	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "First", acts[0].Title)
}

func TestListActs_ServerError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListActs(context.Background(), "DU", 2023)

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrActNotFound)
}
