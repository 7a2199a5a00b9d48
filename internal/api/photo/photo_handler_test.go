package photo

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weeliem/go-eatery-directory/internal/places"
)

func newHandler(apiKey string) *PhotoHandler {
	client := places.NewClient("https://places.googleapis.com/v1", apiKey, 0, slog.Default())
	return NewPhotoHandler(client, slog.Default())
}

func TestRedirectPhoto(t *testing.T) {
	t.Run("Redirects", func(t *testing.T) {
		handler := newHandler("test-key")

		req := httptest.NewRequest(http.MethodGet, "/api/photo?name=places/abc/photos/p1&h=640", nil)
		w := httptest.NewRecorder()
		handler.RedirectPhoto(w, req)

		assert.Equal(t, http.StatusFound, w.Code)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "places.googleapis.com", loc.Host)
		assert.Equal(t, "/v1/places/abc/photos/p1/media", loc.Path)
		assert.Equal(t, "640", loc.Query().Get("maxHeightPx"))
		assert.Equal(t, "test-key", loc.Query().Get("key"))
	})

	t.Run("DefaultHeight", func(t *testing.T) {
		handler := newHandler("test-key")

		req := httptest.NewRequest(http.MethodGet, "/api/photo?name=places/abc/photos/p1", nil)
		w := httptest.NewRecorder()
		handler.RedirectPhoto(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "400", loc.Query().Get("maxHeightPx"))
	})

	t.Run("MissingName", func(t *testing.T) {
		handler := newHandler("test-key")

		req := httptest.NewRequest(http.MethodGet, "/api/photo", nil)
		w := httptest.NewRecorder()
		handler.RedirectPhoto(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingKey", func(t *testing.T) {
		handler := newHandler("")

		req := httptest.NewRequest(http.MethodGet, "/api/photo?name=places/abc/photos/p1", nil)
		w := httptest.NewRecorder()
		handler.RedirectPhoto(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestProxyImage(t *testing.T) {
	handler := newHandler("test-key")

	t.Run("MissingURL", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/image", nil)
		w := httptest.NewRecorder()
		handler.ProxyImage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DisallowedHost", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/image?url="+url.QueryEscape("https://evil.example.com/x.png"), nil)
		w := httptest.NewRecorder()
		handler.ProxyImage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonHTTPSRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/image?url="+url.QueryEscape("http://lh3.googleusercontent.com/x.png"), nil)
		w := httptest.NewRecorder()
		handler.ProxyImage(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
