package photo

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weeliem/go-eatery-directory/internal/api"
	"github.com/weeliem/go-eatery-directory/internal/places"
)

const defaultHeight = 400

// Hosts the legacy /api/image proxy is willing to fetch from. Anything else
// would turn the endpoint into an open proxy.
var allowedImageHosts = map[string]bool{
	"lh3.googleusercontent.com": true,
	"lh4.googleusercontent.com": true,
	"lh5.googleusercontent.com": true,
	"maps.googleapis.com":       true,
	"places.googleapis.com":     true,
}

type PhotoHandler struct {
	placesClient *places.Client
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewPhotoHandler(placesClient *places.Client, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{
		placesClient: placesClient,
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		logger:       logger,
	}
}

// RedirectPhoto issues a 302 to the upstream photo media URL, built with the
// server-held API key.
func (h *PhotoHandler) RedirectPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RedirectPhoto").Start(r.Context(), "RedirectPhoto", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/photo"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "RedirectPhoto"))

	name := r.URL.Query().Get("name")
	if name == "" {
		l.ErrorContext(ctx, "Photo name is required")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Photo name is required")
		return
	}

	if !h.placesClient.APIKeyConfigured() {
		l.ErrorContext(ctx, "Places API key is not configured")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Photo service unavailable")
		return
	}

	height := defaultHeight
	if hStr := r.URL.Query().Get("h"); hStr != "" {
		if parsed, err := strconv.Atoi(hStr); err == nil && parsed > 0 {
			height = parsed
		}
	}

	http.Redirect(w, r, h.placesClient.PhotoMediaURL(name, height), http.StatusFound)
}

// ProxyImage streams an upstream image through the server. Earlier frontend
// revisions fetched raw image URLs through here; the allow-list keeps it
// restricted to Google media hosts.
func (h *PhotoHandler) ProxyImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ProxyImage").Start(r.Context(), "ProxyImage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/image"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ProxyImage"))

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Image URL is required")
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != "https" || !allowedImageHosts[parsed.Host] {
		l.ErrorContext(ctx, "Rejected image proxy URL", slog.String("url", rawURL))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Image URL host is not allowed")
		return
	}

	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch image")
		return
	}

	resp, err := h.httpClient.Do(upstreamReq)
	if err != nil {
		l.ErrorContext(ctx, "Upstream image fetch failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to fetch image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.ErrorContext(ctx, "Upstream image returned non-OK status", slog.Int("status", resp.StatusCode))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to fetch image")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		api.ErrorResponse(w, r, http.StatusBadGateway, "Upstream response is not an image")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		l.ErrorContext(ctx, "Failed to stream image body", slog.Any("error", err))
	}
}
