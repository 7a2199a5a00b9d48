package eatery

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weeliem/go-eatery-directory/app/observability/metrics"
	"github.com/weeliem/go-eatery-directory/internal/api"
	"github.com/weeliem/go-eatery-directory/internal/types"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

var validPrices = map[string]bool{
	"$": true, "$$": true, "$$$": true, "$$$$": true,
}

var validSorts = map[string]bool{
	types.SortRating: true, types.SortReviews: true, types.SortName: true,
}

type EateryHandler struct {
	eateryService Service
	logger        *slog.Logger
}

func NewEateryHandler(eateryService Service, logger *slog.Logger) *EateryHandler {
	metrics.InitAppMetrics()
	return &EateryHandler{
		eateryService: eateryService,
		logger:        logger,
	}
}

// ListEateries serves the paginated, filtered eatery list.
func (h *EateryHandler) ListEateries(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ListEateries").Start(r.Context(), "ListEateries", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/eateries"),
	))
	defer span.End()
	start := time.Now()

	l := h.logger.With(slog.String("handler", "ListEateries"))
	filter := parseListFilter(r)
	span.SetAttributes(
		attribute.Int("page", filter.Page),
		attribute.Int("limit", filter.Limit),
		attribute.String("sort", filter.Sort),
	)

	resp, err := h.eateryService.ListEateries(ctx, filter)
	m := metrics.Get()
	m.EateriesRequestsTotal.Add(ctx, 1)
	m.EateriesDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		l.ErrorContext(ctx, "Failed to list eateries", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch eateries")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetEatery serves a single eatery by its numeric ID.
func (h *EateryHandler) GetEatery(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GetEatery").Start(r.Context(), "GetEatery", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/eateries/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetEatery"))

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		l.ErrorContext(ctx, "Invalid eatery ID", slog.String("id", idStr))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid eatery ID")
		return
	}
	span.SetAttributes(attribute.Int64("eatery.id", id))

	e, err := h.eateryService.GetEatery(ctx, id)
	metrics.Get().EateriesRequestsTotal.Add(ctx, 1)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Eatery not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch eatery", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch eatery")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, e)
}

// parseListFilter translates the query string into a validated filter.
// Unknown or malformed values fall back to defaults rather than erroring,
// matching the forgiving contract the frontend relies on.
func parseListFilter(r *http.Request) types.EateryFilter {
	q := r.URL.Query()

	filter := types.EateryFilter{
		Page:  defaultPage,
		Limit: defaultLimit,
		Sort:  types.SortRating,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		if limit > maxLimit {
			limit = maxLimit
		}
		filter.Limit = limit
	}

	// The literal string "true" enables a dietary filter; anything else,
	// including "1" or "True", leaves it off.
	filter.IsHalal = q.Get("is_halal") == "true"
	filter.IsVegetarian = q.Get("is_vegetarian") == "true"

	if price := q.Get("price"); validPrices[price] {
		filter.Price = price
	}

	filter.SearchTerm = q.Get("searchTerm")

	if sort := q.Get("sort"); validSorts[sort] {
		filter.Sort = sort
	}

	// Geo filter activates only when all three values parse as finite
	// numbers and the radius is positive.
	lat, latErr := parseFinite(q.Get("latitude"))
	lng, lngErr := parseFinite(q.Get("longitude"))
	radius, radErr := parseFinite(q.Get("radius"))
	if latErr == nil && lngErr == nil && radErr == nil && radius > 0 {
		filter.Latitude = &lat
		filter.Longitude = &lng
		filter.RadiusKm = &radius
	}

	return filter
}

func parseFinite(s string) (float64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
