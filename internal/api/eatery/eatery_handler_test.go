package eatery

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weeliem/go-eatery-directory/internal/types"
)

// MockEateryService is a mock implementation of the Service interface
type MockEateryService struct {
	mock.Mock
}

func (m *MockEateryService) ListEateries(ctx context.Context, filter types.EateryFilter) (*types.PaginatedEateriesResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PaginatedEateriesResponse), args.Error(1)
}

func (m *MockEateryService) GetEatery(ctx context.Context, id int64) (*types.Eatery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Eatery), args.Error(1)
}

func newTestRouter(handler *EateryHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/eateries", handler.ListEateries)
	r.Get("/api/eateries/{id}", handler.GetEatery)
	return r
}

func TestListEateriesHandler(t *testing.T) {
	mockService := new(MockEateryService)
	handler := NewEateryHandler(mockService, slog.Default())
	router := newTestRouter(handler)

	t.Run("DefaultsApplied", func(t *testing.T) {
		expectedFilter := types.EateryFilter{Page: 1, Limit: 20, Sort: types.SortRating}
		resp := &types.PaginatedEateriesResponse{
			Eateries: []types.Eatery{}, CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 20,
		}
		mockService.On("ListEateries", mock.Anything, expectedFilter).Return(resp, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/eateries", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body types.PaginatedEateriesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 20, body.ItemsPerPage)
		assert.NotNil(t, body.Eateries)
		mockService.AssertExpectations(t)
	})

	t.Run("FiltersParsed", func(t *testing.T) {
		lat, lng, radius := 1.28, 103.85, 1.0
		expectedFilter := types.EateryFilter{
			Page: 2, Limit: 50, Sort: types.SortReviews,
			IsHalal: true, Price: "$$", SearchTerm: "laksa",
			Latitude: &lat, Longitude: &lng, RadiusKm: &radius,
		}
		resp := &types.PaginatedEateriesResponse{Eateries: []types.Eatery{}, CurrentPage: 2, ItemsPerPage: 50}
		mockService.On("ListEateries", mock.Anything, expectedFilter).Return(resp, nil).Once()

		req := httptest.NewRequest(http.MethodGet,
			"/api/eateries?page=2&limit=50&is_halal=true&price=$$&searchTerm=laksa&latitude=1.28&longitude=103.85&radius=1&sort=reviews", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidValuesFallBack", func(t *testing.T) {
		// Bad page/limit/price/sort, non-literal booleans and a partial
		// geo triple all degrade to defaults
		expectedFilter := types.EateryFilter{Page: 1, Limit: 20, Sort: types.SortRating}
		resp := &types.PaginatedEateriesResponse{Eateries: []types.Eatery{}, CurrentPage: 1, ItemsPerPage: 20}
		mockService.On("ListEateries", mock.Anything, expectedFilter).Return(resp, nil).Once()

		req := httptest.NewRequest(http.MethodGet,
			"/api/eateries?page=-1&limit=abc&price=%24%24%24%24%24&sort=bogus&is_halal=True&latitude=1.28&radius=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("LimitClamped", func(t *testing.T) {
		expectedFilter := types.EateryFilter{Page: 1, Limit: 100, Sort: types.SortRating}
		resp := &types.PaginatedEateriesResponse{Eateries: []types.Eatery{}, CurrentPage: 1, ItemsPerPage: 100}
		mockService.On("ListEateries", mock.Anything, expectedFilter).Return(resp, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/eateries?limit=5000", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ZeroRadiusDisablesGeo", func(t *testing.T) {
		expectedFilter := types.EateryFilter{Page: 1, Limit: 20, Sort: types.SortRating}
		resp := &types.PaginatedEateriesResponse{Eateries: []types.Eatery{}, CurrentPage: 1, ItemsPerPage: 20}
		mockService.On("ListEateries", mock.Anything, expectedFilter).Return(resp, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/eateries?latitude=1.28&longitude=103.85&radius=0", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService.On("ListEateries", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/eateries", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		// Generic message only, no driver detail leaked
		assert.Equal(t, "Failed to fetch eateries", body["error"])
		mockService.AssertExpectations(t)
	})
}

func TestGetEateryHandler(t *testing.T) {
	mockService := new(MockEateryService)
	handler := NewEateryHandler(mockService, slog.Default())
	router := newTestRouter(handler)

	t.Run("Success", func(t *testing.T) {
		e := &types.Eatery{ID: 7, PlaceID: "ChIJ789", Name: "Laksa Corner", Photos: []types.Photo{}}
		mockService.On("GetEatery", mock.Anything, int64(7)).Return(e, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/eateries/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body types.Eatery
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Laksa Corner", body.Name)
		assert.NotNil(t, body.Photos)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("GetEatery", mock.Anything, int64(999)).Return(nil, ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/eateries/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/eateries/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}
