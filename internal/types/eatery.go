package types

import "time"

// Sort options for the eatery list endpoint. Distance ordering always wins
// when a geo filter is active, whatever the caller asked for.
const (
	SortRating  = "rating"
	SortReviews = "reviews"
	SortName    = "name"
)

// Photo is one entry of an eatery's gallery. Name is the opaque upstream
// photo resource name; the browser resolves it through /api/photo so the
// API key stays server-side.
type Photo struct {
	Name string `json:"name"`
}

type Eatery struct {
	ID            int64     `json:"id"`
	PlaceID       string    `json:"place_id"`
	Name          string    `json:"name"`
	Cuisine       string    `json:"cuisine"`
	Neighbourhood string    `json:"neighbourhood"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Price         string    `json:"price"`
	Photos        []Photo   `json:"photos"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	// Dietary flags are keyword inference over free text, not provider
	// data. False negatives are expected.
	IsHalal       bool      `json:"is_halal"`
	IsVegetarian  bool      `json:"is_vegetarian"`
	Distance      *float64  `json:"distance,omitempty"`
	UpdatedAt     time.Time `json:"-"`
}

// EateryFilter carries the already-validated query parameters of the list
// endpoint. Pointer fields are nil when the filter is inactive.
type EateryFilter struct {
	Page         int
	Limit        int
	IsHalal      bool
	IsVegetarian bool
	Price        string
	SearchTerm   string
	Latitude     *float64
	Longitude    *float64
	RadiusKm     *float64
	Sort         string
}

// GeoActive reports whether all three geo parameters parsed and the radius
// is positive.
func (f EateryFilter) GeoActive() bool {
	return f.Latitude != nil && f.Longitude != nil && f.RadiusKm != nil && *f.RadiusKm > 0
}

type PaginatedEateriesResponse struct {
	Eateries     []Eatery `json:"eateries"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	TotalItems   int      `json:"totalItems"`
	ItemsPerPage int      `json:"itemsPerPage"`
}
