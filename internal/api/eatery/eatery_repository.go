package eatery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/weeliem/go-eatery-directory/app/observability/metrics"
	"github.com/weeliem/go-eatery-directory/internal/types"
)

// ErrNotFound is returned when no eatery matches the requested ID.
var ErrNotFound = errors.New("eatery not found")

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too, which is what the repository tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the read-side persistence contract. The live API never
// writes; all writes happen through the ingest package.
type Repository interface {
	ListEateries(ctx context.Context, filter types.EateryFilter) (*types.PaginatedEateriesResponse, error)
	GetEatery(ctx context.Context, id int64) (*types.Eatery, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	metrics.InitAppMetrics()
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

// observeQuery feeds the query duration and error instruments. Call with the
// method start time once the query outcome is known.
func observeQuery(ctx context.Context, start time.Time, err error) {
	m := metrics.Get()
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1)
	}
}

// haversineExpr computes great-circle distance in kilometers between a row's
// coordinates and the bound point. latP and lngP are placeholder names like
// "$4"; latP is used twice so it must be a numbered placeholder.
func haversineExpr(latP, lngP string) string {
	return fmt.Sprintf(
		"6371 * 2 * asin(sqrt(power(sin(radians((latitude - %[1]s) / 2)), 2) + cos(radians(%[1]s)) * cos(radians(latitude)) * power(sin(radians((longitude - %[2]s) / 2)), 2)))",
		latP, lngP,
	)
}

// listQuery holds the assembled count and data statements for one filter.
// Both share the same predicate list and the same leading arguments; the
// data query appends limit/offset.
type listQuery struct {
	countSQL  string
	countArgs []any
	dataSQL   string
	dataArgs  []any
	geoActive bool
}

const eateryColumns = "id, place_id, name, cuisine, neighbourhood, rating, review_count, price, photos, latitude, longitude, is_halal, is_vegetarian"

// buildListQuery translates the filter into parameterized SQL. Predicates
// and arguments are built in lockstep with a shared placeholder index so
// that a value reused across columns (the search term) binds correctly.
func buildListQuery(filter types.EateryFilter) listQuery {
	var (
		predicates []string
		args       []any
		idx        int
	)
	next := func() string {
		idx++
		return fmt.Sprintf("$%d", idx)
	}

	if filter.IsHalal {
		predicates = append(predicates, fmt.Sprintf("is_halal = %s", next()))
		args = append(args, true)
	}
	if filter.IsVegetarian {
		predicates = append(predicates, fmt.Sprintf("is_vegetarian = %s", next()))
		args = append(args, true)
	}
	if filter.Price != "" {
		predicates = append(predicates, fmt.Sprintf("price = %s", next()))
		args = append(args, filter.Price)
	}
	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		pattern := "%" + term + "%"
		predicates = append(predicates, fmt.Sprintf(
			"(name ILIKE %s OR cuisine ILIKE %s OR neighbourhood ILIKE %s)",
			next(), next(), next(),
		))
		args = append(args, pattern, pattern, pattern)
	}

	distanceExpr := ""
	if filter.GeoActive() {
		latP := next()
		lngP := next()
		radiusP := next()
		args = append(args, *filter.Latitude, *filter.Longitude, *filter.RadiusKm)
		distanceExpr = haversineExpr(latP, lngP)
		predicates = append(predicates,
			"latitude IS NOT NULL",
			"longitude IS NOT NULL",
			fmt.Sprintf("%s <= %s", distanceExpr, radiusP),
		)
	}

	where := ""
	if len(predicates) > 0 {
		where = " WHERE " + strings.Join(predicates, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM eateries" + where
	countArgs := make([]any, len(args))
	copy(countArgs, args)

	selectCols := eateryColumns
	if distanceExpr != "" {
		selectCols += ", " + distanceExpr + " AS distance"
	}

	orderBy := orderByClause(filter.Sort, distanceExpr != "")

	limitP := next()
	offsetP := next()
	dataSQL := fmt.Sprintf("SELECT %s FROM eateries%s ORDER BY %s LIMIT %s OFFSET %s",
		selectCols, where, orderBy, limitP, offsetP)
	dataArgs := append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	return listQuery{
		countSQL:  countSQL,
		countArgs: countArgs,
		dataSQL:   dataSQL,
		dataArgs:  dataArgs,
		geoActive: distanceExpr != "",
	}
}

// orderByClause picks the global sort. Distance wins whenever the geo filter
// is active; every sort shares rating-desc / name-asc tie-breaks.
func orderByClause(sort string, geoActive bool) string {
	if geoActive {
		return "distance ASC, rating DESC, name ASC"
	}
	switch sort {
	case types.SortReviews:
		return "review_count DESC, rating DESC, name ASC"
	case types.SortName:
		return "name ASC, rating DESC"
	default:
		return "rating DESC, name ASC"
	}
}

func (r *RepositoryImpl) ListEateries(ctx context.Context, filter types.EateryFilter) (*types.PaginatedEateriesResponse, error) {
	q := buildListQuery(filter)
	start := time.Now()

	var total int
	if err := r.db.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		observeQuery(ctx, start, err)
		return nil, fmt.Errorf("failed to count eateries: %w", err)
	}

	rows, err := r.db.Query(ctx, q.dataSQL, q.dataArgs...)
	observeQuery(ctx, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query eateries: %w", err)
	}
	defer rows.Close()

	eateries := make([]types.Eatery, 0, filter.Limit)
	for rows.Next() {
		var (
			e         types.Eatery
			photosRaw *string
		)
		dest := []any{
			&e.ID, &e.PlaceID, &e.Name, &e.Cuisine, &e.Neighbourhood,
			&e.Rating, &e.ReviewCount, &e.Price, &photosRaw,
			&e.Latitude, &e.Longitude, &e.IsHalal, &e.IsVegetarian,
		}
		if q.geoActive {
			dest = append(dest, &e.Distance)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan eatery row: %w", err)
		}
		e.Photos = ParsePhotos(photosRaw)
		eateries = append(eateries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating eatery rows: %w", err)
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return &types.PaginatedEateriesResponse{
		Eateries:     eateries,
		CurrentPage:  filter.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: filter.Limit,
	}, nil
}

func (r *RepositoryImpl) GetEatery(ctx context.Context, id int64) (*types.Eatery, error) {
	query := fmt.Sprintf("SELECT %s FROM eateries WHERE id = $1", eateryColumns)
	start := time.Now()

	var (
		e         types.Eatery
		photosRaw *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.PlaceID, &e.Name, &e.Cuisine, &e.Neighbourhood,
		&e.Rating, &e.ReviewCount, &e.Price, &photosRaw,
		&e.Latitude, &e.Longitude, &e.IsHalal, &e.IsVegetarian,
	)
	observeQuery(ctx, start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch eatery %d: %w", id, err)
	}
	e.Photos = ParsePhotos(photosRaw)

	return &e, nil
}

// ParsePhotos deserializes the stored photo list. NULL, empty and malformed
// values all come back as an empty slice, never nil, so the JSON boundary
// always renders `[]`. Both serialized forms that ever shipped are accepted:
// a bare string array of resource names and an object array with a name key.
func ParsePhotos(raw *string) []types.Photo {
	photos := []types.Photo{}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return photos
	}

	var names []string
	if err := json.Unmarshal([]byte(*raw), &names); err == nil {
		for _, n := range names {
			if n != "" {
				photos = append(photos, types.Photo{Name: n})
			}
		}
		return photos
	}

	var objs []types.Photo
	if err := json.Unmarshal([]byte(*raw), &objs); err == nil {
		for _, p := range objs {
			if p.Name != "" {
				photos = append(photos, p)
			}
		}
	}
	return photos
}
