package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/weeliem/go-eatery-directory/internal/types"
)

// UpsertOutcome says what one upsert actually did to the table.
type UpsertOutcome int

const (
	OutcomeInserted UpsertOutcome = iota
	OutcomeUpdated
	OutcomeSkipped
)

// DB is the pgxpool.Pool subset the write side needs; pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the write-side persistence contract. Only the seed binary
// uses it; the live API stays read-only.
type Repository interface {
	UpsertEatery(ctx context.Context, e types.Eatery, insertOnly bool) (UpsertOutcome, error)
	TruncateEateries(ctx context.Context) error
	StartRun(ctx context.Context, run *types.IngestionRun) error
	FinishRun(ctx context.Context, run *types.IngestionRun) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const upsertQuery = `
    INSERT INTO eateries (
        place_id, name, cuisine, neighbourhood, rating, review_count,
        price, latitude, longitude, is_halal, is_vegetarian, photos, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
    ON CONFLICT (place_id) DO UPDATE SET
        name = EXCLUDED.name,
        cuisine = EXCLUDED.cuisine,
        neighbourhood = EXCLUDED.neighbourhood,
        rating = EXCLUDED.rating,
        review_count = EXCLUDED.review_count,
        price = EXCLUDED.price,
        latitude = EXCLUDED.latitude,
        longitude = EXCLUDED.longitude,
        is_halal = EXCLUDED.is_halal,
        is_vegetarian = EXCLUDED.is_vegetarian,
        photos = EXCLUDED.photos,
        updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
`

const insertOnlyQuery = `
    INSERT INTO eateries (
        place_id, name, cuisine, neighbourhood, rating, review_count,
        price, latitude, longitude, is_halal, is_vegetarian, photos, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
    ON CONFLICT (place_id) DO NOTHING
`

// UpsertEatery writes one row keyed by place_id. The default policy updates
// all mutable fields on conflict so re-ingestion refreshes ratings and
// review counts; insert-only mode leaves existing rows untouched.
func (r *RepositoryImpl) UpsertEatery(ctx context.Context, e types.Eatery, insertOnly bool) (UpsertOutcome, error) {
	photos, err := serializePhotos(e.Photos)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("failed to serialize photos for %q: %w", e.PlaceID, err)
	}

	args := []any{
		e.PlaceID, e.Name, e.Cuisine, e.Neighbourhood, e.Rating, e.ReviewCount,
		e.Price, e.Latitude, e.Longitude, e.IsHalal, e.IsVegetarian, photos,
	}

	if insertOnly {
		tag, err := r.db.Exec(ctx, insertOnlyQuery, args...)
		if err != nil {
			return OutcomeSkipped, fmt.Errorf("failed to insert eatery %q: %w", e.PlaceID, err)
		}
		if tag.RowsAffected() == 0 {
			return OutcomeSkipped, nil
		}
		return OutcomeInserted, nil
	}

	// xmax = 0 only holds for freshly inserted tuples, which is how a
	// single round-trip distinguishes insert from update.
	var inserted bool
	if err := r.db.QueryRow(ctx, upsertQuery, args...).Scan(&inserted); err != nil {
		return OutcomeSkipped, fmt.Errorf("failed to upsert eatery %q: %w", e.PlaceID, err)
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

// TruncateEateries wipes the table for a full-refresh run.
func (r *RepositoryImpl) TruncateEateries(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "TRUNCATE TABLE eateries RESTART IDENTITY"); err != nil {
		return fmt.Errorf("failed to truncate eateries: %w", err)
	}
	r.logger.InfoContext(ctx, "Truncated eateries table for full refresh")
	return nil
}

func (r *RepositoryImpl) StartRun(ctx context.Context, run *types.IngestionRun) error {
	query := `
        INSERT INTO ingestion_runs (id, started_at, truncated, insert_only)
        VALUES ($1, $2, $3, $4)
    `
	if _, err := r.db.Exec(ctx, query, run.ID, run.StartedAt, run.Truncated, run.InsertOnly); err != nil {
		return fmt.Errorf("failed to record ingestion run start: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) FinishRun(ctx context.Context, run *types.IngestionRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	query := `
        UPDATE ingestion_runs
        SET finished_at = $2, inserted = $3, updated = $4, skipped = $5, failed = $6
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, run.ID, run.FinishedAt, run.Inserted, run.Updated, run.Skipped, run.Failed); err != nil {
		return fmt.Errorf("failed to record ingestion run finish: %w", err)
	}
	return nil
}

// serializePhotos stores the ordered photo name list as a JSON string array.
func serializePhotos(photos []types.Photo) (string, error) {
	names := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
