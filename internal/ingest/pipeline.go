package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/weeliem/go-eatery-directory/app/observability/metrics"
	"github.com/weeliem/go-eatery-directory/config"
	"github.com/weeliem/go-eatery-directory/internal/places"
	"github.com/weeliem/go-eatery-directory/internal/types"
)

// Searcher is the slice of the Places client the pipeline consumes.
type Searcher interface {
	SearchText(ctx context.Context, req places.TextSearchRequest) (*places.SearchResponse, error)
	SearchNearby(ctx context.Context, req places.NearbySearchRequest) (*places.SearchResponse, error)
}

// Sweep modes. Text mode crosses the dish catalog with the tile grid; nearby
// mode walks the tiles once with a category-restricted nearby search.
const (
	ModeText   = "text"
	ModeNearby = "nearby"
)

// Nearby search caps a single response at 20 results and has no paging.
const nearbyMaxResults = 20

// Stats aggregates one run's counters.
type Stats struct {
	Pages       int
	Seen        int
	FilteredOut int
	Inserted    int
	Updated     int
	Skipped     int
	Failed      int
}

// Pipeline sweeps the phrase catalog across the tile grid and upserts the
// surviving results. Everything is deliberately sequential: one upstream
// call and one database write at a time, with fixed delays, to stay inside
// upstream rate limits.
type Pipeline struct {
	cfg      config.IngestionConfig
	catalog  []Dish
	searcher Searcher
	repo     Repository
	logger   *slog.Logger
}

func NewPipeline(cfg config.IngestionConfig, searcher Searcher, repo Repository, logger *slog.Logger) *Pipeline {
	metrics.InitAppMetrics()
	return &Pipeline{
		cfg:      cfg,
		catalog:  DefaultCatalog,
		searcher: searcher,
		repo:     repo,
		logger:   logger,
	}
}

// Run executes one full sweep. A failing phrase/tile aborts only its own
// paging loop; the sweep continues with the next pair. Re-runs are
// idempotent at the row level through the place_id upsert.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	run := &types.IngestionRun{
		ID:         uuid.New(),
		StartedAt:  time.Now().UTC(),
		Truncated:  p.cfg.Truncate,
		InsertOnly: p.cfg.InsertOnly,
	}
	if err := p.repo.StartRun(ctx, run); err != nil {
		return nil, err
	}

	if p.cfg.Truncate {
		if err := p.repo.TruncateEateries(ctx); err != nil {
			return nil, err
		}
	}

	tiles := TileGrid(p.cfg.Region, p.cfg.TileRadiusKm, p.cfg.TileOverlap)
	p.logger.InfoContext(ctx, "Starting ingestion sweep",
		slog.String("run_id", run.ID.String()),
		slog.String("mode", p.cfg.Mode),
		slog.Int("phrases", len(p.catalog)),
		slog.Int("tiles", len(tiles)),
		slog.Bool("insert_only", p.cfg.InsertOnly),
	)

	stats := &Stats{}
	if p.cfg.Mode == ModeNearby {
		for _, tile := range tiles {
			if ctx.Err() != nil {
				p.finishRun(ctx, run, stats)
				return stats, ctx.Err()
			}
			p.sweepTileNearby(ctx, tile, stats)
			if !sleepCtx(ctx, p.cfg.QueryDelay) {
				p.finishRun(ctx, run, stats)
				return stats, ctx.Err()
			}
		}
	} else {
		for _, dish := range p.catalog {
			phraseStart := *stats
			for _, tile := range tiles {
				if ctx.Err() != nil {
					p.finishRun(ctx, run, stats)
					return stats, ctx.Err()
				}
				p.sweepTile(ctx, dish, tile, stats)
				if !sleepCtx(ctx, p.cfg.QueryDelay) {
					p.finishRun(ctx, run, stats)
					return stats, ctx.Err()
				}
			}
			p.logger.InfoContext(ctx, "Phrase processed",
				slog.String("phrase", dish.Phrase),
				slog.Int("inserted", stats.Inserted-phraseStart.Inserted),
				slog.Int("updated", stats.Updated-phraseStart.Updated),
				slog.Int("skipped", stats.Skipped-phraseStart.Skipped),
				slog.Int("running_total", stats.Inserted+stats.Updated),
			)
		}
	}

	p.finishRun(ctx, run, stats)
	p.logger.InfoContext(ctx, "Ingestion sweep complete",
		slog.Int("pages", stats.Pages),
		slog.Int("seen", stats.Seen),
		slog.Int("filtered_out", stats.FilteredOut),
		slog.Int("inserted", stats.Inserted),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)
	return stats, nil
}

// sweepTile pages through one phrase x tile search. An upstream failure
// abandons the remaining pages of this tile only.
func (p *Pipeline) sweepTile(ctx context.Context, dish Dish, tile Tile, stats *Stats) {
	l := p.logger.With(
		slog.String("phrase", dish.Phrase),
		slog.Float64("tile_lat", tile.Lat),
		slog.Float64("tile_lng", tile.Lng),
	)

	pageToken := ""
	for page := 1; page <= p.cfg.MaxPagesPerQuery; page++ {
		req := places.TextSearchRequest{
			TextQuery: fmt.Sprintf("best %s %s", dish.Phrase, p.cfg.Region.Name),
			PageToken: pageToken,
			LocationBias: &places.LocationBias{
				Circle: &places.Circle{
					Center:  places.LatLng{Latitude: tile.Lat, Longitude: tile.Lng},
					RadiusM: tile.RadiusKm * 1000,
				},
			},
		}

		resp, err := p.searcher.SearchText(ctx, req)
		metrics.Get().PlacesCallsTotal.Add(ctx, 1)
		if err != nil {
			l.ErrorContext(ctx, "Search page failed, skipping remaining pages for this tile",
				slog.Int("page", page), slog.Any("error", err))
			return
		}
		stats.Pages++

		if len(resp.Places) == 0 {
			return
		}

		p.processResults(ctx, l, resp.Places, dish, stats)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return
		}
		if !sleepCtx(ctx, p.cfg.PageDelay) {
			return
		}
	}
}

// sweepTileNearby issues one nearby search per tile, restricted to the
// allow-listed categories. The nearby variant has no text relevance signal,
// so a broad catch-all dish runs the inclusion chain and dietary flags come
// from keyword inference alone.
func (p *Pipeline) sweepTileNearby(ctx context.Context, tile Tile, stats *Stats) {
	l := p.logger.With(
		slog.Float64("tile_lat", tile.Lat),
		slog.Float64("tile_lng", tile.Lng),
	)

	req := places.NearbySearchRequest{
		IncludedTypes:  allowedTypeList(),
		MaxResultCount: nearbyMaxResults,
		LocationRestriction: &places.LocationRestriction{
			Circle: &places.Circle{
				Center:  places.LatLng{Latitude: tile.Lat, Longitude: tile.Lng},
				RadiusM: tile.RadiusKm * 1000,
			},
		},
	}

	resp, err := p.searcher.SearchNearby(ctx, req)
	metrics.Get().PlacesCallsTotal.Add(ctx, 1)
	if err != nil {
		l.ErrorContext(ctx, "Nearby search failed, skipping this tile", slog.Any("error", err))
		return
	}
	stats.Pages++

	p.processResults(ctx, l, resp.Places, Dish{}, stats)
}

// processResults runs the inclusion chain and upserts the survivors of one
// response page.
func (p *Pipeline) processResults(ctx context.Context, l *slog.Logger, results []places.Place, dish Dish, stats *Stats) {
	for _, place := range results {
		stats.Seen++
		if !p.include(place, dish) {
			stats.FilteredOut++
			continue
		}

		eatery := Normalize(place, dish, p.cfg.Region.Name)
		outcome, err := p.repo.UpsertEatery(ctx, eatery, p.cfg.InsertOnly)
		if err != nil {
			// One bad row never aborts the batch
			l.ErrorContext(ctx, "Failed to upsert eatery",
				slog.String("place_id", place.ID),
				slog.String("name", eatery.Name),
				slog.Any("error", err))
			stats.Failed++
			continue
		}
		metrics.Get().IngestUpsertsTotal.Add(ctx, 1)
		switch outcome {
		case OutcomeInserted:
			stats.Inserted++
		case OutcomeUpdated:
			stats.Updated++
		case OutcomeSkipped:
			stats.Skipped++
		}
	}
}

// include chains the inclusion predicates: in-region, category allowed,
// enough photos, textually relevant to the dish.
func (p *Pipeline) include(place places.Place, dish Dish) bool {
	if !InRegion(place, p.cfg.Region.Name) {
		return false
	}
	if !CategoryAllowed(place) {
		return false
	}
	if len(place.Photos) < p.cfg.MinPhotos {
		return false
	}
	return MatchesDish(place, dish)
}

func (p *Pipeline) finishRun(ctx context.Context, run *types.IngestionRun, stats *Stats) {
	// The run row must be closed out even when the sweep was cancelled
	ctx = context.WithoutCancel(ctx)
	run.Inserted = stats.Inserted
	run.Updated = stats.Updated
	run.Skipped = stats.Skipped
	run.Failed = stats.Failed
	if err := p.repo.FinishRun(ctx, run); err != nil {
		p.logger.ErrorContext(ctx, "Failed to record ingestion run", slog.Any("error", err))
	}
}

// sleepCtx waits for d unless the context ends first. Returns false when the
// context ended.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
