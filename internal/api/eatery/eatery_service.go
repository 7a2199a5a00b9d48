package eatery

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weeliem/go-eatery-directory/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for eatery reads.
type Service interface {
	ListEateries(ctx context.Context, filter types.EateryFilter) (*types.PaginatedEateriesResponse, error)
	GetEatery(ctx context.Context, id int64) (*types.Eatery, error)
}

type ServiceImpl struct {
	logger           *slog.Logger
	eateryRepository Repository
}

func NewServiceImpl(eateryRepository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:           logger,
		eateryRepository: eateryRepository,
	}
}

func (s *ServiceImpl) ListEateries(ctx context.Context, filter types.EateryFilter) (*types.PaginatedEateriesResponse, error) {
	ctx, span := otel.Tracer("EateryService").Start(ctx, "ListEateries", trace.WithAttributes(
		attribute.Int("page", filter.Page),
		attribute.Int("limit", filter.Limit),
		attribute.Bool("geo_active", filter.GeoActive()),
	))
	defer span.End()

	resp, err := s.eateryRepository.ListEateries(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to list eateries", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list eateries: %w", err)
	}

	span.SetStatus(codes.Ok, "Eateries listed successfully")
	return resp, nil
}

func (s *ServiceImpl) GetEatery(ctx context.Context, id int64) (*types.Eatery, error) {
	ctx, span := otel.Tracer("EateryService").Start(ctx, "GetEatery", trace.WithAttributes(
		attribute.Int64("eatery.id", id),
	))
	defer span.End()

	e, err := s.eateryRepository.GetEatery(ctx, id)
	if err != nil {
		// Not-found is an expected outcome, not a repository failure
		span.RecordError(err)
		return nil, err
	}

	span.SetStatus(codes.Ok, "Eatery retrieved successfully")
	return e, nil
}
