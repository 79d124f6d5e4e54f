package workouts

import (
	"context"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workouts/parser"
	"github.com/2beens/workoutlog/pkg"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workouts_test

type workoutsRepo interface {
	AddAll(ctx context.Context, entries []Entry) ([]Entry, error)
	ListByOwnerAndDateRange(ctx context.Context, owner int, from, to time.Time) ([]Entry, error)
	ListByOwnerAndDate(ctx context.Context, owner int, date time.Time) ([]Entry, error)
}

type Service struct {
	repo         workoutsRepo
	validator    *Validator
	estimator    *CalorieEstimator
	maxTextBytes int
}

type NewServiceParams struct {
	Validator *Validator
	Estimator *CalorieEstimator
	// MaxTextBytes limits the raw workout text, 0 means no limit.
	MaxTextBytes int
}

func NewService(repo workoutsRepo, params NewServiceParams) *Service {
	return &Service{
		repo:         repo,
		validator:    params.Validator,
		estimator:    params.Estimator,
		maxTextBytes: params.MaxTextBytes,
	}
}

// AddWorkout parses the raw workout text and stores one entry per block for
// the owner. Either all entries are stored or none.
//
// Errors are *parser.ParseError, *ValidationError, *ConflictError or *RepositoryError.
func (s *Service) AddWorkout(ctx context.Context, owner int, raw string) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("owner", owner))

	if s.maxTextBytes > 0 && len(raw) > s.maxTextBytes {
		return nil, &ValidationError{Field: "workoutString", Msg: "is too long"}
	}

	blocks, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("blocks", len(blocks)))

	entries := make([]Entry, 0, len(blocks))
	for _, block := range blocks {
		entry, err := s.validator.Validate(block)
		if err != nil {
			return nil, err
		}
		if block.Calories == nil {
			entry.CaloriesBurned = s.estimator.Estimate(entry)
		}
		entry.Owner = owner
		entries = append(entries, entry)
	}

	return s.repo.AddAll(ctx, entries)
}

// GetDashboard aggregates the owner's last two weeks, ending on referenceDate.
func (s *Service) GetDashboard(ctx context.Context, owner int, referenceDate time.Time) (_ *DashboardSnapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("owner", owner))

	from, to := DashboardWindow(referenceDate)
	entries, err := s.repo.ListByOwnerAndDateRange(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}

	snapshot := Aggregate(owner, referenceDate, entries)
	return &snapshot, nil
}

func (s *Service) GetWorkoutsForDate(ctx context.Context, owner int, date time.Time) ([]Entry, error) {
	return s.repo.ListByOwnerAndDate(ctx, owner, pkg.Day(date))
}

// Today is the current ingestion date.
func (s *Service) Today() time.Time {
	return s.validator.Today()
}
