package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// name of the (owner_id, name) unique constraint on the workout table
const ownerNameConstraint = "workout_owner_name_key"

const insertWorkoutQuery = `
	INSERT INTO workout
		(owner_id, category, name, sets, reps, weight, duration, calories_burned, date, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id;`

const selectWorkoutColumns = `id, owner_id, category, name, sets, reps, weight, duration, calories_burned, date, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("owner", entry.Owner))

	added, err := insertEntry(ctx, r.db, entry)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workout.id", added.ID))
	return &added, nil
}

// AddAll stores all entries in one transaction, in the given order.
// Nothing is stored if any of them fails.
func (r *Repo) AddAll(ctx context.Context, entries []Entry) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("count", len(entries)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "begin tx", Err: err}
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = &RepositoryError{Op: "commit tx", Err: commitErr}
		}
	}()

	added := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		addedEntry, err := insertEntry(ctx, tx, entry)
		if err != nil {
			return nil, err
		}
		added = append(added, addedEntry)
	}

	return added, nil
}

// ListByOwnerAndDateRange returns the owner's entries with from <= date <= to,
// oldest first.
func (r *Repo) ListByOwnerAndDateRange(ctx context.Context, owner int, from, to time.Time) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listrange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("owner", owner),
		attribute.String("from", from.Format(dateLayout)),
		attribute.String("to", to.Format(dateLayout)),
	)

	rows, err := r.db.Query(ctx, `
		SELECT `+selectWorkoutColumns+`
		FROM workout
		WHERE owner_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, id ASC;`,
		owner, pkg.Day(from), pkg.Day(to),
	)
	if err != nil {
		return nil, &RepositoryError{Op: "list", Err: err}
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Owner, &e.Category, &e.Name, &e.Sets, &e.Reps,
			&e.Weight, &e.Duration, &e.CaloriesBurned, &e.Date, &e.CreatedAt,
		); err != nil {
			return nil, &RepositoryError{Op: "scan", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &RepositoryError{Op: "list", Err: err}
	}

	return entries, nil
}

func (r *Repo) ListByOwnerAndDate(ctx context.Context, owner int, date time.Time) ([]Entry, error) {
	return r.ListByOwnerAndDateRange(ctx, owner, date, date)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertEntry(ctx context.Context, db queryRower, entry Entry) (Entry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	err := db.QueryRow(ctx, insertWorkoutQuery,
		entry.Owner, entry.Category, entry.Name, entry.Sets, entry.Reps,
		entry.Weight, entry.Duration, entry.CaloriesBurned, pkg.Day(entry.Date), entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		if pkg.IsUniqueViolationOf(err, ownerNameConstraint) {
			return Entry{}, &ConflictError{Name: entry.Name}
		}
		return Entry{}, &RepositoryError{Op: "insert", Err: err}
	}
	entry.Date = pkg.Day(entry.Date)
	return entry, nil
}
