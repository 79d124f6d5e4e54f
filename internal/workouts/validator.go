package workouts

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/workoutlog/internal/workouts/parser"
	"github.com/2beens/workoutlog/pkg"
)

type Validator struct {
	maxNameLength     int
	maxCategoryLength int
	location          *time.Location
	now               func() time.Time
}

// NewValidator creates a validator. Zero lengths disable the length checks,
// and the ingestion date is taken as today in loc.
func NewValidator(maxNameLength, maxCategoryLength int, loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{
		maxNameLength:     maxNameLength,
		maxCategoryLength: maxCategoryLength,
		location:          loc,
		now:               time.Now,
	}
}

// WithClock replaces the wall clock used to stamp the ingestion date.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate turns a parsed block into an entry without an owner. Calories are
// copied only when the block carries them explicitly.
func (v *Validator) Validate(block parser.Block) (Entry, error) {
	category := strings.TrimSpace(block.Category)
	name := strings.TrimSpace(block.Name)

	fail := func(field, msg string) (Entry, error) {
		return Entry{}, &ValidationError{
			Category: category,
			Name:     name,
			Field:    field,
			Msg:      msg,
		}
	}

	if category == "" {
		return fail("category", "must not be empty")
	}
	if v.maxCategoryLength > 0 && utf8.RuneCountInString(category) > v.maxCategoryLength {
		return fail("category", "is too long")
	}
	if name == "" {
		return fail("workoutName", "must not be empty")
	}
	if v.maxNameLength > 0 && utf8.RuneCountInString(name) > v.maxNameLength {
		return fail("workoutName", "is too long")
	}
	if block.Sets < 0 {
		return fail("sets", "must not be negative")
	}
	if block.Reps < 0 {
		return fail("reps", "must not be negative")
	}
	if !validQuantity(block.Weight) {
		return fail("weight", "must be a non-negative number")
	}
	if !validQuantity(block.Duration) {
		return fail("duration", "must be a non-negative number")
	}

	entry := Entry{
		Category: category,
		Name:     name,
		Sets:     block.Sets,
		Reps:     block.Reps,
		Weight:   block.Weight,
		Duration: block.Duration,
		Date:     v.Today(),
	}
	if block.Calories != nil {
		if !validQuantity(*block.Calories) {
			return fail("caloriesBurned", "must be a non-negative number")
		}
		entry.CaloriesBurned = *block.Calories
	}

	return entry, nil
}

// Today is the calendar day new entries are stamped with.
func (v *Validator) Today() time.Time {
	return pkg.Day(v.now().In(v.location))
}

func validQuantity(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0
}
