package workouts

import (
	"time"

	"github.com/2beens/workoutlog/pkg"
)

// days in the dashboard week, today included
const windowDays = 7

type PercentChange struct {
	// Percent is nil when there is nothing to compare against.
	Percent     *float64 `json:"percent,omitempty"`
	NoPriorData bool     `json:"noPriorData"`
}

type PercentChanges struct {
	TotalCalories   PercentChange `json:"totalCalories"`
	TotalWorkouts   PercentChange `json:"totalWorkouts"`
	AverageCalories PercentChange `json:"averageCalories"`
}

type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

type DayTotal struct {
	Day           string  `json:"day"`
	TotalCalories float64 `json:"totalCalories"`
}

// DashboardSnapshot is computed on every request and never stored.
type DashboardSnapshot struct {
	ReferenceDate                 string          `json:"referenceDate"`
	TotalCaloriesToday            float64         `json:"totalCaloriesToday"`
	TotalWorkoutsToday            int             `json:"totalWorkoutsToday"`
	TotalCaloriesThisWeek         float64         `json:"totalCaloriesThisWeek"`
	TotalWorkoutsThisWeek         int             `json:"totalWorkoutsThisWeek"`
	AverageCaloriesPerWorkout     float64         `json:"averageCaloriesPerWorkout"`
	PercentChangeVsPreviousPeriod PercentChanges  `json:"percentChangeVsPreviousPeriod"`
	CategoryDistribution          []CategoryValue `json:"pieChartData"`
	WeeklySeries                  []DayTotal      `json:"weeklySeries"`
}

type periodTotals struct {
	calories float64
	workouts int
}

func (p periodTotals) average() float64 {
	return p.calories / float64(max(1, p.workouts))
}

// DashboardWindow returns the first and last day of entries Aggregate looks at:
// this week and the week before it.
func DashboardWindow(referenceDate time.Time) (from, to time.Time) {
	to = pkg.Day(referenceDate)
	return to.AddDate(0, 0, -(2*windowDays - 1)), to
}

// Aggregate builds the owner's dashboard for the week ending on referenceDate.
// Entries of other owners or outside the two week window are ignored.
func Aggregate(owner int, referenceDate time.Time, entries []Entry) DashboardSnapshot {
	today := pkg.Day(referenceDate)
	weekStart := today.AddDate(0, 0, -(windowDays - 1))
	priorStart, _ := DashboardWindow(referenceDate)
	priorEnd := weekStart.AddDate(0, 0, -1)

	snapshot := DashboardSnapshot{
		ReferenceDate:        today.Format(dateLayout),
		CategoryDistribution: make([]CategoryValue, 0),
		WeeklySeries:         make([]DayTotal, windowDays),
	}
	for i := range snapshot.WeeklySeries {
		snapshot.WeeklySeries[i].Day = weekStart.AddDate(0, 0, i).Format(dateLayout)
	}

	var week, prior periodTotals
	categoryIndex := make(map[string]int)
	for _, e := range entries {
		if e.Owner != owner {
			continue
		}
		day := pkg.Day(e.Date)
		switch {
		case inRange(day, weekStart, today):
			week.calories += e.CaloriesBurned
			week.workouts++
			if day.Equal(today) {
				snapshot.TotalCaloriesToday += e.CaloriesBurned
				snapshot.TotalWorkoutsToday++
			}

			dayIdx := int(day.Sub(weekStart).Hours() / 24)
			snapshot.WeeklySeries[dayIdx].TotalCalories += e.CaloriesBurned

			idx, ok := categoryIndex[e.Category]
			if !ok {
				idx = len(snapshot.CategoryDistribution)
				categoryIndex[e.Category] = idx
				snapshot.CategoryDistribution = append(snapshot.CategoryDistribution, CategoryValue{Category: e.Category})
			}
			snapshot.CategoryDistribution[idx].Value += e.CaloriesBurned
		case inRange(day, priorStart, priorEnd):
			prior.calories += e.CaloriesBurned
			prior.workouts++
		}
	}

	snapshot.TotalCaloriesThisWeek = week.calories
	snapshot.TotalWorkoutsThisWeek = week.workouts
	snapshot.AverageCaloriesPerWorkout = week.average()
	snapshot.PercentChangeVsPreviousPeriod = percentChanges(week, prior)

	return snapshot
}

func percentChanges(week, prior periodTotals) PercentChanges {
	if prior.workouts == 0 {
		noData := PercentChange{NoPriorData: true}
		return PercentChanges{
			TotalCalories:   noData,
			TotalWorkouts:   noData,
			AverageCalories: noData,
		}
	}
	return PercentChanges{
		TotalCalories:   percentChange(week.calories, prior.calories),
		TotalWorkouts:   percentChange(float64(week.workouts), float64(prior.workouts)),
		AverageCalories: percentChange(week.average(), prior.average()),
	}
}

func percentChange(current, previous float64) PercentChange {
	if previous == 0 {
		return PercentChange{NoPriorData: true}
	}
	percent := round2((current - previous) / previous * 100)
	return PercentChange{Percent: &percent}
}

func inRange(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
