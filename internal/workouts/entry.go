package workouts

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Entry is a single logged workout owned by one user.
type Entry struct {
	ID             int       `json:"id"`
	Owner          int       `json:"-"`
	Category       string    `json:"category"`
	Name           string    `json:"workoutName"`
	Sets           int       `json:"sets"`
	Reps           int       `json:"reps"`
	Weight         float64   `json:"weight"`
	Duration       float64   `json:"duration"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"createdAt"`
}

// MarshalJSON writes the date as a plain calendar day.
func (e Entry) MarshalJSON() ([]byte, error) {
	type entryAlias Entry
	return json.Marshal(struct {
		entryAlias
		Date string `json:"date"`
	}{
		entryAlias: entryAlias(e),
		Date:       e.Date.Format(dateLayout),
	})
}
