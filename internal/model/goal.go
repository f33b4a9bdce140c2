package model

import (
	"time"
)

const (
	GoalStatusActive    = "Active"
	GoalStatusCompleted = "Completed"
	GoalStatusPastDue   = "Past due"
)

const (
	GoalCategoryNutrition   = "Nutrition"
	GoalCategoryExercise    = "Exercise"
	GoalCategorySleep       = "Sleep"
	GoalCategoryMindfulness = "Mindfulness"
	GoalCategoryOther       = "Other"
)

var GoalCategories = []string{
	GoalCategoryNutrition,
	GoalCategoryExercise,
	GoalCategorySleep,
	GoalCategoryMindfulness,
	GoalCategoryOther,
}

type Goal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Target      float64    `db:"target" json:"target"`
	Unit        string     `db:"unit" json:"unit"`
	Current     float64    `db:"current_value" json:"current"`
	Category    string     `db:"category" json:"category"`
	TargetDate  *time.Time `db:"target_date" json:"targetDate"`
	LogCount    int        `db:"log_count" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	// Computed fields (not in database)
	Status string         `db:"-" json:"status"`
	Logs   []*ProgressLog `db:"-" json:"logs"`
}

// GoalStatus derives a goal's status at the given instant. A target date is a
// calendar day, so the goal only becomes past due once that day has ended.
func GoalStatus(current, target float64, targetDate *time.Time, now time.Time) string {
	if current >= target {
		return GoalStatusCompleted
	}
	if targetDate != nil {
		y, m, d := targetDate.UTC().Date()
		deadline := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		if !now.Before(deadline) {
			return GoalStatusPastDue
		}
	}
	return GoalStatusActive
}

// Derive fills the computed status for the given instant.
func (g *Goal) Derive(now time.Time) {
	g.Status = GoalStatus(g.Current, g.Target, g.TargetDate, now)
	if g.Logs == nil {
		g.Logs = []*ProgressLog{}
	}
}
