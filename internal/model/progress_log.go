package model

import (
	"time"
)

// ProgressLog is one signed increment applied to a goal's current value.
type ProgressLog struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"-"`
	Position  int       `db:"position" json:"-"`
	Value     float64   `db:"value" json:"value"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
