package repository

import (
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/fitbloom/fitbloom/internal/db"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrNegativeProgress = errors.New("progress cannot drop below zero")
	ErrProgressOverflow = errors.New("progress total out of range")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	UpdateMetadata(goal *model.Goal) error
	AppendLog(userID, goalID string, entry *model.ProgressLog) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, target, unit, current_value, category, target_date, log_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Target,
		goal.Unit,
		goal.Current,
		goal.Category,
		goal.TargetDate,
		goal.LogCount,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// ByID returns the goal with its logs, scoped to the owner.
func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	goal.Logs = []*model.ProgressLog{}
	err = r.db.Select(&goal.Logs, `SELECT * FROM goal_logs WHERE goal_id = $1 ORDER BY position ASC`, goalID)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Goals returns every goal of the owner in creation order, logs attached.
func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	err := r.db.Select(&goals, `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return goals, nil
	}

	var logs []*model.ProgressLog
	query := `SELECT l.* FROM goal_logs l
	          JOIN goals g ON g.id = l.goal_id
	          WHERE g.user_id = $1
	          ORDER BY l.goal_id, l.position ASC`

	err = r.db.Select(&logs, query, userID)
	if err != nil {
		return nil, err
	}

	byGoal := make(map[string][]*model.ProgressLog, len(goals))
	for _, l := range logs {
		byGoal[l.GoalID] = append(byGoal[l.GoalID], l)
	}
	for _, g := range goals {
		g.Logs = byGoal[g.ID]
		if g.Logs == nil {
			g.Logs = []*model.ProgressLog{}
		}
	}

	return goals, nil
}

// UpdateMetadata writes the descriptive fields of a goal. It never touches
// current_value or the log.
func (r *goalRepository) UpdateMetadata(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, target = $3, unit = $4, category = $5, target_date = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.Description,
		goal.Target,
		goal.Unit,
		goal.Category,
		goal.TargetDate,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// AppendLog adds entry.Value to the goal's current value and appends the entry
// in a single transaction. The increment happens in SQL so concurrent appends
// never overwrite each other. The new total must stay within [0, MaxFloat64];
// the bounds are applied to current_value alone so the comparison never
// overflows. entry.CreatedAt doubles as the goal's updated_at.
func (r *goalRepository) AppendLog(userID, goalID string, entry *model.ProgressLog) error {
	floor := -entry.Value
	ceiling := math.MaxFloat64
	if entry.Value > 0 {
		ceiling = math.MaxFloat64 - entry.Value
	}

	return db.Tx(r.db, func(tx *sqlx.Tx) error {
		var position int
		query := `UPDATE goals
		          SET current_value = current_value + $1, log_count = log_count + 1, updated_at = $2
		          WHERE id = $3 AND user_id = $4 AND current_value >= $5 AND current_value <= $6
		          RETURNING log_count`

		err := tx.Get(&position, query, entry.Value, entry.CreatedAt, goalID, userID, floor, ceiling)
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			err = tx.Get(&count, `SELECT COUNT(*) FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
			if err != nil {
				return err
			}
			if count == 0 {
				return ErrGoalNotFound
			}
			if entry.Value > 0 {
				return ErrProgressOverflow
			}
			return ErrNegativeProgress
		}
		if err != nil {
			return err
		}

		entry.GoalID = goalID
		entry.Position = position

		_, err = tx.Exec(`INSERT INTO goal_logs (id, goal_id, position, value, note, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			entry.ID,
			entry.GoalID,
			entry.Position,
			entry.Value,
			entry.Note,
			entry.CreatedAt,
		)
		return err
	})
}

// Delete removes the goal and its logs together.
func (r *goalRepository) Delete(userID, goalID string) error {
	return db.Tx(r.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`DELETE FROM goal_logs WHERE goal_id IN (SELECT id FROM goals WHERE id = $1 AND user_id = $2)`, goalID, userID)
		if err != nil {
			return err
		}

		result, err := tx.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrGoalNotFound
		}

		return nil
	})
}

func utcNow() time.Time {
	return time.Now().UTC()
}
