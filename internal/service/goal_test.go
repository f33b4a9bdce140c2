package service

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
)

func TestCreateGoal(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")

	goal, err := s.goals.Create(user.ID, GoalInput{
		Title:      "  Drink water ",
		Target:     ptr(8.0),
		Unit:       "glasses",
		Category:   " Nutrition ",
		TargetDate: "2030-01-31",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if goal.Title != "Drink water" {
		t.Errorf("title = %q", goal.Title)
	}
	if goal.Category != model.GoalCategoryNutrition {
		t.Errorf("category = %q", goal.Category)
	}
	if goal.Current != 0 || len(goal.Logs) != 0 {
		t.Errorf("new goal has progress: current=%v logs=%d", goal.Current, len(goal.Logs))
	}
	if goal.Status != model.GoalStatusActive {
		t.Errorf("status = %q", goal.Status)
	}
	if goal.TargetDate == nil || !goal.TargetDate.Equal(time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("target date = %v", goal.TargetDate)
	}

	stored, err := s.goals.ByID(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if stored.Category != model.GoalCategoryNutrition || stored.Target != 8 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCreateGoalDefaultsCategory(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")

	goal, err := s.goals.Create(user.ID, GoalInput{Title: "Sleep", Target: ptr(7.5), Unit: "hours"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.Category != model.GoalCategoryOther {
		t.Errorf("category = %q, want Other", goal.Category)
	}
	if goal.TargetDate != nil {
		t.Errorf("target date = %v, want nil", goal.TargetDate)
	}
}

func TestCreateGoalValidation(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")

	tests := []struct {
		name    string
		input   GoalInput
		message string
	}{
		{"missing title", GoalInput{Target: ptr(5.0), Unit: "km"}, "Title, target and unit are required"},
		{"missing unit", GoalInput{Title: "Run", Target: ptr(5.0)}, "Title, target and unit are required"},
		{"missing target", GoalInput{Title: "Run", Unit: "km"}, "Title, target and unit are required"},
		{"zero target", GoalInput{Title: "Run", Target: ptr(0.0), Unit: "km"}, "Title, target and unit are required"},
		{"negative target", GoalInput{Title: "Run", Target: ptr(-1.0), Unit: "km"}, "Target must be a non-negative number"},
		{"infinite target", GoalInput{Title: "Run", Target: ptr(math.Inf(1)), Unit: "km"}, "Target must be a non-negative number"},
		{"unknown category", GoalInput{Title: "Run", Target: ptr(5.0), Unit: "km", Category: "Chess"}, ""},
		{"category case", GoalInput{Title: "Run", Target: ptr(5.0), Unit: "km", Category: "nutrition"}, "Category must be one of Nutrition, Exercise, Sleep, Mindfulness, Other"},
		{"bad date", GoalInput{Title: "Run", Target: ptr(5.0), Unit: "km", TargetDate: "next week"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.goals.Create(user.ID, tt.input)
			wantValidation(t, err, tt.message)
		})
	}

	goals, err := s.goals.Goals(user.ID)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if len(goals) != 0 {
		t.Fatalf("rejected goals were stored: %d", len(goals))
	}
}

func TestLogProgressAccumulates(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, err := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	values := []float64{2.5, 3, -1, 4}
	var updated *model.Goal
	for _, v := range values {
		updated, err = s.goals.LogProgress(user.ID, goal.ID, v, "")
		if err != nil {
			t.Fatalf("log %v: %v", v, err)
		}
	}

	if updated.Current != 8.5 {
		t.Errorf("current = %v, want 8.5", updated.Current)
	}
	if len(updated.Logs) != len(values) {
		t.Fatalf("logs = %d, want %d", len(updated.Logs), len(values))
	}

	var sum float64
	for i, l := range updated.Logs {
		if l.Value != values[i] {
			t.Errorf("log %d = %v, want %v", i, l.Value, values[i])
		}
		sum += l.Value
	}
	if sum != updated.Current {
		t.Errorf("sum of logs %v != current %v", sum, updated.Current)
	}
	if updated.Status != model.GoalStatusActive {
		t.Errorf("status = %q", updated.Status)
	}

	updated, err = s.goals.LogProgress(user.ID, goal.ID, 1.5, "done")
	if err != nil {
		t.Fatalf("final log: %v", err)
	}
	if updated.Status != model.GoalStatusCompleted {
		t.Errorf("status = %q, want Completed", updated.Status)
	}
	if updated.Logs[len(updated.Logs)-1].Note != "done" {
		t.Errorf("note = %q", updated.Logs[len(updated.Logs)-1].Note)
	}
}

func TestLogProgressRejectsNegativeTotal(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})

	if _, err := s.goals.LogProgress(user.ID, goal.ID, 2, ""); err != nil {
		t.Fatalf("log: %v", err)
	}

	_, err := s.goals.LogProgress(user.ID, goal.ID, -3, "")
	wantValidation(t, err, "Progress cannot drop below zero")

	stored, err := s.goals.ByID(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if stored.Current != 2 || len(stored.Logs) != 1 {
		t.Errorf("rejected log changed state: current=%v logs=%d", stored.Current, len(stored.Logs))
	}
}

func TestLogProgressRejectsNonFinite(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})

	_, err := s.goals.LogProgress(user.ID, goal.ID, math.NaN(), "")
	wantValidation(t, err, "Numeric 'value' is required to log progress")

	_, err = s.goals.LogProgress(user.ID, goal.ID, math.Inf(1), "")
	wantValidation(t, err, "Numeric 'value' is required to log progress")
}

func TestLogProgressRejectsOverflowingTotal(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})

	if _, err := s.goals.LogProgress(user.ID, goal.ID, 1e308, ""); err != nil {
		t.Fatalf("first log: %v", err)
	}

	_, err := s.goals.LogProgress(user.ID, goal.ID, 1e308, "")
	wantValidation(t, err, "Progress total is too large")

	goals, err := s.goals.Goals(user.ID)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if len(goals) != 1 || math.IsInf(goals[0].Current, 0) || goals[0].Current != 1e308 || len(goals[0].Logs) != 1 {
		t.Errorf("goal changed by rejected log: %+v", goals[0])
	}
}

func TestGoalsAreScopedToOwner(t *testing.T) {
	s := newTestServices(t)
	ann := s.createUser(t, "ann@example.com")
	bob := s.createUser(t, "bob@example.com")

	goal, _ := s.goals.Create(ann.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})

	if _, err := s.goals.ByID(bob.ID, goal.ID); !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("by id: err = %v", err)
	}
	if _, err := s.goals.LogProgress(bob.ID, goal.ID, 1, ""); !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("log: err = %v", err)
	}
	if _, err := s.goals.Patch(bob.ID, goal.ID, &GoalPatch{Title: ptr("Mine")}); !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("patch: err = %v", err)
	}
	if _, err := s.goals.Delete(bob.ID, goal.ID); !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("delete: err = %v", err)
	}

	goals, _ := s.goals.Goals(bob.ID)
	if len(goals) != 0 {
		t.Errorf("bob sees %d goals", len(goals))
	}

	stored, err := s.goals.ByID(ann.ID, goal.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if stored.Title != "Run" || stored.Current != 0 || len(stored.Logs) != 0 {
		t.Errorf("goal changed by another user: %+v", stored)
	}
}

func TestLogProgressUnknownGoal(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")

	_, err := s.goals.LogProgress(user.ID, "missing", 1, "")
	if !errors.Is(err, repository.ErrGoalNotFound) {
		t.Fatalf("err = %v, want ErrGoalNotFound", err)
	}
}

func TestConcurrentLogProgress(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Steps", Target: ptr(1000.0), Unit: "steps"})

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.goals.LogProgress(user.ID, goal.ID, 1, "")
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("log: %v", err)
	}

	stored, err := s.goals.ByID(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if stored.Current != workers {
		t.Errorf("current = %v, want %d", stored.Current, workers)
	}
	if len(stored.Logs) != workers {
		t.Errorf("logs = %d, want %d", len(stored.Logs), workers)
	}
}

func TestPatchGoal(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km", TargetDate: "2030-05-01"})
	if _, err := s.goals.LogProgress(user.ID, goal.ID, 4, ""); err != nil {
		t.Fatalf("log: %v", err)
	}

	patch, err := ParseGoalPatch([]byte(`{"title":"Run far","target":20,"category":"Exercise","targetDate":null}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	updated, err := s.goals.Patch(user.ID, goal.ID, patch)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	if updated.Title != "Run far" || updated.Target != 20 || updated.Category != model.GoalCategoryExercise {
		t.Errorf("updated = %+v", updated)
	}
	if updated.TargetDate != nil {
		t.Errorf("target date not cleared: %v", updated.TargetDate)
	}
	if updated.Current != 4 || len(updated.Logs) != 1 {
		t.Errorf("patch touched progress: current=%v logs=%d", updated.Current, len(updated.Logs))
	}
}

func TestParseGoalPatchRejectsProgressFields(t *testing.T) {
	for _, body := range []string{
		`{"current":5}`,
		`{"title":"x","logs":[]}`,
		`{"status":"Completed"}`,
	} {
		_, err := ParseGoalPatch([]byte(body))
		wantValidation(t, err, "")
	}

	_, err := ParseGoalPatch([]byte(`{"current":5}`))
	wantValidation(t, err, "Field 'current' cannot be updated")

	_, err = ParseGoalPatch([]byte(`{"target":"ten"}`))
	wantValidation(t, err, "Field 'target' must be a number")

	_, err = ParseGoalPatch([]byte(`[1,2]`))
	wantValidation(t, err, "Request body must be a JSON object")
}

func TestPatchGoalRequiresFields(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})

	_, err := s.goals.Patch(user.ID, goal.ID, &GoalPatch{Title: ptr("  ")})
	wantValidation(t, err, "Title, target and unit are required")

	stored, _ := s.goals.ByID(user.ID, goal.ID)
	if stored.Title != "Run" {
		t.Errorf("title = %q after rejected patch", stored.Title)
	}
}

func TestDeleteGoal(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km"})
	if _, err := s.goals.LogProgress(user.ID, goal.ID, 1, ""); err != nil {
		t.Fatalf("log: %v", err)
	}

	id, err := s.goals.Delete(user.ID, goal.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if id != goal.ID {
		t.Errorf("deleted id = %q", id)
	}

	goals, _ := s.goals.Goals(user.ID)
	if len(goals) != 0 {
		t.Errorf("goals = %d after delete", len(goals))
	}

	var logs int
	if err := s.db.Get(&logs, `SELECT COUNT(*) FROM goal_logs`); err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs != 0 {
		t.Errorf("orphaned logs = %d", logs)
	}

	if _, err := s.goals.LogProgress(user.ID, goal.ID, 1, ""); !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("log after delete: err = %v", err)
	}
	if _, err := s.goals.Delete(user.ID, goal.ID); !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestGoalPastDue(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")
	goal, _ := s.goals.Create(user.ID, GoalInput{Title: "Run", Target: ptr(10.0), Unit: "km", TargetDate: "2030-05-01"})

	s.goals.now = func() time.Time { return time.Date(2030, 5, 2, 9, 0, 0, 0, time.UTC) }

	goals, err := s.goals.Goals(user.ID)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != goal.ID {
		t.Fatalf("goals = %+v", goals)
	}
	if goals[0].Status != model.GoalStatusPastDue {
		t.Errorf("status = %q, want Past due", goals[0].Status)
	}
}

func TestGoalsListInCreationOrder(t *testing.T) {
	s := newTestServices(t)
	user := s.createUser(t, "ann@example.com")

	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	var ids []string
	for i, title := range []string{"First", "Second", "Third"} {
		s.goals.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		g, err := s.goals.Create(user.ID, GoalInput{Title: title, Target: ptr(1.0), Unit: "x"})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		ids = append(ids, g.ID)
	}

	goals, err := s.goals.Goals(user.ID)
	if err != nil {
		t.Fatalf("goals: %v", err)
	}
	for i, g := range goals {
		if g.ID != ids[i] {
			t.Errorf("goal %d = %s, want %s", i, g.Title, ids[i])
		}
	}
}
