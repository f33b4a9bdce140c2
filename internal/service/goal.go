package service

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/google/uuid"
)

const (
	maxGoalTitle       = 160
	maxGoalDescription = 500
	maxGoalUnit        = 40
)

// GoalInput carries the fields of a new goal as received from clients.
type GoalInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Target      *float64 `json:"target"`
	Unit        string   `json:"unit"`
	Category    string   `json:"category"`
	TargetDate  string   `json:"targetDate"`
}

// GoalPatch holds the metadata fields a client may change. A nil field is
// left untouched; a TargetDate pointing at "" clears the date.
type GoalPatch struct {
	Title       *string
	Description *string
	Target      *float64
	Unit        *string
	Category    *string
	TargetDate  *string
}

var goalPatchFields = map[string]bool{
	"title":       true,
	"description": true,
	"target":      true,
	"unit":        true,
	"category":    true,
	"targetDate":  true,
}

type GoalService struct {
	repo repository.GoalRepository
	now  func() time.Time
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	now := s.now()
	for _, g := range goals {
		g.Derive(now)
	}
	return goals, nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Derive(s.now())
	return goal, nil
}

func (s *GoalService) Create(userID string, input GoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(input.Title)
	unit := strings.TrimSpace(input.Unit)
	if title == "" || unit == "" || input.Target == nil || *input.Target == 0 {
		return nil, invalid("", "Title, target and unit are required")
	}

	now := s.now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Target:      *input.Target,
		Unit:        unit,
		Current:     0,
		Category:    model.GoalCategoryOther,
		LogCount:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Category != "" {
		category, err := normalizeGoalCategory(input.Category)
		if err != nil {
			return nil, err
		}
		goal.Category = category
	}

	if input.TargetDate != "" {
		date, err := parseTargetDate(input.TargetDate)
		if err != nil {
			return nil, err
		}
		goal.TargetDate = date
	}

	err := validateGoal(goal)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	goal.Derive(now)
	return goal, nil
}

// Patch applies a metadata patch. Progress is only ever changed through LogProgress.
func (s *GoalService) Patch(userID, goalID string, patch *GoalPatch) (*model.Goal, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		goal.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		goal.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Target != nil {
		goal.Target = *patch.Target
	}
	if patch.Unit != nil {
		goal.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.Category != nil {
		category, err := normalizeGoalCategory(*patch.Category)
		if err != nil {
			return nil, err
		}
		goal.Category = category
	}
	if patch.TargetDate != nil {
		goal.TargetDate = nil
		if *patch.TargetDate != "" {
			date, err := parseTargetDate(*patch.TargetDate)
			if err != nil {
				return nil, err
			}
			goal.TargetDate = date
		}
	}

	if goal.Title == "" || goal.Unit == "" || goal.Target == 0 {
		return nil, invalid("", "Title, target and unit are required")
	}

	err = validateGoal(goal)
	if err != nil {
		return nil, err
	}

	goal.UpdatedAt = s.now()
	err = s.repo.UpdateMetadata(goal)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	goal.Derive(goal.UpdatedAt)
	return goal, nil
}

// LogProgress appends a signed entry and adds it to the goal's current value.
// Negative values act as corrections but may not take current below zero.
func (s *GoalService) LogProgress(userID, goalID string, value float64, note string) (*model.Goal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, invalid("value", "Numeric 'value' is required to log progress")
	}

	entry := &model.ProgressLog{
		ID:        uuid.New().String(),
		Value:     value,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now(),
	}

	err := s.repo.AppendLog(userID, goalID, entry)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, err
		}
		if errors.Is(err, repository.ErrNegativeProgress) {
			return nil, invalid("value", "Progress cannot drop below zero")
		}
		if errors.Is(err, repository.ErrProgressOverflow) {
			return nil, invalid("value", "Progress total is too large")
		}
		return nil, fmt.Errorf("failed to log progress: %w", err)
	}

	return s.ByID(userID, goalID)
}

// Delete removes the goal and its log and returns the deleted id.
func (s *GoalService) Delete(userID, goalID string) (string, error) {
	err := s.repo.Delete(userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return "", err
		}
		return "", fmt.Errorf("failed to delete goal: %w", err)
	}
	return goalID, nil
}

// ParseGoalPatch decodes a PATCH body. Fields outside the metadata set, such
// as current, logs or status, are rejected.
func ParseGoalPatch(data []byte) (*GoalPatch, error) {
	raw, err := decodePatch(data, goalPatchFields)
	if err != nil {
		return nil, err
	}

	patch := &GoalPatch{}
	for key, value := range raw {
		switch key {
		case "title":
			patch.Title, err = decodeString(key, value)
		case "description":
			patch.Description, err = decodeString(key, value)
		case "unit":
			patch.Unit, err = decodeString(key, value)
		case "category":
			patch.Category, err = decodeString(key, value)
		case "target":
			patch.Target, err = decodeNumber(key, value)
		case "targetDate":
			if isNull(value) {
				empty := ""
				patch.TargetDate = &empty
				continue
			}
			patch.TargetDate, err = decodeString(key, value)
		}
		if err != nil {
			return nil, err
		}
	}

	return patch, nil
}

func validateGoal(goal *model.Goal) error {
	if utf8.RuneCountInString(goal.Title) > maxGoalTitle {
		return invalid("title", "Title must be at most %d characters", maxGoalTitle)
	}
	if utf8.RuneCountInString(goal.Description) > maxGoalDescription {
		return invalid("description", "Description must be at most %d characters", maxGoalDescription)
	}
	if utf8.RuneCountInString(goal.Unit) > maxGoalUnit {
		return invalid("unit", "Unit must be at most %d characters", maxGoalUnit)
	}
	if math.IsNaN(goal.Target) || math.IsInf(goal.Target, 0) || goal.Target < 0 {
		return invalid("target", "Target must be a non-negative number")
	}
	if !slices.Contains(model.GoalCategories, goal.Category) {
		return invalid("category", "Category must be one of %s", strings.Join(model.GoalCategories, ", "))
	}
	return nil
}

// normalizeGoalCategory trims the category and requires an exact enum match.
func normalizeGoalCategory(category string) (string, error) {
	normalized := strings.TrimSpace(category)
	if !slices.Contains(model.GoalCategories, normalized) {
		return "", invalid("category", "Category must be one of %s", strings.Join(model.GoalCategories, ", "))
	}
	return normalized, nil
}

// parseTargetDate accepts a calendar date or an RFC 3339 timestamp and keeps
// only the UTC date.
func parseTargetDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, invalid("targetDate", "Target date must be a date (YYYY-MM-DD)")
		}
	}

	y, m, d := t.UTC().Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &date, nil
}
