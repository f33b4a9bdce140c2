package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fitbloom/fitbloom/internal/ctxkeys"
	"github.com/fitbloom/fitbloom/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type logProgressRequest struct {
	Value json.RawMessage `json:"value"`
	Note  string          `json:"note"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goals, err := h.goalService.Goals(userID)
	if err != nil {
		handleServiceError(w, err, "failed to list goals", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var input service.GoalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	goal, err := h.goalService.Create(userID, input)
	if err != nil {
		handleServiceError(w, err, "failed to create goal", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	patch, err := service.ParseGoalPatch(body)
	if err != nil {
		handleServiceError(w, err, "failed to parse goal patch", "user_id", userID, "goal_id", goalID)
		return
	}

	goal, err := h.goalService.Patch(userID, goalID, patch)
	if err != nil {
		handleServiceError(w, err, "failed to update goal", "user_id", userID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// LogProgress appends {value, note} to the goal's log. value must be a JSON number.
func (h *GoalHandler) LogProgress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	var req logProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var value *float64
	if len(req.Value) == 0 || json.Unmarshal(req.Value, &value) != nil || value == nil {
		writeError(w, http.StatusBadRequest, "Numeric 'value' is required to log progress")
		return
	}

	goal, err := h.goalService.LogProgress(userID, goalID, *value, req.Note)
	if err != nil {
		handleServiceError(w, err, "failed to log progress", "user_id", userID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	id, err := h.goalService.Delete(userID, goalID)
	if err != nil {
		handleServiceError(w, err, "failed to delete goal", "user_id", userID, "goal_id", goalID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Goal deleted", ID: id})
}
