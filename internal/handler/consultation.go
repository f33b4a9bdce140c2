package handler

import (
	"net/http"

	"github.com/fitbloom/fitbloom/internal/ctxkeys"
	"github.com/fitbloom/fitbloom/internal/service"
)

type ConsultationHandler struct {
	consultationService *service.ConsultationService
}

func NewConsultationHandler(consultationService *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{
		consultationService: consultationService,
	}
}

func (h *ConsultationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	consultations, err := h.consultationService.Consultations(userID)
	if err != nil {
		handleServiceError(w, err, "failed to list consultations", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, consultations)
}

func (h *ConsultationHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var input service.BookingInput
	if !decodeJSON(w, r, &input) {
		return
	}

	consultation, err := h.consultationService.Book(userID, input)
	if err != nil {
		handleServiceError(w, err, "failed to book consultation", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, consultation)
}

func (h *ConsultationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	consultationID := r.PathValue("id")

	id, err := h.consultationService.Cancel(userID, consultationID)
	if err != nil {
		handleServiceError(w, err, "failed to cancel consultation", "user_id", userID, "consultation_id", consultationID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Consultation cancelled", ID: id})
}
