package handler

import (
	"net/http"

	"github.com/fitbloom/fitbloom/internal/ctxkeys"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/service"
)

type DoctorHandler struct {
	doctorService       *service.DoctorService
	consultationService *service.ConsultationService
}

func NewDoctorHandler(doctorService *service.DoctorService, consultationService *service.ConsultationService) *DoctorHandler {
	return &DoctorHandler{
		doctorService:       doctorService,
		consultationService: consultationService,
	}
}

type doctorAuthResponse struct {
	Token  string        `json:"token"`
	Doctor *model.Doctor `json:"doctor"`
}

type appointmentStatusRequest struct {
	Status string `json:"status"`
}

func (h *DoctorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.DoctorInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.IsActive = nil

	doctor, token, err := h.doctorService.Register(input)
	if err != nil {
		handleServiceError(w, err, "failed to register doctor", "email", input.Email)
		return
	}

	writeJSON(w, http.StatusCreated, doctorAuthResponse{Token: token, Doctor: doctor})
}

func (h *DoctorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	doctor, token, err := h.doctorService.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, "failed to log in doctor", "email", req.Email)
		return
	}

	writeJSON(w, http.StatusOK, doctorAuthResponse{Token: token, Doctor: doctor})
}

func (h *DoctorHandler) Me(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())

	doctor, err := h.doctorService.ByID(doctorID)
	if err != nil {
		handleServiceError(w, err, "failed to get doctor", "doctor_id", doctorID)
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	patch, err := service.ParseDoctorPatch(body)
	if err != nil {
		handleServiceError(w, err, "failed to parse doctor patch", "doctor_id", doctorID)
		return
	}

	doctor, err := h.doctorService.Update(doctorID, patch)
	if err != nil {
		handleServiceError(w, err, "failed to update doctor", "doctor_id", doctorID)
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())

	upload, closeFile, ok := imageUpload(w, r)
	if !ok {
		return
	}
	defer closeFile()

	doctor, err := h.doctorService.UpdateImage(doctorID, upload)
	if err != nil {
		handleServiceError(w, err, "failed to upload doctor image", "doctor_id", doctorID)
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}

// PublicProfile shows the practice's doctor to anonymous visitors.
func (h *DoctorHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.doctorService.PublicProfile()
	if err != nil {
		handleServiceError(w, err, "failed to get public doctor profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *DoctorHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.consultationService.Appointments()
	if err != nil {
		handleServiceError(w, err, "failed to list appointments", "doctor_id", ctxkeys.DoctorID(r.Context()))
		return
	}

	writeJSON(w, http.StatusOK, appointments)
}

func (h *DoctorHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req appointmentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	consultation, err := h.consultationService.UpdateStatus(id, req.Status)
	if err != nil {
		handleServiceError(w, err, "failed to update appointment", "consultation_id", id)
		return
	}

	writeJSON(w, http.StatusOK, consultation)
}

func (h *DoctorHandler) ActiveClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.consultationService.ActiveClients()
	if err != nil {
		handleServiceError(w, err, "failed to list active clients", "doctor_id", ctxkeys.DoctorID(r.Context()))
		return
	}

	writeJSON(w, http.StatusOK, clients)
}
