package handler

import (
	"net/http"

	"github.com/fitbloom/fitbloom/internal/service"
)

type AdminHandler struct {
	doctorService  *service.DoctorService
	articleService *service.ArticleService
}

func NewAdminHandler(doctorService *service.DoctorService, articleService *service.ArticleService) *AdminHandler {
	return &AdminHandler{
		doctorService:  doctorService,
		articleService: articleService,
	}
}

type adminArticleRequest struct {
	DoctorID string `json:"doctorId"`
	service.ArticleInput
}

func (h *AdminHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorService.Doctors()
	if err != nil {
		handleServiceError(w, err, "failed to list doctors")
		return
	}

	writeJSON(w, http.StatusOK, doctors)
}

func (h *AdminHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var input service.DoctorInput
	if !decodeJSON(w, r, &input) {
		return
	}

	doctor, err := h.doctorService.Create(input)
	if err != nil {
		handleServiceError(w, err, "failed to create doctor", "email", input.Email)
		return
	}

	writeJSON(w, http.StatusCreated, doctor)
}

func (h *AdminHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	patch, err := service.ParseDoctorAdminPatch(body)
	if err != nil {
		handleServiceError(w, err, "failed to parse doctor patch", "doctor_id", id)
		return
	}

	doctor, err := h.doctorService.Update(id, patch)
	if err != nil {
		handleServiceError(w, err, "failed to update doctor", "doctor_id", id)
		return
	}

	writeJSON(w, http.StatusOK, doctor)
}

func (h *AdminHandler) Articles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleService.Articles()
	if err != nil {
		handleServiceError(w, err, "failed to list articles")
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

// CreateArticle publishes an article on behalf of an existing doctor.
func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req adminArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.DoctorID == "" {
		writeError(w, http.StatusBadRequest, "doctorId is required")
		return
	}

	doctor, err := h.doctorService.ByID(req.DoctorID)
	if err != nil {
		handleServiceError(w, err, "failed to get doctor", "doctor_id", req.DoctorID)
		return
	}

	article, err := h.articleService.Create(doctor.ID, req.ArticleInput)
	if err != nil {
		handleServiceError(w, err, "failed to create article", "doctor_id", doctor.ID)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}
