package handler

import (
	"net/http"

	"github.com/fitbloom/fitbloom/internal/ctxkeys"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/service"
)

type ArticleHandler struct {
	articleService *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

type articleListResponse struct {
	Articles []*model.Article `json:"articles"`
	Total    int              `json:"total"`
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())

	var input service.ArticleInput
	if !decodeJSON(w, r, &input) {
		return
	}

	article, err := h.articleService.Create(doctorID, input)
	if err != nil {
		handleServiceError(w, err, "failed to create article", "doctor_id", doctorID)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

// Import creates an article from a markdown document sent as the request body.
func (h *ArticleHandler) Import(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	article, err := h.articleService.Import(doctorID, body)
	if err != nil {
		handleServiceError(w, err, "failed to import article", "doctor_id", doctorID)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())

	articles, total, err := h.articleService.DoctorArticles(doctorID)
	if err != nil {
		handleServiceError(w, err, "failed to list articles", "doctor_id", doctorID)
		return
	}

	writeJSON(w, http.StatusOK, articleListResponse{Articles: articles, Total: total})
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())
	id := r.PathValue("id")

	article, err := h.articleService.DoctorArticle(doctorID, id)
	if err != nil {
		handleServiceError(w, err, "failed to get article", "doctor_id", doctorID, "article_id", id)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())
	id := r.PathValue("id")

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	patch, err := service.ParseArticlePatch(body)
	if err != nil {
		handleServiceError(w, err, "failed to parse article patch", "doctor_id", doctorID, "article_id", id)
		return
	}

	article, err := h.articleService.Update(doctorID, id, patch)
	if err != nil {
		handleServiceError(w, err, "failed to update article", "doctor_id", doctorID, "article_id", id)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())
	id := r.PathValue("id")

	upload, closeFile, ok := imageUpload(w, r)
	if !ok {
		return
	}
	defer closeFile()

	article, err := h.articleService.UpdateImage(doctorID, id, upload)
	if err != nil {
		handleServiceError(w, err, "failed to upload article image", "doctor_id", doctorID, "article_id", id)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doctorID := ctxkeys.DoctorID(r.Context())
	id := r.PathValue("id")

	err := h.articleService.Delete(doctorID, id)
	if err != nil {
		handleServiceError(w, err, "failed to delete article", "doctor_id", doctorID, "article_id", id)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Article deleted", ID: id})
}

func (h *ArticleHandler) Published(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleService.Published()
	if err != nil {
		handleServiceError(w, err, "failed to list published articles")
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

func (h *ArticleHandler) View(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	article, err := h.articleService.View(id)
	if err != nil {
		handleServiceError(w, err, "failed to view article", "article_id", id)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (h *ArticleHandler) Like(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	article, err := h.articleService.Like(id)
	if err != nil {
		handleServiceError(w, err, "failed to like article", "article_id", id)
		return
	}

	writeJSON(w, http.StatusOK, article)
}
