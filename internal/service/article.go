package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fitbloom/fitbloom/internal/markdown"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxArticlePreview   = 500
	publicArticlesLimit = 100
)

type ArticleInput struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Image    string `json:"image"`
	Preview  string `json:"preview"`
	Category string `json:"category"`
}

type ArticlePatch struct {
	Title       *string
	Link        *string
	Image       *string
	Preview     *string
	Category    *string
	IsPublished *bool
}

var articlePatchFields = map[string]bool{
	"title":       true,
	"link":        true,
	"image":       true,
	"preview":     true,
	"category":    true,
	"isPublished": true,
}

type ArticleService struct {
	repo        repository.ArticleRepository
	parser      *markdown.Parser
	fileService *FileService
}

func NewArticleService(repo repository.ArticleRepository, parser *markdown.Parser, fileService *FileService) *ArticleService {
	return &ArticleService{
		repo:        repo,
		parser:      parser,
		fileService: fileService,
	}
}

func (s *ArticleService) Create(doctorID string, input ArticleInput) (*model.Article, error) {
	now := time.Now().UTC()
	article := &model.Article{
		ID:          uuid.New().String(),
		DoctorID:    doctorID,
		Title:       strings.TrimSpace(input.Title),
		Link:        strings.TrimSpace(input.Link),
		Image:       strings.TrimSpace(input.Image),
		Preview:     strings.TrimSpace(input.Preview),
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Category != "" {
		category, err := normalizeArticleCategory(input.Category)
		if err != nil {
			return nil, err
		}
		article.Category = category
	}

	err := validateArticle(article)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(article)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.render(article)
	return article, nil
}

// Import creates an article from a markdown document. Front matter supplies
// title, link, image and category; the body becomes the preview.
func (s *ArticleService) Import(doctorID string, source []byte) (*model.Article, error) {
	doc, err := s.parser.ParseDocument(source)
	if err != nil {
		return nil, invalid("", "Could not read markdown: %v", err)
	}

	return s.Create(doctorID, ArticleInput{
		Title:    doc.Meta.Title,
		Link:     doc.Meta.Link,
		Image:    doc.Meta.Image,
		Preview:  truncateRunes(doc.Body, maxArticlePreview),
		Category: doc.Meta.Category,
	})
}

// DoctorArticles returns a doctor's published articles and their count.
func (s *ArticleService) DoctorArticles(doctorID string) ([]*model.Article, int, error) {
	articles, err := s.repo.DoctorArticles(doctorID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}

	s.renderAll(articles)
	return articles, len(articles), nil
}

func (s *ArticleService) DoctorArticle(doctorID, id string) (*model.Article, error) {
	article, err := s.repo.DoctorArticle(doctorID, id)
	if err != nil {
		return nil, err
	}

	s.render(article)
	return article, nil
}

func (s *ArticleService) Update(doctorID, id string, patch *ArticlePatch) (*model.Article, error) {
	article, err := s.repo.DoctorArticle(doctorID, id)
	if err != nil {
		return nil, err
	}

	setTrimmed(&article.Title, patch.Title)
	setTrimmed(&article.Link, patch.Link)
	setTrimmed(&article.Image, patch.Image)
	setTrimmed(&article.Preview, patch.Preview)
	if patch.Category != nil {
		article.Category = ""
		if strings.TrimSpace(*patch.Category) != "" {
			category, err := normalizeArticleCategory(*patch.Category)
			if err != nil {
				return nil, err
			}
			article.Category = category
		}
	}
	if patch.IsPublished != nil {
		article.IsPublished = *patch.IsPublished
	}

	err = validateArticle(article)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(article)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	s.render(article)
	return article, nil
}

func (s *ArticleService) UpdateImage(doctorID, id string, upload Upload) (*model.Article, error) {
	article, err := s.repo.DoctorArticle(doctorID, id)
	if err != nil {
		return nil, err
	}

	file, err := s.fileService.Replace(model.FileOwnerArticle, article.ID, model.FileTypeArticleImage, upload)
	if err != nil {
		return nil, err
	}

	article.Image = s.fileService.URL(file)
	err = s.repo.Update(article)
	if err != nil {
		return nil, fmt.Errorf("failed to update article image: %w", err)
	}

	s.render(article)
	return article, nil
}

func (s *ArticleService) Delete(doctorID, id string) error {
	err := s.repo.Delete(doctorID, id)
	if err != nil {
		if errors.Is(err, repository.ErrArticleNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}

	err = s.fileService.DeleteOwnerFiles(model.FileOwnerArticle, id)
	if err != nil {
		slog.Warn("failed to delete article files", "error", err, "article_id", id)
	}
	return nil
}

// Published returns the newest published articles with their authors.
func (s *ArticleService) Published() ([]*model.Article, error) {
	articles, err := s.repo.Published(publicArticlesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}

	s.renderAll(articles)
	return articles, nil
}

// View returns a published article and counts the view.
func (s *ArticleService) View(id string) (*model.Article, error) {
	err := s.repo.IncrementViews(id)
	if err != nil {
		return nil, err
	}

	article, err := s.repo.PublishedByID(id)
	if err != nil {
		return nil, err
	}

	s.render(article)
	return article, nil
}

func (s *ArticleService) Like(id string) (*model.Article, error) {
	err := s.repo.IncrementLikes(id)
	if err != nil {
		return nil, err
	}

	article, err := s.repo.PublishedByID(id)
	if err != nil {
		return nil, err
	}

	s.render(article)
	return article, nil
}

// Articles lists all articles, published or not.
func (s *ArticleService) Articles() ([]*model.Article, error) {
	articles, err := s.repo.Articles()
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	s.renderAll(articles)
	return articles, nil
}

func (s *ArticleService) render(article *model.Article) {
	if article.Preview == "" {
		return
	}

	html, err := s.parser.Render(article.Preview)
	if err != nil {
		slog.Warn("failed to render article preview", "error", err, "article_id", article.ID)
		return
	}
	article.PreviewHTML = html
}

func (s *ArticleService) renderAll(articles []*model.Article) {
	for _, a := range articles {
		s.render(a)
	}
}

// ParseArticlePatch decodes an article update.
func ParseArticlePatch(data []byte) (*ArticlePatch, error) {
	raw, err := decodePatch(data, articlePatchFields)
	if err != nil {
		return nil, err
	}

	patch := &ArticlePatch{}
	for key, value := range raw {
		switch key {
		case "title":
			patch.Title, err = decodeString(key, value)
		case "link":
			patch.Link, err = decodeString(key, value)
		case "image":
			patch.Image, err = decodeString(key, value)
		case "preview":
			patch.Preview, err = decodeString(key, value)
		case "category":
			patch.Category, err = decodeString(key, value)
		case "isPublished":
			patch.IsPublished, err = decodeBool(key, value)
		}
		if err != nil {
			return nil, err
		}
	}

	return patch, nil
}

func validateArticle(article *model.Article) error {
	if article.Title == "" || article.Link == "" {
		return invalid("", "Title and link are required")
	}

	u, err := url.Parse(article.Link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("link", "Link must be an http(s) URL")
	}

	if utf8.RuneCountInString(article.Preview) > maxArticlePreview {
		return invalid("preview", "Preview must be at most %d characters", maxArticlePreview)
	}

	return nil
}

func normalizeArticleCategory(category string) (string, error) {
	normalized := cases.Title(language.English).String(strings.TrimSpace(category))
	if !slices.Contains(model.ArticleCategories, normalized) {
		return "", invalid("category", "Category must be one of %s", strings.Join(model.ArticleCategories, ", "))
	}
	return normalized, nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit]))
}
