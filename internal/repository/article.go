package repository

import (
	"database/sql"
	"errors"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrArticleNotFound = errors.New("article not found")
)

type ArticleRepository interface {
	Create(article *model.Article) error
	ByID(id string) (*model.Article, error)
	DoctorArticle(doctorID, id string) (*model.Article, error)
	DoctorArticles(doctorID string) ([]*model.Article, error)
	Update(article *model.Article) error
	Delete(doctorID, id string) error
	Published(limit int) ([]*model.Article, error)
	PublishedByID(id string) (*model.Article, error)
	Articles() ([]*model.Article, error)
	IncrementViews(id string) error
	IncrementLikes(id string) error
}

type articleRepository struct {
	db *sqlx.DB
}

func NewArticleRepository(db *sqlx.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// articleRow is an article joined with its author's public fields.
type articleRow struct {
	model.Article
	AuthorID    string `db:"author_id"`
	AuthorName  string `db:"author_name"`
	AuthorTitle string `db:"author_title"`
	AuthorImage string `db:"author_image"`
}

func (row *articleRow) article() *model.Article {
	a := row.Article
	a.Author = &model.ArticleAuthor{
		ID:    row.AuthorID,
		Name:  row.AuthorName,
		Title: row.AuthorTitle,
		Image: row.AuthorImage,
	}
	return &a
}

const articleWithAuthor = `SELECT a.*, d.id AS author_id, d.name AS author_name, d.title AS author_title, d.image AS author_image
	FROM articles a
	JOIN doctors d ON d.id = a.doctor_id`

func (r *articleRepository) Create(article *model.Article) error {
	query := `INSERT INTO articles (id, doctor_id, title, link, image, preview, category, is_published, views, likes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		article.ID,
		article.DoctorID,
		article.Title,
		article.Link,
		article.Image,
		article.Preview,
		article.Category,
		article.IsPublished,
		article.Views,
		article.Likes,
		article.CreatedAt,
		article.UpdatedAt,
	)

	return err
}

func (r *articleRepository) ByID(id string) (*model.Article, error) {
	article := &model.Article{}

	err := r.db.Get(article, `SELECT * FROM articles WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}

	return article, err
}

func (r *articleRepository) DoctorArticle(doctorID, id string) (*model.Article, error) {
	article := &model.Article{}

	err := r.db.Get(article, `SELECT * FROM articles WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}

	return article, err
}

// DoctorArticles lists a doctor's published articles, newest first.
func (r *articleRepository) DoctorArticles(doctorID string) ([]*model.Article, error) {
	articles := []*model.Article{}
	query := `SELECT * FROM articles WHERE doctor_id = $1 AND is_published = $2 ORDER BY created_at DESC`

	err := r.db.Select(&articles, query, doctorID, true)
	if err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *articleRepository) Update(article *model.Article) error {
	article.UpdatedAt = utcNow()
	query := `UPDATE articles
	          SET title = $1, link = $2, image = $3, preview = $4, category = $5, is_published = $6, updated_at = $7
	          WHERE id = $8 AND doctor_id = $9`

	result, err := r.db.Exec(query,
		article.Title,
		article.Link,
		article.Image,
		article.Preview,
		article.Category,
		article.IsPublished,
		article.UpdatedAt,
		article.ID,
		article.DoctorID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrArticleNotFound
	}

	return nil
}

func (r *articleRepository) Delete(doctorID, id string) error {
	result, err := r.db.Exec(`DELETE FROM articles WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrArticleNotFound
	}

	return nil
}

// Published lists published articles with their authors, newest first.
func (r *articleRepository) Published(limit int) ([]*model.Article, error) {
	var rows []*articleRow
	query := articleWithAuthor + ` WHERE a.is_published = $1 ORDER BY a.created_at DESC LIMIT $2`

	err := r.db.Select(&rows, query, true, limit)
	if err != nil {
		return nil, err
	}

	articles := make([]*model.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, row.article())
	}

	return articles, nil
}

func (r *articleRepository) PublishedByID(id string) (*model.Article, error) {
	row := &articleRow{}
	query := articleWithAuthor + ` WHERE a.id = $1 AND a.is_published = $2`

	err := r.db.Get(row, query, id, true)
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.article(), nil
}

// Articles lists every article regardless of publication state.
func (r *articleRepository) Articles() ([]*model.Article, error) {
	articles := []*model.Article{}

	err := r.db.Select(&articles, `SELECT * FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *articleRepository) IncrementViews(id string) error {
	return r.increment(`UPDATE articles SET views = views + 1 WHERE id = $1 AND is_published = $2`, id)
}

func (r *articleRepository) IncrementLikes(id string) error {
	return r.increment(`UPDATE articles SET likes = likes + 1 WHERE id = $1 AND is_published = $2`, id)
}

func (r *articleRepository) increment(query, id string) error {
	result, err := r.db.Exec(query, id, true)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrArticleNotFound
	}

	return nil
}
