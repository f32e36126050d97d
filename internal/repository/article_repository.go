package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArticleRepository struct {
	*base.Repository
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет новость
func (r *ArticleRepository) Create(ctx context.Context, article *model.Article) error {
	query := `
		INSERT INTO articles (title, content, image_path)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, article.Title, article.Content, article.ImagePath).
		Scan(&article.ID, &article.CreatedAt)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// List новости от новых к старым
func (r *ArticleRepository) List(ctx context.Context) ([]*model.Article, error) {
	rows, err := r.Query(ctx, `
		SELECT id, title, content, image_path, created_at
		FROM articles
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.ImagePath, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

// GetByID возвращает nil, nil если новости нет
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	var a model.Article
	err := r.QueryRow(ctx, `
		SELECT id, title, content, image_path, created_at
		FROM articles
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Title, &a.Content, &a.ImagePath, &a.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if affected == 0 {
		return model.ErrArticleNotFound
	}
	return nil
}
