package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Freeeeeet/court_booking/internal/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	EventArticlePublished = "article.published"
	EventArticleDeleted   = "article.deleted"
)

var ErrInvalidArticle = errors.New("invalid article")

// ArticleDraft форма новой новости
type ArticleDraft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImagePath string `json:"image_path"`
}

// ArticleError все ошибки формы новости; errors.Is(err, ErrInvalidArticle)
type ArticleError struct {
	Problems []string
}

func (e *ArticleError) Error() string {
	return ErrInvalidArticle.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ArticleError) Unwrap() error { return ErrInvalidArticle }

func (d ArticleDraft) validate() error {
	var errs error
	if d.Title == "" {
		errs = multierr.Append(errs, errors.New("title is required"))
	}
	if d.Content == "" {
		errs = multierr.Append(errs, errors.New("content is required"))
	}
	if d.ImagePath != "" && !validImagePath(d.ImagePath) {
		errs = multierr.Append(errs, errors.New("image_path must be an http(s) URL or an absolute path"))
	}
	if errs == nil {
		return nil
	}

	ae := &ArticleError{}
	for _, err := range multierr.Errors(errs) {
		ae.Problems = append(ae.Problems, err.Error())
	}
	return ae
}

func validImagePath(p string) bool {
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "":
		return strings.HasPrefix(u.Path, "/")
	default:
		return false
	}
}

type ArticleService struct {
	articleRepo ArticleRepository
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewArticleService publisher может быть nil
func NewArticleService(articleRepo ArticleRepository, publisher EventPublisher, logger *zap.Logger) *ArticleService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &ArticleService{
		articleRepo: articleRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create публикует новость от имени администратора
func (s *ArticleService) Create(ctx context.Context, adminID int64, draft ArticleDraft) (*model.Article, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Content = strings.TrimSpace(draft.Content)
	draft.ImagePath = strings.TrimSpace(draft.ImagePath)
	if err := draft.validate(); err != nil {
		return nil, err
	}

	article := &model.Article{
		Title:     draft.Title,
		Content:   draft.Content,
		ImagePath: draft.ImagePath,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.logger.Info("Article published",
		zap.Int64("article_id", article.ID),
		zap.Int64("admin_id", adminID),
		zap.String("title", article.Title),
	)
	s.publish(ctx, EventArticlePublished, map[string]any{
		"article_id": article.ID,
		"title":      article.Title,
	})
	return article, nil
}

func (s *ArticleService) List(ctx context.Context) ([]*model.Article, error) {
	articles, err := s.articleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleService) Get(ctx context.Context, id int64) (*model.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, model.ErrArticleNotFound
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, adminID, id int64) error {
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			return err
		}
		return fmt.Errorf("delete article: %w", err)
	}

	s.logger.Info("Article deleted",
		zap.Int64("article_id", id),
		zap.Int64("admin_id", adminID),
	)
	s.publish(ctx, EventArticleDeleted, map[string]any{"article_id": id})
	return nil
}

func (s *ArticleService) publish(ctx context.Context, key string, payload any) {
	if err := s.publisher.PublishJSON(ctx, key, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
