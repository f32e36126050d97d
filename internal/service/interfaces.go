package service

import (
	"context"

	"github.com/Freeeeeet/court_booking/internal/model"
)

// ReservationRepository хранилище броней (PostgreSQL или память)
type ReservationRepository interface {
	// CreateChecked атомарно для (корт, дата): читает брони, вызывает check, вставляет
	CreateChecked(ctx context.Context, res *model.Reservation, check func(existing []*model.Reservation) error) error
	ListByDate(ctx context.Context, date string) ([]*model.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error)
	ListAll(ctx context.Context) ([]*model.Reservation, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}

// UserRepository хранилище участников. Чтения возвращают nil, nil если не найдено.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetValidated(ctx context.Context, id int64, validated bool) error
	Delete(ctx context.Context, id int64) error
}

// ArticleRepository хранилище новостей. GetByID возвращает nil, nil если не найдено.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	List(ctx context.Context) ([]*model.Article, error)
	GetByID(ctx context.Context, id int64) (*model.Article, error)
	Delete(ctx context.Context, id int64) error
}

// EventPublisher публикация доменных событий (RabbitMQ)
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type noopPublisher struct{}

func (noopPublisher) PublishJSON(context.Context, string, any) error { return nil }
