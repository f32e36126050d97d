// Package memory хранилище в памяти процесса: для локального запуска (STORAGE=memory) и тестов.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/court_booking/internal/model"
)

// Store общие данные пользователей и броней под одним мьютексом,
// чтобы каскадное удаление и JOIN имени владельца были согласованы
type Store struct {
	mu           sync.RWMutex
	users        map[int64]*model.User
	reservations map[int64]*model.Reservation
	articles     map[int64]*model.Article
	nextUserID   int64
	nextResID    int64
	nextArtID    int64
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]*model.User),
		reservations: make(map[int64]*model.Reservation),
		articles:     make(map[int64]*model.Article),
		now:          time.Now,
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{s: s}
}

func (s *Store) Articles() *ArticleRepository {
	return &ArticleRepository{s: s}
}

// withOwner копия брони с полями владельца; вызывать под s.mu
func (s *Store) withOwner(r *model.Reservation) *model.Reservation {
	out := *r
	if u, ok := s.users[r.UserID]; ok {
		out.UserFullName = u.FullName
		out.Username = u.Username
	}
	return &out
}

func (s *Store) collect(match func(r *model.Reservation) bool) []*model.Reservation {
	var out []*model.Reservation
	for _, r := range s.reservations {
		if match(r) {
			out = append(out, s.withOwner(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].CourtNumber < out[j].CourtNumber
	})
	return out
}

type ReservationRepository struct {
	s *Store
}

// CreateChecked проверка и вставка под одной блокировкой
func (r *ReservationRepository) CreateChecked(ctx context.Context, res *model.Reservation, check func(existing []*model.Reservation) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[res.UserID]; !ok {
		return model.ErrUserNotFound
	}

	existing := r.s.collect(func(e *model.Reservation) bool {
		return e.CourtNumber == res.CourtNumber && e.Date == res.Date
	})
	if err := check(existing); err != nil {
		return err
	}

	r.s.nextResID++
	res.ID = r.s.nextResID
	res.CreatedAt = r.s.now()

	stored := *res
	stored.UserFullName, stored.Username = "", ""
	r.s.reservations[stored.ID] = &stored
	return nil
}

func (r *ReservationRepository) ListByDate(ctx context.Context, date string) ([]*model.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.collect(func(e *model.Reservation) bool { return e.Date == date }), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.collect(func(e *model.Reservation) bool { return e.UserID == userID }), nil
}

func (r *ReservationRepository) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.collect(func(*model.Reservation) bool { return true }), nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return model.ErrReservationNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

func (r *ReservationRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.reservations[id]; ok {
			delete(r.s.reservations, id)
			deleted++
		}
	}
	return deleted, nil
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return model.ErrUsernameTaken
		}
		if user.TelegramID != nil && u.TelegramID != nil && *u.TelegramID == *user.TelegramID {
			return model.ErrUsernameTaken
		}
	}

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = r.s.now()

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u, ok := r.s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username }), nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.TelegramID != nil && *u.TelegramID == telegramID }), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out := *u
		users = append(users, &out)
	}
	slices.SortFunc(users, func(a, b *model.User) int { return int(a.ID - b.ID) })
	return users, nil
}

func (r *UserRepository) SetValidated(ctx context.Context, id int64, validated bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Validated = validated
	return nil
}

// Delete удаляет пользователя вместе с его бронями
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.s.users, id)
	for rid, res := range r.s.reservations {
		if res.UserID == id {
			delete(r.s.reservations, rid)
		}
	}
	return nil
}

func (r *UserRepository) find(match func(u *model.User) bool) *model.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			out := *u
			return &out
		}
	}
	return nil
}

type ArticleRepository struct {
	s *Store
}

func (r *ArticleRepository) Create(ctx context.Context, article *model.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextArtID++
	article.ID = r.s.nextArtID
	article.CreatedAt = r.s.now()

	stored := *article
	r.s.articles[article.ID] = &stored
	return nil
}

// List новости от новых к старым
func (r *ArticleRepository) List(ctx context.Context) ([]*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	articles := make([]*model.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		out := *a
		articles = append(articles, &out)
	}
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
	return articles, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if a, ok := r.s.articles[id]; ok {
		out := *a
		return &out, nil
	}
	return nil, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[id]; !ok {
		return model.ErrArticleNotFound
	}
	delete(r.s.articles, id)
	return nil
}
