package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/court_booking/internal/auth"
	"github.com/Freeeeeet/court_booking/internal/model"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRegistration = errors.New("invalid registration data")
)

// Роли, выбираемые при регистрации
const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
)

// Registration данные формы регистрации. ConfirmPassword проверяется, если передан.
type Registration struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
}

func (reg Registration) validate() error {
	if reg.Username == "" || len(reg.Password) < 6 {
		return fmt.Errorf("%w: username is required and password must have at least 6 characters", ErrInvalidRegistration)
	}
	if reg.ConfirmPassword != "" && reg.ConfirmPassword != reg.Password {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidRegistration)
	}
	switch reg.Role {
	case "", RoleMember, RoleTrainer:
	default:
		return fmt.Errorf("%w: role must be %q or %q", ErrInvalidRegistration, RoleMember, RoleTrainer)
	}
	return nil
}

type UserService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register создаёт участника. Новый участник не подтверждён и бронировать не может.
func (s *UserService) Register(ctx context.Context, reg Registration) (*model.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Role = strings.ToLower(strings.TrimSpace(reg.Role))
	if err := reg.validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     reg.Username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(reg.FullName),
		Email:        strings.TrimSpace(reg.Email),
		Phone:        strings.TrimSpace(reg.Phone),
		IsTrainer:    reg.Role == RoleTrainer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New member registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Bool("trainer", user.IsTrainer),
	)
	return user, nil
}

// Authenticate проверка логина и пароля
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info("Failed login attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RegisterTelegram находит или создаёт участника по Telegram ID
func (s *UserService) RegisterTelegram(ctx context.Context, telegramID int64, username, fullName string) (*model.User, error) {
	existing, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	if username == "" {
		username = fmt.Sprintf("tg%d", telegramID)
	}

	user := &model.User{
		Username:   username,
		FullName:   fullName,
		TelegramID: &telegramID,
	}
	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, model.ErrUsernameTaken) {
		// ник уже занят участником с сайта
		user.Username = fmt.Sprintf("%s_tg%d", username, telegramID)
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New member registered via Telegram",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", user.Username),
	)
	return user, nil
}

// GetByID возвращает nil, nil если участника нет
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ToggleValidated переключает подтверждение участника, возвращает обновлённого участника
func (s *UserService) ToggleValidated(ctx context.Context, adminID, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	user.Validated = !user.Validated
	if err := s.userRepo.SetValidated(ctx, userID, user.Validated); err != nil {
		return nil, fmt.Errorf("set validated: %w", err)
	}

	s.logger.Info("Member validation changed",
		zap.Int64("user_id", userID),
		zap.Bool("validated", user.Validated),
		zap.Int64("admin_id", adminID),
	)
	return user, nil
}

// Delete удаляет участника вместе с бронями
func (s *UserService) Delete(ctx context.Context, adminID, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("Member deleted",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", adminID),
	)
	return nil
}

// EnsureAdmin создаёт администратора по умолчанию, если его ещё нет
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Administrator",
		IsAdmin:      true,
		Validated:    true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Info("Default administrator created", zap.String("username", username))
	return admin, nil
}
