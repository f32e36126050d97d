package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"go.uber.org/zap"
)

const (
	EventReservationCreated = "reservation.created"
	EventReservationDeleted = "reservation.deleted"
)

type ReservationService struct {
	cfg             scheduler.Config
	reservationRepo ReservationRepository
	publisher       EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

// NewReservationService publisher может быть nil, тогда события не отправляются
func NewReservationService(
	cfg scheduler.Config,
	reservationRepo ReservationRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) (*ReservationService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &ReservationService{
		cfg:             cfg,
		reservationRepo: reservationRepo,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
	}, nil
}

func (s *ReservationService) Config() scheduler.Config {
	return s.cfg
}

// Today текущая дата клуба (наивное локальное время сервера)
func (s *ReservationService) Today() string {
	return s.now().Format(model.DateLayout)
}

// Book проверяет и создаёт бронь. Любой отказ возвращается как *scheduler.BookingError,
// при отказе ничего не записывается.
func (s *ReservationService) Book(ctx context.Context, user *model.User, req scheduler.BookingRequest) (*model.Reservation, error) {
	if user == nil {
		return nil, scheduler.Reject(scheduler.ErrNotAuthenticated, "please log in to book a court")
	}
	if !user.Validated {
		return nil, scheduler.Reject(scheduler.ErrNotValidated, "your membership must be validated by an administrator before booking")
	}

	cand, err := s.cfg.ParseRequest(req)
	if err != nil {
		s.logger.Debug("Booking rejected",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return nil, err
	}

	res, err := model.NewReservation(user.ID, cand.Court, cand.Date, cand.Interval.Start, cand.Interval.End)
	if err != nil {
		return nil, scheduler.Reject(scheduler.ErrInvalidInterval, "end time must be after start time")
	}

	err = s.reservationRepo.CreateChecked(ctx, res, cand.CheckConflict)
	if err != nil {
		var conflict *model.ConflictError
		if errors.As(err, &conflict) {
			s.logger.Info("Booking conflict",
				zap.Int64("user_id", user.ID),
				zap.Int("court", cand.Court),
				zap.String("date", cand.Date),
				zap.String("requested", cand.Interval.String()),
				zap.Int64("existing_id", conflict.Existing.ID),
			)
			return nil, cand.SlotUnavailable()
		}

		s.logger.Error("Failed to create reservation",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return nil, scheduler.StorageFailure(err)
	}

	res.UserFullName = user.FullName
	res.Username = user.Username

	s.logger.Info("Court booked",
		zap.Int64("reservation_id", res.ID),
		zap.Int64("user_id", user.ID),
		zap.Int("court", res.CourtNumber),
		zap.String("date", res.Date),
		zap.String("start", res.StartTime.String()),
		zap.String("end", res.EndTime.String()),
	)

	s.publish(ctx, EventReservationCreated, map[string]any{
		"reservation_id": res.ID,
		"user_id":        res.UserID,
		"court_number":   res.CourtNumber,
		"date":           res.Date,
		"start_time":     res.StartTime.String(),
		"end_time":       res.EndTime.String(),
	})

	return res, nil
}

// requireMember сетку и брони видят только подтверждённые участники
func requireMember(viewer *model.User) error {
	if viewer == nil {
		return scheduler.Reject(scheduler.ErrNotAuthenticated, "please log in to see reservations")
	}
	if !viewer.Validated {
		return scheduler.Reject(scheduler.ErrNotValidated, "your membership must be validated by an administrator to access reservations")
	}
	return nil
}

// Availability сетка занятости на дату
func (s *ReservationService) Availability(ctx context.Context, date string, viewer *model.User) (*scheduler.Grid, error) {
	if err := requireMember(viewer); err != nil {
		return nil, err
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return nil, scheduler.Reject(scheduler.ErrInvalidFormat, "invalid date format (expected YYYY-MM-DD)")
	}

	reservations, err := s.reservationRepo.ListByDate(ctx, day)
	if err != nil {
		return nil, scheduler.StorageFailure(err)
	}

	return scheduler.BuildGrid(s.cfg, day, viewer.ID, reservations), nil
}

// DayView всё, что нужно странице бронирования за один день
type DayView struct {
	Date             string               `json:"date"`
	Grid             *scheduler.Grid      `json:"grid"`
	Reservations     []*model.Reservation `json:"reservations"`
	UserReservations []*model.Reservation `json:"user_reservations"`
	TimeSlots        []scheduler.Interval `json:"time_slots"`
}

func (s *ReservationService) DayView(ctx context.Context, date string, viewer *model.User) (*DayView, error) {
	if err := requireMember(viewer); err != nil {
		return nil, err
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return nil, scheduler.Reject(scheduler.ErrInvalidFormat, "invalid date format (expected YYYY-MM-DD)")
	}

	dayReservations, err := s.reservationRepo.ListByDate(ctx, day)
	if err != nil {
		return nil, scheduler.StorageFailure(err)
	}
	mine, err := s.reservationRepo.ListByUser(ctx, viewer.ID)
	if err != nil {
		return nil, scheduler.StorageFailure(err)
	}

	return &DayView{
		Date:             day,
		Grid:             scheduler.BuildGrid(s.cfg, day, viewer.ID, dayReservations),
		Reservations:     dayReservations,
		UserReservations: mine,
		TimeSlots:        s.cfg.Slots(),
	}, nil
}

// ListForUser брони участника ("мои брони")
func (s *ReservationService) ListForUser(ctx context.Context, userID int64) ([]*model.Reservation, error) {
	reservations, err := s.reservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, scheduler.StorageFailure(err)
	}
	return reservations, nil
}

// ListForDate брони на дату ("брони дня")
func (s *ReservationService) ListForDate(ctx context.Context, date string) ([]*model.Reservation, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, scheduler.Reject(scheduler.ErrInvalidFormat, "invalid date format (expected YYYY-MM-DD)")
	}
	reservations, err := s.reservationRepo.ListByDate(ctx, day)
	if err != nil {
		return nil, scheduler.StorageFailure(err)
	}
	return reservations, nil
}

// ListAll все брони (администратор)
func (s *ReservationService) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	reservations, err := s.reservationRepo.ListAll(ctx)
	if err != nil {
		return nil, scheduler.StorageFailure(err)
	}
	return reservations, nil
}

// Delete удаление брони администратором
func (s *ReservationService) Delete(ctx context.Context, adminID, reservationID int64) error {
	if err := s.reservationRepo.Delete(ctx, reservationID); err != nil {
		if errors.Is(err, model.ErrReservationNotFound) {
			return err
		}
		return fmt.Errorf("delete reservation: %w", err)
	}

	s.logger.Info("Reservation deleted",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("admin_id", adminID),
	)
	s.publish(ctx, EventReservationDeleted, map[string]any{"reservation_ids": []int64{reservationID}})
	return nil
}

// DeleteMany массовое удаление, возвращает число удалённых
func (s *ReservationService) DeleteMany(ctx context.Context, adminID int64, ids []int64) (int64, error) {
	deleted, err := s.reservationRepo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}

	s.logger.Info("Reservations deleted",
		zap.Int64s("reservation_ids", ids),
		zap.Int64("deleted", deleted),
		zap.Int64("admin_id", adminID),
	)
	if deleted > 0 {
		s.publish(ctx, EventReservationDeleted, map[string]any{"reservation_ids": ids})
	}
	return deleted, nil
}

func (s *ReservationService) publish(ctx context.Context, key string, payload any) {
	if err := s.publisher.PublishJSON(ctx, key, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
