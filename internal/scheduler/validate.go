package scheduler

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/court_booking/internal/model"
	"go.uber.org/multierr"
)

// BookingRequest сырые данные формы бронирования. Неразобранный номер корта
// передаётся как 0 и отклоняется вместе с остальными нарушениями.
type BookingRequest struct {
	CourtNumber int    `json:"court_number"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Candidate разобранный и проверенный запрос, готовый к проверке конфликтов
type Candidate struct {
	Court    int
	Date     string
	Interval Interval
}

// ParseRequest разбор формата, интервала и корта. Все нарушения собираются вместе;
// проверка интервала выполняется только если время разобралось.
func (c Config) ParseRequest(req BookingRequest) (Candidate, error) {
	var errs error

	date, dateErr := model.ParseDate(req.Date)
	start, startErr := model.ParseClock(req.StartTime)
	end, endErr := model.ParseClock(req.EndTime)

	if dateErr != nil || startErr != nil || endErr != nil {
		errs = multierr.Append(errs, &Violation{Kind: ErrInvalidFormat, Message: "invalid date or time format (expected YYYY-MM-DD and HH:MM)"})
	} else if start >= end {
		errs = multierr.Append(errs, &Violation{Kind: ErrInvalidInterval, Message: "end time must be after start time"})
	}

	if !c.ValidCourt(req.CourtNumber) {
		msg := "invalid court number"
		if req.CourtNumber > 0 {
			msg = fmt.Sprintf("invalid court number %d", req.CourtNumber)
		}
		errs = multierr.Append(errs, &Violation{Kind: ErrInvalidCourt, Message: msg, Court: req.CourtNumber})
	}

	if errs != nil {
		return Candidate{}, toBookingError(errs)
	}

	return Candidate{
		Court:    req.CourtNumber,
		Date:     date,
		Interval: Interval{Start: start, End: end},
	}, nil
}

// CheckConflict детектор конфликтов в виде функции проверки для хранилища
func (cand Candidate) CheckConflict(existing []*model.Reservation) error {
	if conflict, ok := FindConflict(cand.Interval, existing); ok {
		return &model.ConflictError{Existing: conflict}
	}
	return nil
}

// SlotUnavailable отказ из-за пересечения
func (cand Candidate) SlotUnavailable() *BookingError {
	return newBookingError(nil, &Violation{
		Kind:    ErrSlotUnavailable,
		Message: fmt.Sprintf("this slot is already booked for court %d", cand.Court),
		Court:   cand.Court,
	})
}

func toBookingError(errs error) *BookingError {
	be := &BookingError{}
	for _, err := range multierr.Errors(errs) {
		var v *Violation
		if errors.As(err, &v) {
			be.Violations = append(be.Violations, v)
		}
	}
	return be
}
