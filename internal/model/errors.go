package model

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrArticleNotFound     = errors.New("article not found")
)

// ConflictError хранилище отказалось вставлять бронь из-за пересечения
type ConflictError struct {
	Existing *Reservation
}

func (e *ConflictError) Error() string {
	if e.Existing == nil {
		return "reservation conflict"
	}
	return fmt.Sprintf("reservation conflict with #%d (court %d, %s %s-%s)",
		e.Existing.ID, e.Existing.CourtNumber, e.Existing.Date, e.Existing.StartTime, e.Existing.EndTime)
}
