package model

import (
	"fmt"
	"time"
)

// Reservation бронирование корта. После создания не изменяется, только удаляется.
type Reservation struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CourtNumber int       `json:"court_number"`
	Date        string    `json:"date"`       // YYYY-MM-DD
	StartTime   Clock     `json:"start_time"` // HH:MM
	EndTime     Clock     `json:"end_time"`   // HH:MM
	CreatedAt   time.Time `json:"created_at"`

	// Поля из JOIN с users (не хранятся в reservations)
	UserFullName string `json:"user_full_name,omitempty"`
	Username     string `json:"username,omitempty"`
}

// NewReservation создаёт бронирование, проверяя инвариант start < end
func NewReservation(userID int64, court int, date string, start, end Clock) (*Reservation, error) {
	if start >= end {
		return nil, fmt.Errorf("reservation %s-%s: end must be after start", start, end)
	}
	return &Reservation{
		UserID:      userID,
		CourtNumber: court,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
	}, nil
}

// DateKey числовой ключ даты YYYYMMDD (для advisory lock)
func (r *Reservation) DateKey() (int32, error) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return 0, fmt.Errorf("date key: %w", err)
	}
	return int32(t.Year()*10000 + int(t.Month())*100 + t.Day()), nil
}
