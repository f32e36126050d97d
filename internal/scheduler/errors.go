package scheduler

import (
	"errors"
	"strings"
)

// Виды ошибок бронирования
var (
	ErrInvalidFormat    = errors.New("invalid_format")
	ErrInvalidInterval  = errors.New("invalid_interval")
	ErrInvalidCourt     = errors.New("invalid_court")
	ErrSlotUnavailable  = errors.New("slot_unavailable")
	ErrNotAuthenticated = errors.New("not_authenticated")
	ErrNotValidated     = errors.New("not_validated")
	ErrStorage          = errors.New("storage_error")
)

// Violation одно нарушенное правило
type Violation struct {
	Kind    error
	Message string
	Court   int // для invalid_court и slot_unavailable
}

func (v *Violation) Error() string { return v.Message }
func (v *Violation) Unwrap() error { return v.Kind }

// BookingError отказ в бронировании: основной вид + все нарушения сразу
type BookingError struct {
	Violations []*Violation
	Cause      error // ошибка хранилища, если есть
}

func newBookingError(cause error, violations ...*Violation) *BookingError {
	return &BookingError{Violations: violations, Cause: cause}
}

func Reject(kind error, message string) *BookingError {
	return newBookingError(nil, &Violation{Kind: kind, Message: message})
}

// StorageFailure ошибка хранилища, не относящаяся к пересечению
func StorageFailure(cause error) *BookingError {
	return newBookingError(cause, &Violation{Kind: ErrStorage, Message: "reservation storage is unavailable, please retry later"})
}

// Kind основной вид ошибки (первое нарушенное правило)
func (e *BookingError) Kind() error {
	if len(e.Violations) == 0 {
		return ErrStorage
	}
	return e.Violations[0].Kind
}

func (e *BookingError) Messages() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Message)
	}
	return out
}

func (e *BookingError) Error() string {
	return e.Kind().Error() + ": " + strings.Join(e.Messages(), "; ")
}

func (e *BookingError) Unwrap() []error {
	out := make([]error, 0, len(e.Violations)+1)
	for _, v := range e.Violations {
		out = append(out, v)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// KindOf вид ошибки бронирования или nil, если это не BookingError
func KindOf(err error) error {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind()
	}
	return nil
}
