package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
)

var errBookUsage = errors.New("нужно указать корт, дату, начало и конец")

// parseGridArgs дата из "/grid 2024-06-01", иначе today
func parseGridArgs(text, today string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return today
	}
	return fields[1]
}

// parseBookArgs разбор "/book 1 2024-06-01 10:00 11:00". Формат даты и времени
// проверяет сервис, здесь только количество аргументов и номер корта.
func parseBookArgs(text string) (scheduler.BookingRequest, error) {
	fields := strings.Fields(text)
	if len(fields) != 5 {
		return scheduler.BookingRequest{}, errBookUsage
	}

	court, err := strconv.Atoi(fields[1])
	if err != nil {
		return scheduler.BookingRequest{}, fmt.Errorf("номер корта должен быть числом: %q", fields[1])
	}

	return scheduler.BookingRequest{
		CourtNumber: court,
		Date:        fields[2],
		StartTime:   fields[3],
		EndTime:     fields[4],
	}, nil
}

// formatBookingError текст отказа с перечнем всех нарушений
func formatBookingError(err error) string {
	var be *scheduler.BookingError
	if !errors.As(err, &be) {
		return "❌ Произошла ошибка. Попробуйте позже."
	}

	var sb strings.Builder
	sb.WriteString("❌ Бронирование невозможно:\n")
	for _, v := range be.Violations {
		sb.WriteString("• " + violationText(v) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// violationText текст нарушения для чата
func violationText(v *scheduler.Violation) string {
	switch v.Kind {
	case scheduler.ErrInvalidFormat:
		return "неверный формат даты или времени (нужно YYYY-MM-DD и HH:MM)"
	case scheduler.ErrInvalidInterval:
		return "время окончания должно быть позже начала"
	case scheduler.ErrInvalidCourt:
		if v.Court > 0 {
			return fmt.Sprintf("корта %d нет в клубе", v.Court)
		}
		return "неверный номер корта"
	case scheduler.ErrSlotUnavailable:
		return fmt.Sprintf("корт %d уже занят в это время", v.Court)
	case scheduler.ErrNotAuthenticated:
		return "сначала зарегистрируйтесь: /start"
	case scheduler.ErrNotValidated:
		return "членство ещё не подтверждено администратором"
	case scheduler.ErrStorage:
		return "сервис броней временно недоступен, попробуйте позже"
	default:
		return v.Message
	}
}

func formatReservation(r *model.Reservation) string {
	return fmt.Sprintf("🎾 Корт %d\n📅 %s\n🕐 %s-%s", r.CourtNumber, r.Date, r.StartTime, r.EndTime)
}

func formatReservationList(reservations []*model.Reservation) string {
	if len(reservations) == 0 {
		return "📅 У вас пока нет броней.\n\nЗабронировать: /book"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 Ваши брони (%d):\n", len(reservations)))
	for _, r := range reservations {
		sb.WriteString(fmt.Sprintf("\n#%d · %s %s-%s · корт %d", r.ID, r.Date, r.StartTime, r.EndTime, r.CourtNumber))
	}
	return sb.String()
}

// formatGridSummary свободные слоты по кортам
func formatGridSummary(grid *scheduler.Grid) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 %s\n", grid.Date))

	for _, court := range grid.Courts {
		var free []string
		for _, s := range court.Slots {
			if !s.Reserved {
				free = append(free, s.Slot.Start.String())
			}
		}

		switch {
		case len(free) == 0:
			sb.WriteString(fmt.Sprintf("\nКорт %d: всё занято", court.Court))
		case len(free) == len(court.Slots):
			sb.WriteString(fmt.Sprintf("\nКорт %d: свободен весь день", court.Court))
		default:
			sb.WriteString(fmt.Sprintf("\nКорт %d: свободно %s", court.Court, strings.Join(free, ", ")))
		}
	}
	return sb.String()
}
