package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/court_booking/internal/model"
)

// Config правила клуба: набор кортов и сетка слотов дня
type Config struct {
	Courts       []int
	OpenHour     int
	CloseHour    int
	SlotDuration time.Duration
}

// DefaultConfig три корта, часовые слоты с 08:00 до 22:00
func DefaultConfig() Config {
	return Config{
		Courts:       []int{1, 2, 3},
		OpenHour:     8,
		CloseHour:    22,
		SlotDuration: time.Hour,
	}
}

// Validate проверяет конфигурацию до создания сервиса
func (c Config) Validate() error {
	if len(c.Courts) == 0 {
		return fmt.Errorf("at least one court is required")
	}
	seen := make(map[int]bool, len(c.Courts))
	for _, court := range c.Courts {
		if court <= 0 {
			return fmt.Errorf("court number must be positive, got %d", court)
		}
		if seen[court] {
			return fmt.Errorf("duplicate court %d", court)
		}
		seen[court] = true
	}
	if c.OpenHour < 0 || c.CloseHour > 24 || c.OpenHour >= c.CloseHour {
		return fmt.Errorf("invalid opening hours %d-%d", c.OpenHour, c.CloseHour)
	}
	if c.SlotDuration < time.Minute || c.SlotDuration%time.Minute != 0 {
		return fmt.Errorf("slot duration must be a whole number of minutes, got %s", c.SlotDuration)
	}
	return nil
}

// ValidCourt входит ли корт в фиксированный набор
func (c Config) ValidCourt(court int) bool {
	return slices.Contains(c.Courts, court)
}

// Slots генерирует слоты дня по порядку. Последний слот обрезается по закрытию.
func (c Config) Slots() []Interval {
	open := model.ClockAt(c.OpenHour, 0)
	closing := model.ClockAt(c.CloseHour, 0)

	var slots []Interval
	for start := open; start < closing; start = start.Add(c.SlotDuration) {
		end := start.Add(c.SlotDuration)
		if end > closing {
			end = closing
		}
		slots = append(slots, Interval{Start: start, End: end})
	}
	return slots
}
