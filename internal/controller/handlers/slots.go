package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/court_booking/internal/controller/keyboard"
	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// SlotCallbackPrefix префикс кнопок выбора слота: book:<корт>:<дата>:<HH:MM>
const SlotCallbackPrefix = "book:"

const slotsPerRow = 4

var errBadSlotCallback = errors.New("bad slot callback")

func slotCallbackData(court int, date string, start model.Clock) string {
	return fmt.Sprintf("%s%d:%s:%s", SlotCallbackPrefix, court, date, start)
}

// slotKeyboard кнопки свободных слотов по кортам; nil, если свободных нет
func slotKeyboard(grid *scheduler.Grid) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	for _, court := range grid.Courts {
		var buttons []models.InlineKeyboardButton
		for _, s := range court.Slots {
			if s.Reserved {
				continue
			}
			buttons = append(buttons, keyboard.Button(
				fmt.Sprintf("К%d %s", court.Court, s.Slot.Start),
				slotCallbackData(court.Court, grid.Date, s.Slot.Start),
			))
		}
		kb.Grid(slotsPerRow, buttons...)
	}
	return kb.Build()
}

// parseSlotCallback запрос на один слот сетки по данным кнопки
func parseSlotCallback(data string, cfg scheduler.Config) (scheduler.BookingRequest, error) {
	parts := strings.SplitN(strings.TrimPrefix(data, SlotCallbackPrefix), ":", 3)
	if !strings.HasPrefix(data, SlotCallbackPrefix) || len(parts) != 3 {
		return scheduler.BookingRequest{}, errBadSlotCallback
	}

	court, err := strconv.Atoi(parts[0])
	if err != nil {
		return scheduler.BookingRequest{}, errBadSlotCallback
	}
	start, err := model.ParseClock(parts[2])
	if err != nil {
		return scheduler.BookingRequest{}, errBadSlotCallback
	}

	for _, slot := range cfg.Slots() {
		if slot.Start == start {
			return scheduler.BookingRequest{
				CourtNumber: court,
				Date:        parts[1],
				StartTime:   slot.Start.String(),
				EndTime:     slot.End.String(),
			}, nil
		}
	}
	return scheduler.BookingRequest{}, errBadSlotCallback
}

// HandleSlotCallback бронирует слот, выбранный кнопкой под /grid
func (h *Handlers) HandleSlotCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	chatID := callbackChatID(cq)

	user, err := h.userService.GetByTelegramID(ctx, cq.From.ID)
	if err != nil || user == nil {
		if err != nil {
			h.logger.Error("Failed to get user", zap.Int64("telegram_id", cq.From.ID), zap.Error(err))
		}
		h.answerCallback(ctx, b, cq.ID, "❌ Пользователь не найден. Используйте /start")
		return
	}

	req, err := parseSlotCallback(cq.Data, h.reservationService.Config())
	if err != nil {
		h.logger.Warn("Unknown slot callback", zap.String("data", cq.Data))
		h.answerCallback(ctx, b, cq.ID, "❌ Слот больше недоступен, обновите /grid")
		return
	}

	res, err := h.reservationService.Book(ctx, user, req)
	if err != nil {
		h.answerCallback(ctx, b, cq.ID, "❌ Не удалось забронировать")
		h.sendError(ctx, b, chatID, formatBookingError(err))
		return
	}

	h.answerCallback(ctx, b, cq.ID, "✅ Забронировано")
	h.sendMessage(ctx, b, chatID, "✅ Корт забронирован!\n\n"+formatReservation(res))
}
