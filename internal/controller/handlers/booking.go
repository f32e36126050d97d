package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/court_booking/internal/controller/gridimage"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleGrid обрабатывает команду /grid [дата]: картинка сетки и текстовая сводка
func (h *Handlers) HandleGrid(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	date := parseGridArgs(update.Message.Text, h.reservationService.Today())
	grid, err := h.reservationService.Availability(ctx, date, user)
	if err != nil {
		h.sendError(ctx, b, chatID, formatBookingError(err))
		return
	}

	summary := formatGridSummary(grid)
	slots := slotKeyboard(grid)
	if slots != nil {
		summary += "\n\nНажмите на свободный слот, чтобы забронировать его."
	}

	image, err := gridimage.GenerateDayImage(grid)
	if err != nil {
		h.logger.Error("Failed to render grid image", zap.String("date", date), zap.Error(err))
		h.sendWithKeyboard(ctx, b, chatID, summary, slots)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "grid-" + date + ".png", Data: bytes.NewReader(image)},
		Caption: fmt.Sprintf("📅 Занятость кортов на %s", date),
	})
	if err != nil {
		h.logger.Error("Failed to send grid image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.sendWithKeyboard(ctx, b, chatID, summary, slots)
}

// HandleBook обрабатывает команду /book <корт> <дата> <начало> <конец>
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := parseBookArgs(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error()+"\n\nПример: /book 1 2024-06-01 10:00 11:30")
		return
	}

	res, err := h.reservationService.Book(ctx, user, req)
	if err != nil {
		h.sendError(ctx, b, chatID, formatBookingError(err))
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Корт забронирован!\n\n"+formatReservation(res))
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	reservations, err := h.reservationService.ListForUser(ctx, user.ID)
	if err != nil {
		h.sendError(ctx, b, chatID, formatBookingError(err))
		return
	}

	h.sendMessage(ctx, b, chatID, formatReservationList(reservations))
}
