package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/start - Регистрация в клубе\n" +
	"/grid [YYYY-MM-DD] - Занятость кортов на дату (по умолчанию сегодня)\n" +
	"/book <корт> <YYYY-MM-DD> <HH:MM> <HH:MM> - Забронировать корт\n" +
	"/mybookings - Мои брони\n" +
	"/help - Показать эту справку\n\n" +
	"Пример: /book 1 2024-06-01 10:00 11:30"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	fullName := strings.TrimSpace(from.FirstName + " " + from.LastName)

	user, err := h.userService.RegisterTelegram(ctx, from.ID, from.Username, fullName)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	status := "✅ Ваше членство подтверждено, можно бронировать корты."
	if !user.Validated {
		status = "⏳ Ваше членство ожидает подтверждения администратором. До этого бронирование недоступно."
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Привет, %s!\n\nДобро пожаловать в теннисный клуб.\n\n%s\n\n%s",
		user.DisplayName(), status, helpText,
	))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}
