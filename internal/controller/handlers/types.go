package handlers

import (
	"github.com/Freeeeeet/court_booking/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService        *service.UserService
	reservationService *service.ReservationService
	logger             *zap.Logger
}

func NewHandlers(
	userService *service.UserService,
	reservationService *service.ReservationService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:        userService,
		reservationService: reservationService,
		logger:             logger,
	}
}
