// Package httpapi JSON API клуба поверх gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/court_booking/internal/auth"
	"github.com/Freeeeeet/court_booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	users        *service.UserService
	reservations *service.ReservationService
	articles     *service.ArticleService
	issuer       *auth.Issuer
	logger       *zap.Logger
}

func NewHandler(
	users *service.UserService,
	reservations *service.ReservationService,
	articles *service.ArticleService,
	issuer *auth.Issuer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:        users,
		reservations: reservations,
		articles:     articles,
		issuer:       issuer,
		logger:       logger,
	}
}

// NewRouter собирает маршруты API
func NewRouter(h *Handler, limiter *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(h.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.Use(limiter.Middleware())
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)

		v1.GET("/articles", h.ListArticles)
		v1.GET("/articles/:id", h.GetArticle)

		secured := v1.Group("")
		secured.Use(h.Authenticate())
		secured.GET("/me", h.Me)

		res := secured.Group("/reservations")
		res.Use(h.RequireValidated())
		{
			res.GET("", h.DayView)
			res.GET("/grid", h.Grid)
			res.GET("/mine", h.Mine)
			res.POST("", h.Book)
		}

		admin := secured.Group("/admin")
		admin.Use(h.RequireAdmin())
		{
			admin.GET("/reservations", h.AdminListReservations)
			admin.DELETE("/reservations/:id", h.AdminDeleteReservation)
			admin.POST("/reservations/delete", h.AdminDeleteReservations)
			admin.GET("/members", h.AdminListMembers)
			admin.POST("/members/:id/validate", h.AdminToggleValidated)
			admin.DELETE("/members/:id", h.AdminDeleteMember)
			admin.POST("/articles", h.AdminCreateArticle)
			admin.DELETE("/articles/:id", h.AdminDeleteArticle)
		}
	}

	return r
}

// Server HTTP-сервер с остановкой по ctx
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run слушает до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
