package httpapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxUser         = "user"
)

// RequestID берёт X-Request-ID клиента или выдаёт новый
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// AccessLog одна строка лога на запрос
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if u := currentUser(c); u != nil {
			fields = append(fields, zap.Int64("user_id", u.ID))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("HTTP request", fields...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter лимит запросов по IP клиента
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// неактивные клиенты вычищаются не чаще раза в минуту
	if now.Sub(rl.lastSweep) > time.Minute {
		for key, cl := range rl.clients {
			if now.Sub(cl.seen) > 3*time.Minute {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = now
	}

	if cl, ok := rl.clients[ip]; ok {
		cl.seen = now
		return cl.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: now}
	return l
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			abortWith(c, http.StatusTooManyRequests, kindRateLimited, "too many requests")
			return
		}
		c.Next()
	}
}

// Authenticate проверяет Bearer токен и перечитывает участника из хранилища
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			h.writeError(c, scheduler.Reject(scheduler.ErrNotAuthenticated, "please log in"))
			return
		}

		claims, err := h.issuer.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			h.writeError(c, scheduler.Reject(scheduler.ErrNotAuthenticated, "session expired or invalid, please log in again"))
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			h.writeError(c, scheduler.Reject(scheduler.ErrNotAuthenticated, "session expired or invalid, please log in again"))
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		if user == nil {
			h.writeError(c, scheduler.Reject(scheduler.ErrNotAuthenticated, "account no longer exists"))
			return
		}

		c.Set(ctxUser, user)
		c.Next()
	}
}

// RequireValidated только подтверждённые участники
func (h *Handler) RequireValidated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := currentUser(c); u == nil || !u.Validated {
			h.writeError(c, scheduler.Reject(scheduler.ErrNotValidated,
				"your membership must be validated by an administrator to access reservations"))
			return
		}
		c.Next()
	}
}

func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := currentUser(c); u == nil || !u.IsAdmin {
			abortWith(c, http.StatusForbidden, kindNotAdmin, "administrator access required")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
