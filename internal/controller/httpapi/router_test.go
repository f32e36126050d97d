package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/court_booking/internal/auth"
	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/repository/memory"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/Freeeeeet/court_booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	users  *service.UserService
	issuer *auth.Issuer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	logger := zap.NewNop()
	users := service.NewUserService(store.Users(), logger)
	reservations, err := service.NewReservationService(scheduler.DefaultConfig(), store.Reservations(), nil, logger)
	require.NoError(t, err)
	issuer := auth.NewIssuer("test-secret", time.Hour)

	_, err = users.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	articles := service.NewArticleService(store.Articles(), nil, logger)

	h := NewHandler(users, reservations, articles, issuer, logger)
	return &testAPI{
		t:      t,
		router: NewRouter(h, NewRateLimiter(1000, 1000)),
		users:  users,
		issuer: issuer,
	}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp loginResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

// member регистрирует участника и (опционально) подтверждает его
func (a *testAPI) member(username string, validated bool) (*model.User, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": "secret123", "full_name": "Member " + username,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var u model.User
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &u))

	if validated {
		_, err := a.users.ToggleValidated(context.Background(), 1, u.ID)
		require.NoError(a.t, err)
	}
	return &u, a.login(username, "secret123")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func booking(court int, date, start, end string) map[string]any {
	return map[string]any{"court_number": court, "date": date, "start_time": start, "end_time": end}
}

func TestHealthzAndRequestID(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestBookingFlow(t *testing.T) {
	api := newTestAPI(t)
	_, alice := api.member("alice", true)
	_, bob := api.member("bob", true)

	w := api.do(http.MethodPost, "/api/v1/reservations", alice, booking(1, "2024-06-01", "10:00", "12:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "10:00", created.StartTime.String())

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantKind   string
		wantErrors int
	}{
		{"overlap", booking(1, "2024-06-01", "11:00", "13:00"), http.StatusConflict, "slot_unavailable", 1},
		{"adjacent", booking(1, "2024-06-01", "12:00", "13:00"), http.StatusCreated, "", 0},
		{"reversed", booking(1, "2024-06-01", "15:00", "14:00"), http.StatusBadRequest, "invalid_interval", 1},
		{"unknown court", booking(5, "2024-06-01", "14:00", "15:00"), http.StatusBadRequest, "invalid_court", 1},
		{"bad format and court", booking(0, "tomorrow", "14:00", "15:00"), http.StatusBadRequest, "invalid_format", 2},
		{"not json", "court one", http.StatusBadRequest, "invalid_format", 1},
		{"court as string", map[string]any{"court_number": "2", "date": "2024-06-01", "start_time": "16:00", "end_time": "17:00"}, http.StatusCreated, "", 0},
		{"court not a number with reversed interval", map[string]any{"court_number": "one", "date": "2024-06-01", "start_time": "15:00", "end_time": "14:00"}, http.StatusBadRequest, "invalid_interval", 2},
		{"fractional court", map[string]any{"court_number": 1.5, "date": "2024-06-01", "start_time": "18:00", "end_time": "19:00"}, http.StatusBadRequest, "invalid_court", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/v1/reservations", bob, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantKind == "" {
				return
			}
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantKind, resp.ErrorKind)
			assert.Len(t, resp.Errors, tt.wantErrors)
		})
	}
}

func TestIdentityStatuses(t *testing.T) {
	api := newTestAPI(t)
	_, pending := api.member("pending", false)

	w := api.do(http.MethodPost, "/api/v1/reservations", "", booking(1, "2024-06-01", "10:00", "11:00"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "not_authenticated", decodeError(t, w).ErrorKind)

	w = api.do(http.MethodGet, "/api/v1/reservations/grid?date=2024-06-01", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/reservations", pending, booking(1, "2024-06-01", "10:00", "11:00"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_validated", decodeError(t, w).ErrorKind)

	w = api.do(http.MethodGet, "/api/v1/me", pending, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/v1/admin/members", pending, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, kindNotAdmin, decodeError(t, w).ErrorKind)

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "pending", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, kindInvalidCredentials, decodeError(t, w).ErrorKind)

	w = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "pending", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, kindUsernameTaken, decodeError(t, w).ErrorKind)
}

func TestGridAndDayView(t *testing.T) {
	api := newTestAPI(t)
	_, alice := api.member("alice", true)
	_, bob := api.member("bob", true)

	w := api.do(http.MethodPost, "/api/v1/reservations", alice, booking(2, "2024-06-01", "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodGet, "/api/v1/reservations/grid?date=2024-06-01", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var grid scheduler.Grid
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
	assert.Equal(t, 42, grid.Len())
	court, ok := grid.Court(2)
	require.True(t, ok)
	assert.True(t, court.Slots[1].Reserved)
	assert.Equal(t, "Member alice", court.Slots[1].Reservation.UserFullName)
	assert.False(t, court.Slots[1].Reservation.IsCurrentUser)

	w = api.do(http.MethodGet, "/api/v1/reservations?date=2024-06-01", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view service.DayView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Reservations, 1)
	assert.Len(t, view.UserReservations, 1)
	assert.Len(t, view.TimeSlots, 14)

	w = api.do(http.MethodGet, "/api/v1/reservations/grid?date=06/01/2024", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_format", decodeError(t, w).ErrorKind)

	w = api.do(http.MethodGet, "/api/v1/reservations/mine", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reservations":null}`, w.Body.String())
}

func TestAdmin(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("admin", "admin123")
	carol, carolToken := api.member("carol", false)

	w := api.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/members/%d/validate", carol.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.True(t, toggled.Validated)

	// подтверждение действует без нового входа
	var ids []int64
	for _, slot := range [][2]string{{"10:00", "11:00"}, {"11:00", "12:00"}, {"12:00", "13:00"}} {
		w = api.do(http.MethodPost, "/api/v1/reservations", carolToken, booking(3, "2024-06-01", slot[0], slot[1]))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var r model.Reservation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
		ids = append(ids, r.ID)
	}

	w = api.do(http.MethodGet, "/api/v1/admin/reservations", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Reservations []*model.Reservation `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Reservations, 3)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/reservations/%d", ids[0]), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/reservations/%d", ids[0]), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodDelete, "/api/v1/admin/reservations/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/v1/admin/reservations/delete", admin, map[string]any{"ids": ids[1:]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, w.Body.String())

	w = api.do(http.MethodPost, "/api/v1/admin/reservations/delete", admin, map[string]any{"ids": []int64{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/admin/members", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members struct {
		Members []*model.User `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	assert.Len(t, members.Members, 2)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/members/%d", carol.ID), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// удалённый участник больше не проходит аутентификацию
	w = api.do(http.MethodGet, "/api/v1/me", carolToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/admin/members/1", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	api := newTestAPI(t)
	store := memory.NewStore()
	logger := zap.NewNop()
	users := service.NewUserService(store.Users(), logger)
	reservations, err := service.NewReservationService(scheduler.DefaultConfig(), store.Reservations(), nil, logger)
	require.NoError(t, err)
	articles := service.NewArticleService(store.Articles(), nil, logger)
	router := NewRouter(NewHandler(users, reservations, articles, api.issuer, logger), NewRateLimiter(0.001, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"x","password":"y"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestArticles(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("admin", "admin123")
	_, member := api.member("alice", true)

	w := api.do(http.MethodGet, "/api/v1/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[]}`, w.Body.String())

	draft := map[string]string{"title": "Club open day", "content": "All courts free on Sunday", "image_path": "https://example.com/open.jpg"}
	w = api.do(http.MethodPost, "/api/v1/admin/articles", member, draft)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodPost, "/api/v1/admin/articles", "", draft)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/v1/admin/articles", admin, draft)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Club open day", created.Title)

	w = api.do(http.MethodPost, "/api/v1/admin/articles", admin, map[string]string{"title": "", "content": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, kindBadRequest, resp.ErrorKind)
	assert.Len(t, resp.Errors, 2)

	// новости видны без входа
	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/articles/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "https://example.com/open.jpg", got.ImagePath)

	w = api.do(http.MethodGet, "/api/v1/articles/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodGet, "/api/v1/articles/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/articles/%d", created.ID), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/articles/%d", created.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterTrainerAndPasswordConfirmation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "coach", "password": "secret1", "confirm_password": "secret1", "role": "trainer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.True(t, u.IsTrainer)
	assert.False(t, u.Validated)

	w = api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "other", "password": "secret1", "confirm_password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, kindBadRequest, decodeError(t, w).ErrorKind)
}

func TestGridHiddenFromUnvalidatedMember(t *testing.T) {
	api := newTestAPI(t)
	_, alice := api.member("alice", true)
	_, pending := api.member("pending", false)

	w := api.do(http.MethodPost, "/api/v1/reservations", alice, booking(1, "2024-06-01", "10:00", "11:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodGet, "/api/v1/reservations/grid?date=2024-06-01", pending, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_validated", decodeError(t, w).ErrorKind)
	assert.NotContains(t, w.Body.String(), "alice")
}
