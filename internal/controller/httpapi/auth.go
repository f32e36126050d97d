package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/service"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var in service.Registration
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWith(c, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWith(c, http.StatusBadRequest, kindBadRequest, err.Error())
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.issuer.MakeToken(user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// GET /api/v1/me
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
