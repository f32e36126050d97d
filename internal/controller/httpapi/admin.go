package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type deleteManyRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWith(c, http.StatusBadRequest, kindBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// GET /api/v1/admin/reservations
func (h *Handler) AdminListReservations(c *gin.Context) {
	list, err := h.reservations.ListAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// DELETE /api/v1/admin/reservations/:id
func (h *Handler) AdminDeleteReservation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.reservations.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/admin/reservations/delete {"ids": [...]}
func (h *Handler) AdminDeleteReservations(c *gin.Context) {
	var in deleteManyRequest
	if err := c.ShouldBindJSON(&in); err != nil || len(in.IDs) == 0 {
		abortWith(c, http.StatusBadRequest, kindBadRequest, "no reservations selected")
		return
	}

	deleted, err := h.reservations.DeleteMany(c.Request.Context(), currentUser(c).ID, in.IDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// GET /api/v1/admin/members
func (h *Handler) AdminListMembers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": users})
}

// POST /api/v1/admin/members/:id/validate
func (h *Handler) AdminToggleValidated(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := h.users.ToggleValidated(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/v1/admin/members/:id
func (h *Handler) AdminDeleteMember(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	admin := currentUser(c)
	if id == admin.ID {
		abortWith(c, http.StatusBadRequest, kindBadRequest, "administrators cannot delete themselves")
		return
	}
	if err := h.users.Delete(c.Request.Context(), admin.ID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
