package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/court_booking/internal/service"
	"github.com/gin-gonic/gin"
)

// GET /api/v1/articles
func (h *Handler) ListArticles(c *gin.Context) {
	list, err := h.articles.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

// GET /api/v1/articles/:id
func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// POST /api/v1/admin/articles
func (h *Handler) AdminCreateArticle(c *gin.Context) {
	var in service.ArticleDraft
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWith(c, http.StatusBadRequest, kindBadRequest, "request body must be JSON with title, content and optional image_path")
		return
	}

	article, err := h.articles.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// DELETE /api/v1/admin/articles/:id
func (h *Handler) AdminDeleteArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.articles.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
