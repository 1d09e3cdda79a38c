package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// Stats godoc
// @Summary      Dashboard statistics
// @Description  Member counts, revenue rollups, today's attendance and the
// @Description  latest check-ins for the admin dashboard.
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Stats
// @Failure      500  {object}  gin.H
// @Router       /api/dashboard/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
