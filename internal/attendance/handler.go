package attendance

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo       *Repository
	memberRepo *member.Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo:       NewRepository(db),
		memberRepo: member.NewRepository(db),
	}
}

// Mark godoc
// @Summary      Mark attendance
// @Description  Records a manual check-in or check-out for a member.
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      MarkRequest  true  "Member and direction"
// @Success      200      {object}  MarkResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/attendance/mark [post]
func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	m, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Member with ID %d not found", req.MemberID)})
			return
		}
		logger.Errorf("Failed to load member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	today := LocalDate()

	if req.Type == DirectionIn {
		if _, err := h.repo.CheckIn(ctx, m.ID, MethodManual, today); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record check-in"})
			return
		}

		metrics.RecordCheckIn(MethodManual)
		c.JSON(http.StatusOK, MarkResponse{
			Success: true,
			Message: fmt.Sprintf("Welcome, %s! Checked IN successfully.", m.FirstName),
			Member:  MarkMember{ID: m.ID, Name: m.FirstName + " " + m.LastName, Status: m.Status},
		})
		return
	}

	if err := h.repo.CheckOut(ctx, m.ID, today); err != nil {
		if errors.Is(err, ErrNoOpenCheckIn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No active check-in found for today. Please check in first."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record check-out"})
		return
	}

	c.JSON(http.StatusOK, MarkResponse{
		Success: true,
		Message: fmt.Sprintf("Goodbye, %s! Checked OUT successfully.", m.FirstName),
		Member:  MarkMember{ID: m.ID, Name: m.FirstName + " " + m.LastName, Status: m.Status},
	})
}

// Today godoc
// @Summary      Today's attendance
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   RecordWithMember
// @Failure      500  {object}  gin.H
// @Router       /api/attendance/today [get]
func (h *Handler) Today(c *gin.Context) {
	records, err := h.repo.GetByDate(c.Request.Context(), LocalDate())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// History godoc
// @Summary      Attendance history
// @Description  Returns attendance for the last 365 days.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   RecordWithMember
// @Failure      500  {object}  gin.H
// @Router       /api/attendance/history [get]
func (h *Handler) History(c *gin.Context) {
	from := time.Now().AddDate(-1, 0, 0).Format("2006-01-02")

	records, err := h.repo.GetHistory(c.Request.Context(), from)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ByMember godoc
// @Summary      Member attendance
// @Description  Returns all attendance records for one member, newest first.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {array}   Record
// @Failure      400  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/attendance/member/{id} [get]
func (h *Handler) ByMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	records, err := h.repo.GetByMember(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance records"})
		return
	}

	c.JSON(http.StatusOK, records)
}
