package workout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gymdesk/internal/email"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo       *Repository
	memberRepo *member.Repository
	email      *email.Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	return &Handler{
		repo:       NewRepository(db),
		memberRepo: member.NewRepository(db),
		email:      emailService,
	}
}

// List godoc
// @Summary      List workout plans
// @Description  Returns every plan with its items grouped and ordered by
// @Description  day of week.
// @Tags         workout-plans
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Plan
// @Failure      500  {object}  gin.H
// @Router       /api/workout-plans [get]
func (h *Handler) List(c *gin.Context) {
	plans, err := h.repo.ListWithItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workout plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// Create godoc
// @Summary      Create workout plan
// @Tags         workout-plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan data"
// @Success      201      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/workout-plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	planID, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workout plan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      planID,
		"message": "Workout plan created successfully",
	})
}

// Delete godoc
// @Summary      Delete workout plan
// @Tags         workout-plans
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Plan ID"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/workout-plans/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	err = h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Workout plan not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workout plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout plan deleted successfully"})
}

// Assign godoc
// @Summary      Assign plan to members
// @Description  Copies the plan's items into each member's personal
// @Description  schedule, replacing whatever was there.
// @Tags         workout-plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AssignPlanRequest  true  "Plan and members"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/workout-plans/assign [post]
func (h *Handler) Assign(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	err := h.repo.Assign(ctx, req.PlanID, req.MemberIDs)
	if errors.Is(err, ErrPlanEmpty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workout plan has no items to assign"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign workout plan"})
		return
	}

	go h.notifyAssigned(req.PlanID, req.MemberIDs)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Workout plan assigned to %d member(s)", len(req.MemberIDs)),
	})
}

// notifyAssigned queues a schedule summary email to every assigned member
// with an address on file. Runs after the assignment committed; failures
// are logged only.
func (h *Handler) notifyAssigned(planID int, memberIDs []int) {
	ctx := context.Background()

	planName, err := h.repo.GetPlanName(ctx, planID)
	if err != nil {
		logger.Errorf("Failed to load plan %d for assignment emails: %v", planID, err)
		return
	}

	items, err := h.repo.GetItems(ctx, planID)
	if err != nil {
		logger.Errorf("Failed to load plan %d items for assignment emails: %v", planID, err)
		return
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s: %s at %s (%s)", item.DayOfWeek, item.Activity, item.Time, item.Trainer))
	}

	for _, memberID := range memberIDs {
		m, err := h.memberRepo.GetByID(ctx, memberID)
		if err != nil || m.Email == nil || *m.Email == "" {
			continue
		}

		if err := h.email.SendScheduleAssigned(ctx, *m.Email, m.FirstName, planName, lines); err != nil {
			logger.Errorf("Failed to queue schedule email for member %d: %v", memberID, err)
		}
	}
}
