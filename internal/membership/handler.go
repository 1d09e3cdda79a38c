package membership

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/email"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo       *Repository
	memberRepo *member.Repository
	email      *email.Service

	// autoActivate skips the admin-approval step for new requests.
	autoActivate bool
}

func NewHandler(db *sqlx.DB, emailService *email.Service, autoActivate bool) *Handler {
	return &Handler{
		repo:         NewRepository(db),
		memberRepo:   member.NewRepository(db),
		email:        emailService,
		autoActivate: autoActivate,
	}
}

// ListPlans godoc
// @Summary      List membership plans
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Plan
// @Failure      500  {object}  gin.H
// @Router       /api/memberships/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.repo.ListPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// Request godoc
// @Summary      Request a membership
// @Description  Creates a membership for the member along with its payment
// @Description  row. Depending on configuration the membership starts
// @Description  pending (admin approval) or active immediately.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RequestMembershipRequest  true  "Membership request"
// @Success      201      {object}  Membership
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/memberships/request [post]
func (h *Handler) Request(c *gin.Context) {
	var req RequestMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	plan, err := h.repo.GetPlan(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
			return
		}
		logger.Errorf("Failed to load plan %d: %v", req.PlanID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	status := StatusPending
	if h.autoActivate {
		status = StatusActive
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "online"
	}

	startDate := time.Now()
	endDate := startDate.AddDate(0, plan.DurationMonths, 0)
	invoiceNumber := NewInvoiceNumber()

	ms, err := h.repo.CreateRequest(ctx, req.MemberID, plan.ID, status, startDate, endDate, plan.Price, paymentMethod, invoiceNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create membership request"})
		return
	}

	metrics.RecordMembership(status)
	c.JSON(http.StatusCreated, ms)
}

// ListPending godoc
// @Summary      List pending memberships
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   PendingMembership
// @Failure      500  {object}  gin.H
// @Router       /api/memberships/pending [get]
func (h *Handler) ListPending(c *gin.Context) {
	pending, err := h.repo.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending memberships"})
		return
	}

	c.JSON(http.StatusOK, pending)
}

// Approve godoc
// @Summary      Approve membership
// @Description  Activates a pending membership and the member. A
// @Description  notification email is queued after the change commits.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Membership ID"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/memberships/{id}/approve [put]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := membershipID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	memberID, err := h.repo.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found or not pending"})
			return
		}
		logger.Errorf("Failed to approve membership %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve membership"})
		return
	}

	h.notifyApproved(memberID, id)

	c.JSON(http.StatusOK, gin.H{"message": "Membership approved successfully"})
}

// Reject godoc
// @Summary      Reject membership
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Membership ID"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/memberships/{id}/reject [put]
func (h *Handler) Reject(c *gin.Context) {
	id, ok := membershipID(c)
	if !ok {
		return
	}

	if err := h.repo.Reject(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found or not pending"})
			return
		}
		logger.Errorf("Failed to reject membership %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject membership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership rejected"})
}

// notifyApproved queues the approval email. Failures are logged and never
// affect the already-committed approval.
func (h *Handler) notifyApproved(memberID, membershipID int) {
	ctx := context.Background()

	m, err := h.memberRepo.GetByID(ctx, memberID)
	if err != nil || m.Email == nil || *m.Email == "" {
		return
	}

	summary, err := h.memberRepo.GetCurrentMembership(ctx, memberID)
	if err != nil {
		logger.Errorf("Failed to load membership %d for notification: %v", membershipID, err)
		return
	}

	if err := h.email.SendMembershipApproved(ctx, *m.Email, m.FirstName, summary.PlanName, summary.EndDate); err != nil {
		logger.Errorf("Failed to queue approval email for member %d: %v", memberID, err)
	}
}

func membershipID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid membership ID"})
		return 0, false
	}
	return id, true
}
