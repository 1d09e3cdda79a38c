package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gymdesk/internal/config"
	"gymdesk/internal/email"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo           *Repository
	memberRepo     *member.Repository
	membershipRepo *membership.Repository
	gateway        *Gateway
	email          *email.Service
}

func NewHandler(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Handler {
	return &Handler{
		repo:           NewRepository(db),
		memberRepo:     member.NewRepository(db),
		membershipRepo: membership.NewRepository(db),
		gateway:        NewGateway(cfg.PayHereMerchantID, cfg.PayHereMerchantSecret, cfg.PayHereCurrency),
		email:          emailService,
	}
}

// List godoc
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   PaymentWithMember
// @Failure      500  {object}  gin.H
// @Router       /api/payments [get]
func (h *Handler) List(c *gin.Context) {
	payments, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// Create godoc
// @Summary      Record payment
// @Description  Records a payment; when a plan is selected a new active
// @Description  membership is created in the same transaction and the
// @Description  member is activated.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePaymentRequest  true  "Payment data"
// @Success      201      {object}  CreatePaymentResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/payments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	var plan *membership.Plan
	if req.PlanID != nil {
		p, err := h.membershipRepo.GetPlan(ctx, *req.PlanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
				return
			}
			logger.Errorf("Failed to load plan %d: %v", *req.PlanID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		plan = p
	}

	invoiceNumber := membership.NewInvoiceNumber()

	p, err := h.repo.CreateWithPlan(ctx, req.MemberID, plan, req.Amount, req.PaymentMethod, invoiceNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	metrics.RecordPayment("manual")
	h.notifyReceipt(req.MemberID, invoiceNumber, req.Amount)

	c.JSON(http.StatusCreated, CreatePaymentResponse{
		ID:            p.ID,
		InvoiceNumber: p.InvoiceNumber,
		Message:       "Payment recorded and membership updated successfully",
	})
}

// ByMember godoc
// @Summary      Member payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {array}   Payment
// @Failure      400  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/payments/member/{id} [get]
func (h *Handler) ByMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	payments, err := h.repo.GetByMember(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// InitiateCheckout godoc
// @Summary      Initiate PayHere checkout
// @Description  Builds the signed parameter set the client forwards to the
// @Description  gateway's redirect checkout.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      InitiateCheckoutRequest  true  "Member and plan"
// @Success      200      {object}  CheckoutParams
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/payments/payhere/initiate [post]
func (h *Handler) InitiateCheckout(c *gin.Context) {
	var req InitiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	m, err := h.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Errorf("Failed to load member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	plan, err := h.membershipRepo.GetPlan(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
			return
		}
		logger.Errorf("Failed to load plan %d: %v", req.PlanID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	orderID := "GYM-" + uuid.NewString()

	memberEmail := ""
	if m.Email != nil {
		memberEmail = *m.Email
	}

	c.JSON(http.StatusOK, CheckoutParams{
		MerchantID: h.gateway.MerchantID,
		OrderID:    orderID,
		Items:      plan.Name,
		Amount:     fmt.Sprintf("%.2f", plan.Price),
		Currency:   h.gateway.Currency,
		Hash:       h.gateway.CheckoutHash(orderID, plan.Price),
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      memberEmail,
		Phone:      m.Phone,
		Custom1:    strconv.Itoa(m.ID),
		Custom2:    strconv.Itoa(plan.ID),
	})
}

// Notify godoc
// @Summary      PayHere webhook
// @Description  Server-to-server callback from the gateway. A bad
// @Description  signature is rejected without touching any state; a
// @Description  non-success status is acknowledged so the gateway stops
// @Description  retrying.
// @Tags         payments
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/payments/payhere/notify [post]
func (h *Handler) Notify(c *gin.Context) {
	merchantID := c.PostForm("merchant_id")
	orderID := c.PostForm("order_id")
	payhereAmount := c.PostForm("payhere_amount")
	payhereCurrency := c.PostForm("payhere_currency")
	statusCode := c.PostForm("status_code")
	md5sig := c.PostForm("md5sig")

	if !h.gateway.VerifyNotification(merchantID, orderID, payhereAmount, payhereCurrency, statusCode, md5sig) {
		logger.Errorf("PayHere notification signature mismatch for order %s", orderID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	// Status 2 is "success"; everything else is acknowledged without side
	// effects so the gateway does not retry forever.
	if statusCode != "2" {
		logger.Infof("PayHere notification for order %s ignored (status %s)", orderID, statusCode)
		c.JSON(http.StatusOK, gin.H{"message": "Notification acknowledged"})
		return
	}

	memberID, err := strconv.Atoi(c.PostForm("custom_1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member reference"})
		return
	}

	planID, err := strconv.Atoi(c.PostForm("custom_2"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan reference"})
		return
	}

	amount, err := strconv.ParseFloat(payhereAmount, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	ctx := c.Request.Context()

	plan, err := h.membershipRepo.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Plan not found"})
			return
		}
		logger.Errorf("Failed to load plan %d for order %s: %v", planID, orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// The gateway's order id doubles as the invoice number so the row can
	// be traced back to the checkout.
	if _, err := h.repo.CreateWithPlan(ctx, memberID, plan, amount, "payhere", orderID); err != nil {
		logger.Errorf("Failed to record gateway payment for order %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	metrics.RecordPayment("payhere")
	h.notifyReceipt(memberID, orderID, amount)

	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

// notifyReceipt queues the receipt email after the payment committed.
// Failures are logged and never surfaced to the caller.
func (h *Handler) notifyReceipt(memberID int, invoiceNumber string, amount float64) {
	ctx := context.Background()

	m, err := h.memberRepo.GetByID(ctx, memberID)
	if err != nil || m.Email == nil || *m.Email == "" {
		return
	}

	if err := h.email.SendPaymentReceipt(ctx, *m.Email, m.FirstName, invoiceNumber, amount); err != nil {
		logger.Errorf("Failed to queue receipt email for member %d: %v", memberID, err)
	}
}
