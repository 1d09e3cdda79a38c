package member

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// ListMembers godoc
// @Summary      List members
// @Description  Returns all members, newest first.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Member
// @Failure      500  {object}  gin.H
// @Router       /api/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// CreateMember godoc
// @Summary      Register member
// @Description  Creates a new member. Email and NIC must be unique when given.
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateMemberRequest  true  "Member data"
// @Success      201      {object}  Member
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/members [post]
func (h *Handler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if req.Email != nil && *req.Email != "" {
		exists, err := h.repo.EmailExists(ctx, *req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
	}

	if req.NIC != nil && *req.NIC != "" {
		exists, err := h.repo.NICExists(ctx, *req.NIC)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "NIC already registered"})
			return
		}
	}

	dob, ok := parseDOB(c, req.DOB)
	if !ok {
		return
	}

	m, err := h.repo.Create(ctx, req, dob)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	c.JSON(http.StatusCreated, m)
}

// GetMember godoc
// @Summary      Get member
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  Member
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/members/{id} [get]
func (h *Handler) GetMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	m, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		logger.Errorf("Failed to load member %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// UpdateMember godoc
// @Summary      Update member
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Member ID"
// @Param        request  body      UpdateMemberRequest  true  "Member data"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /api/members/{id} [put]
func (h *Handler) UpdateMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, okDOB := parseDOB(c, req.DOB)
	if !okDOB {
		return
	}

	if err := h.repo.Update(c.Request.Context(), id, req, dob); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member updated successfully"})
}

// DeleteMember godoc
// @Summary      Delete member
// @Description  Deletes a member and its dependent records.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/members/{id} [delete]
func (h *Handler) DeleteMember(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// GetMembership godoc
// @Summary      Get member's latest membership
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {object}  MembershipSummary
// @Failure      404  {object}  gin.H
// @Router       /api/members/{id}/membership [get]
func (h *Handler) GetMembership(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	summary, err := h.repo.GetCurrentMembership(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No membership found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch membership"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return 0, false
	}
	return id, true
}

func parseDOB(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}

	dob, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be in YYYY-MM-DD format"})
		return nil, false
	}
	return &dob, true
}
