package user

import (
	"database/sql"
	"errors"
	"net/http"

	"gymdesk/internal/auth"
	"gymdesk/internal/member"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo       *Repository
	memberRepo *member.Repository
	jwtSecret  string
}

func NewHandler(db *sqlx.DB, jwtSecret string) *Handler {
	return &Handler{
		repo:       NewRepository(db),
		memberRepo: member.NewRepository(db),
		jwtSecret:  jwtSecret,
	}
}

// Login godoc
// @Summary      Login
// @Description  Authenticates staff by email and password, falling back to
// @Description  member login with NIC as the password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	// Staff accounts take priority over member logins.
	staff, err := h.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if staff != nil && err == nil && auth.CheckPassword(staff.PasswordHash, req.Password) {
		token, err := auth.GenerateToken(staff.ID, staff.Email, staff.Role, h.jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token: token,
			User:  LoginUser{ID: staff.ID, Name: staff.Name, Role: staff.Role, Email: staff.Email},
		})
		return
	}

	// Members authenticate with their NIC as the password.
	m, err := h.memberRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if m != nil && err == nil && m.NIC != nil && req.Password == *m.NIC {
		email := ""
		if m.Email != nil {
			email = *m.Email
		}

		token, err := auth.GenerateToken(m.ID, email, "member", h.jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token: token,
			User:  LoginUser{ID: m.ID, Name: m.FirstName + " " + m.LastName, Role: "member", Email: email},
		})
		return
	}

	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
}
