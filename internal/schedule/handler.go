package schedule

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// memberID parses the path parameter and, for member tokens, refuses
// access to another member's schedule. Staff and admin tokens are not
// restricted.
func memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return 0, false
	}

	if role, _ := c.Get("user_role"); role == "member" {
		if uid, ok := auth.GetUserID(c); ok && uid != id {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return 0, false
		}
	}

	return id, true
}

// Get godoc
// @Summary      Member schedule
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Member ID"
// @Success      200  {array}   Item
// @Failure      400  {object}  gin.H
// @Failure      403  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /api/members/{id}/schedule [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	items, err := h.repo.GetByMember(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddItem godoc
// @Summary      Add schedule item
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int             true  "Member ID"
// @Param        request  body      AddItemRequest  true  "Item data"
// @Success      201      {object}  Item
// @Failure      400      {object}  gin.H
// @Failure      403      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/members/{id}/schedule [post]
func (h *Handler) AddItem(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.AddItem(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add schedule item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteItem godoc
// @Summary      Remove schedule item
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      int  true  "Member ID"
// @Param        itemId  path      int  true  "Schedule item ID"
// @Success      200     {object}  gin.H
// @Failure      400     {object}  gin.H
// @Failure      403     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /api/members/{id}/schedule/{itemId} [delete]
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	err = h.repo.DeleteItem(c.Request.Context(), id, itemID)
	if errors.Is(err, ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule item deleted successfully"})
}

// Completions godoc
// @Summary      Daily completions
// @Description  Returns the member's activity completions for the given
// @Description  date (defaults to today).
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        id    path      int     true   "Member ID"
// @Param        date  query     string  false  "Date (YYYY-MM-DD)"
// @Success      200   {array}   Completion
// @Failure      400   {object}  gin.H
// @Failure      403   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /api/members/{id}/schedule/completions [get]
func (h *Handler) Completions(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	completions, err := h.repo.GetCompletions(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch completions"})
		return
	}

	c.JSON(http.StatusOK, completions)
}

// ToggleCompletion godoc
// @Summary      Toggle activity completion
// @Description  Marks a schedule item done for the date, or undoes it if
// @Description  already marked.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      int     true   "Member ID"
// @Param        itemId  path      int     true   "Schedule item ID"
// @Param        date    query     string  false  "Date (YYYY-MM-DD)"
// @Success      200     {object}  ToggleCompletionResponse
// @Failure      400     {object}  gin.H
// @Failure      403     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /api/members/{id}/schedule/{itemId}/completion [post]
func (h *Handler) ToggleCompletion(c *gin.Context) {
	id, ok := memberID(c)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	completed, err := h.repo.ToggleCompletion(c.Request.Context(), id, itemID, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update completion"})
		return
	}

	msg := "Activity marked as completed"
	if !completed {
		msg = "Activity completion removed"
	}

	c.JSON(http.StatusOK, ToggleCompletionResponse{Completed: completed, Message: msg})
}
