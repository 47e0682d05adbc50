package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/middleware"
	"github.com/susucircle/susu-backend/internal/models"
)

// DashboardQuerier defines the read-side operations used by DashboardHandler.
type DashboardQuerier interface {
	GetDashboard(cqrs.GetDashboardQuery) (*models.DashboardView, error)
}

type DashboardHandler struct {
	queries DashboardQuerier
}

func NewDashboardHandler(queries DashboardQuerier) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

// GetDashboard serves the authenticated user's aggregated figures. A user with
// no records gets all-zero stats, not an error.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetDashboard(cqrs.GetDashboardQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, view)
}
