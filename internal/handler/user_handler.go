package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/middleware"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/utils"
)

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetProfile(cqrs.GetProfileQuery) (*models.UserProfileView, error)
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

type UserHandler struct {
	queries UserQuerier
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewUserHandler(queries UserQuerier) *UserHandler {
	return &UserHandler{queries: queries}
}

// GetProfile serves any user's public profile. Profiles back the marketplace
// trust signal, so they are not restricted to the owner.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.Param("userId")
	if !utils.ValidateUserID(userID) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	view, err := h.queries.GetProfile(cqrs.GetProfileQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListTransactions serves the caller's own ledger lines, newest first.
func (h *UserHandler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if views == nil {
		views = []models.TransactionView{}
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}
