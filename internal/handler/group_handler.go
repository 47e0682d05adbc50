package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/middleware"
	"github.com/susucircle/susu-backend/internal/models"
	"github.com/susucircle/susu-backend/internal/money"
	"github.com/susucircle/susu-backend/internal/utils"
)

// GroupCommander defines the write-side operations used by GroupHandler.
type GroupCommander interface {
	CreateGroup(cqrs.CreateGroupCommand) (*models.SavingsGroup, error)
	JoinGroup(cqrs.JoinGroupCommand) error
	RecordContribution(cqrs.RecordContributionCommand) (*models.Contribution, error)
}

// GroupQuerier defines the read-side operations used by GroupHandler.
type GroupQuerier interface {
	ListGroups(cqrs.ListGroupsQuery) ([]models.GroupView, error)
	GetGroup(cqrs.GetGroupQuery) (*models.GroupView, error)
	ReconcileGroup(cqrs.ReconcileGroupQuery) (*models.ReconciliationView, error)
}

type GroupHandler struct {
	commands GroupCommander
	queries  GroupQuerier
}

type CreateGroupRequest struct {
	Name                  string       `json:"name" validate:"required,min=2,max=100"`
	Description           string       `json:"description" validate:"max=500"`
	TargetAmount          money.Amount `json:"targetAmount" validate:"required,gt=0"`
	ContributionAmount    money.Amount `json:"contributionAmount" validate:"required,gt=0"`
	ContributionFrequency string       `json:"contributionFrequency" validate:"required,oneof=weekly bi-weekly monthly"`
}

type RecordContributionRequest struct {
	Amount money.Amount `json:"amount" validate:"required,gt=0"`
}

type ListGroupsResponse struct {
	Groups []models.GroupView `json:"groups"`
}

func NewGroupHandler(commands GroupCommander, queries GroupQuerier) *GroupHandler {
	return &GroupHandler{commands: commands, queries: queries}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	group, err := h.commands.CreateGroup(cqrs.CreateGroupCommand{
		CreatorID:             userID,
		Name:                  req.Name,
		Description:           req.Description,
		TargetAmount:          req.TargetAmount,
		ContributionAmount:    req.ContributionAmount,
		ContributionFrequency: req.ContributionFrequency,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidGroupConfig) {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid group configuration")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create group")
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListGroups(cqrs.ListGroupsQuery{RequestingUserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list groups")
		return
	}
	if views == nil {
		views = []models.GroupView{}
	}
	c.JSON(http.StatusOK, ListGroupsResponse{Groups: views})
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID := c.Param("groupId")
	userID, _ := middleware.GetUserID(c)

	if !utils.ValidateGroupID(groupID) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid group ID format")
		return
	}

	view, err := h.queries.GetGroup(cqrs.GetGroupQuery{GroupID: groupID, RequestingUserID: userID})
	if err != nil {
		if errors.Is(err, ledger.ErrGroupNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Group not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get group")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *GroupHandler) JoinGroup(c *gin.Context) {
	groupID := c.Param("groupId")
	userID, _ := middleware.GetUserID(c)

	err := h.commands.JoinGroup(cqrs.JoinGroupCommand{GroupID: groupID, UserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrGroupNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Group not found")
		case errors.Is(err, ledger.ErrAlreadyMember):
			middleware.RespondWithError(c, http.StatusConflict, "Already a member of this group")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to join group")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined group"})
}

func (h *GroupHandler) RecordContribution(c *gin.Context) {
	groupID := c.Param("groupId")
	userID, _ := middleware.GetUserID(c)

	var req RecordContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	contribution, err := h.commands.RecordContribution(cqrs.RecordContributionCommand{
		GroupID: groupID,
		UserID:  userID,
		Amount:  req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrGroupNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Group not found")
		case errors.Is(err, ledger.ErrNotGroupMember):
			middleware.RespondWithError(c, http.StatusForbidden, "You can only contribute to groups you belong to")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to record contribution")
		}
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// Reconcile reports whether a group's stored balance matches the sum of its
// recorded contributions.
func (h *GroupHandler) Reconcile(c *gin.Context) {
	groupID := c.Param("groupId")

	view, err := h.queries.ReconcileGroup(cqrs.ReconcileGroupQuery{GroupID: groupID})
	if err != nil {
		if errors.Is(err, ledger.ErrGroupNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Group not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to reconcile group")
		return
	}
	c.JSON(http.StatusOK, view)
}
