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
)

// MarketplaceCommander defines the write-side operations used by MarketplaceHandler.
type MarketplaceCommander interface {
	CreateListing(cqrs.CreateListingCommand) (*models.Listing, error)
	WithdrawListing(cqrs.WithdrawListingCommand) error
}

// LoanCommander is the listing-matching side of the loan lifecycle.
type LoanCommander interface {
	AcceptListing(cqrs.AcceptListingCommand) (*models.Loan, error)
}

// MarketplaceQuerier defines the read-side operations used by MarketplaceHandler.
type MarketplaceQuerier interface {
	ListListings(cqrs.ListListingsQuery) ([]models.ListingView, error)
}

type MarketplaceHandler struct {
	commands     MarketplaceCommander
	loanCommands LoanCommander
	queries      MarketplaceQuerier
}

type CreateOfferRequest struct {
	Amount        money.Amount `json:"amount" validate:"required,gt=0"`
	InterestRate  float64      `json:"interestRate" validate:"gte=0,lte=100"`
	TermMonths    int          `json:"repaymentPeriodMonths" validate:"required,gte=1,lte=60"`
	Description   string       `json:"description" validate:"max=500"`
	RepaymentPlan string       `json:"repaymentPlan" validate:"max=500"`
}

type CreateRequestRequest struct {
	Amount        money.Amount `json:"amount" validate:"required,gt=0"`
	Purpose       string       `json:"purpose" validate:"required,max=500"`
	RepaymentPlan string       `json:"repaymentPlan" validate:"max=500"`
}

type AcceptListingRequest struct {
	InterestRate float64 `json:"interestRate" validate:"gte=0,lte=100"`
	TermMonths   int     `json:"repaymentPeriodMonths" validate:"gte=0,lte=60"`
}

type ListListingsResponse struct {
	Listings []models.ListingView `json:"listings"`
}

func NewMarketplaceHandler(commands MarketplaceCommander, loanCommands LoanCommander, queries MarketplaceQuerier) *MarketplaceHandler {
	return &MarketplaceHandler{commands: commands, loanCommands: loanCommands, queries: queries}
}

// CreateOffer posts a lending offer: the poster is the prospective lender and
// fixes the terms up front.
func (h *MarketplaceHandler) CreateOffer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	listing, err := h.commands.CreateListing(cqrs.CreateListingCommand{
		Kind:          models.ListingKindOffer,
		PosterID:      userID,
		Amount:        req.Amount,
		InterestRate:  req.InterestRate,
		TermMonths:    req.TermMonths,
		Description:   req.Description,
		RepaymentPlan: req.RepaymentPlan,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create offer")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// CreateRequest posts a borrowing request: the poster is the prospective
// borrower and the accepting lender sets the terms.
func (h *MarketplaceHandler) CreateRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	listing, err := h.commands.CreateListing(cqrs.CreateListingCommand{
		Kind:          models.ListingKindRequest,
		PosterID:      userID,
		Amount:        req.Amount,
		Purpose:       req.Purpose,
		RepaymentPlan: req.RepaymentPlan,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create request")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *MarketplaceHandler) ListOffers(c *gin.Context) {
	h.listByKind(c, models.ListingKindOffer)
}

func (h *MarketplaceHandler) ListRequests(c *gin.Context) {
	h.listByKind(c, models.ListingKindRequest)
}

func (h *MarketplaceHandler) listByKind(c *gin.Context, kind string) {
	views, err := h.queries.ListListings(cqrs.ListListingsQuery{Kind: kind})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list listings")
		return
	}
	if views == nil {
		views = []models.ListingView{}
	}
	c.JSON(http.StatusOK, ListListingsResponse{Listings: views})
}

// AcceptListing matches an open listing and returns the pending loan. When two
// users race for the same listing exactly one gets the loan; the other gets a
// conflict.
func (h *MarketplaceHandler) AcceptListing(c *gin.Context) {
	listingID := c.Param("listingId")
	userID, _ := middleware.GetUserID(c)

	var req AcceptListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	loan, err := h.loanCommands.AcceptListing(cqrs.AcceptListingCommand{
		ListingID:    listingID,
		AccepterID:   userID,
		InterestRate: req.InterestRate,
		TermMonths:   req.TermMonths,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrListingNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Listing not found")
		case errors.Is(err, ledger.ErrListingUnavailable):
			middleware.RespondWithError(c, http.StatusConflict, "Listing is no longer available")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You cannot accept your own listing")
		case errors.Is(err, ledger.ErrUserNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to accept listing")
		}
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// WithdrawListing retires the poster's own open listing.
func (h *MarketplaceHandler) WithdrawListing(c *gin.Context) {
	listingID := c.Param("listingId")
	userID, _ := middleware.GetUserID(c)

	err := h.commands.WithdrawListing(cqrs.WithdrawListingCommand{
		ListingID: listingID,
		PosterID:  userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrListingNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Listing not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You can only withdraw your own listings")
		case errors.Is(err, ledger.ErrListingUnavailable):
			middleware.RespondWithError(c, http.StatusConflict, "Listing is no longer open")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to withdraw listing")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
