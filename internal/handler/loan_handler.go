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

// LoanLifecycleCommander defines the write-side operations used by LoanHandler.
type LoanLifecycleCommander interface {
	DisburseLoan(cqrs.DisburseLoanCommand) (*models.Loan, error)
	RecordPayment(cqrs.RecordPaymentCommand) (*models.Installment, error)
	RateLoan(cqrs.RateLoanCommand) (*models.Rating, error)
}

// LoanQuerier defines the read-side operations used by LoanHandler.
type LoanQuerier interface {
	ListLoans(cqrs.ListLoansQuery) ([]models.LoanView, error)
	GetLoan(cqrs.GetLoanQuery) (*models.LoanView, error)
}

type LoanHandler struct {
	commands LoanLifecycleCommander
	queries  LoanQuerier
}

type RateLoanRequest struct {
	Score int `json:"score" validate:"required,gte=1,lte=5"`
}

type ListLoansResponse struct {
	Loans []models.LoanView `json:"loans"`
}

func NewLoanHandler(commands LoanLifecycleCommander, queries LoanQuerier) *LoanHandler {
	return &LoanHandler{commands: commands, queries: queries}
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListLoans(cqrs.ListLoansQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list loans")
		return
	}
	if views == nil {
		views = []models.LoanView{}
	}
	c.JSON(http.StatusOK, ListLoansResponse{Loans: views})
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	loanID := c.Param("loanId")
	userID, _ := middleware.GetUserID(c)

	if !utils.ValidateLoanID(loanID) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid loan ID format")
		return
	}

	view, err := h.queries.GetLoan(cqrs.GetLoanQuery{LoanID: loanID, RequestingUserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrLoanNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Loan not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You can only view your own loans")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get loan")
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// Disburse records the lender's funds transfer and activates the loan.
func (h *LoanHandler) Disburse(c *gin.Context) {
	loanID := c.Param("loanId")
	userID, _ := middleware.GetUserID(c)

	loan, err := h.commands.DisburseLoan(cqrs.DisburseLoanCommand{LoanID: loanID, LenderID: userID})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrLoanNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Loan not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "Only the lender can disburse a loan")
		case errors.Is(err, ledger.ErrInvalidTransition):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Loan is not pending disbursement")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to disburse loan")
		}
		return
	}
	c.JSON(http.StatusOK, loan)
}

// RecordPayment settles the borrower's next outstanding installment.
func (h *LoanHandler) RecordPayment(c *gin.Context) {
	loanID := c.Param("loanId")
	userID, _ := middleware.GetUserID(c)

	installment, err := h.commands.RecordPayment(cqrs.RecordPaymentCommand{LoanID: loanID, BorrowerID: userID})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrLoanNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Loan not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "Only the borrower can record payments")
		case errors.Is(err, ledger.ErrInvalidTransition):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Loan has no outstanding installments")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		}
		return
	}
	c.JSON(http.StatusCreated, installment)
}

// RateLoan records a counterparty score for a completed loan.
func (h *LoanHandler) RateLoan(c *gin.Context) {
	loanID := c.Param("loanId")
	userID, _ := middleware.GetUserID(c)

	var req RateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	rating, err := h.commands.RateLoan(cqrs.RateLoanCommand{LoanID: loanID, RaterID: userID, Score: req.Score})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrLoanNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Loan not found")
		case errors.Is(err, ledger.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You can only rate loans you took part in")
		case errors.Is(err, ledger.ErrInvalidTransition):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Only completed loans can be rated")
		case errors.Is(err, ledger.ErrAlreadyRated):
			middleware.RespondWithError(c, http.StatusConflict, "You have already rated this loan")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to rate loan")
		}
		return
	}
	c.JSON(http.StatusCreated, rating)
}
