package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
)

// ---- mock implementations ----

type mockMarketplaceCommander struct {
	createFn   func(cqrs.CreateListingCommand) (*models.Listing, error)
	withdrawFn func(cqrs.WithdrawListingCommand) error
}

func (m *mockMarketplaceCommander) CreateListing(cmd cqrs.CreateListingCommand) (*models.Listing, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockMarketplaceCommander) WithdrawListing(cmd cqrs.WithdrawListingCommand) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(cmd)
	}
	return fmt.Errorf("not configured")
}

type mockLoanCommander struct {
	acceptFn func(cqrs.AcceptListingCommand) (*models.Loan, error)
}

func (m *mockLoanCommander) AcceptListing(cmd cqrs.AcceptListingCommand) (*models.Loan, error) {
	if m.acceptFn != nil {
		return m.acceptFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockMarketplaceQuerier struct {
	listFn func(cqrs.ListListingsQuery) ([]models.ListingView, error)
}

func (m *mockMarketplaceQuerier) ListListings(q cqrs.ListListingsQuery) ([]models.ListingView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuthMkt(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newMktTestRouter(cmds MarketplaceCommander, loanCmds LoanCommander, qrys MarketplaceQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthMkt(authUserID))
	h := NewMarketplaceHandler(cmds, loanCmds, qrys)
	v1 := r.Group("/v1")
	v1.POST("/marketplace/offers", h.CreateOffer)
	v1.GET("/marketplace/offers", h.ListOffers)
	v1.POST("/marketplace/requests", h.CreateRequest)
	v1.GET("/marketplace/requests", h.ListRequests)
	v1.POST("/listings/:listingId/accept", h.AcceptListing)
	v1.DELETE("/listings/:listingId", h.WithdrawListing)
	return r
}

func mktDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var mktTestListing = &models.Listing{
	ID: "lst-abc123", Kind: "offer", PosterID: "usr-001",
	Amount: 100000, InterestRate: 10, TermMonths: 3,
	Status: "open", CreatedAt: time.Now(),
}

var mktTestLoan = &models.Loan{
	ID: "lon-abc123", ListingID: "lst-abc123",
	LenderID: "usr-001", BorrowerID: "usr-002",
	Principal: 100000, InterestRate: 10, TermMonths: 3,
	Status: "pending", AcceptedAt: time.Now(),
}

func mktOfferBody() map[string]interface{} {
	return map[string]interface{}{
		"amount":                1000.00,
		"interestRate":          10.0,
		"repaymentPeriodMonths": 3,
		"description":           "Short-term loan for traders",
	}
}

func mktRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"amount":  800.00,
		"purpose": "School fees",
	}
}

// ---- tests ----

func TestCreateOffer(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateListingCommand) (*models.Listing, error)
		expectedStatus int
	}{
		{
			name:           "success - post lending offer",
			body:           mktOfferBody(),
			createFn:       func(cmd cqrs.CreateListingCommand) (*models.Listing, error) { return mktTestListing, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing term",
			body:           map[string]interface{}{"amount": 1000.0, "interestRate": 10.0},
			createFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - zero amount",
			body:           map[string]interface{}{"amount": 0, "interestRate": 10.0, "repaymentPeriodMonths": 3},
			createFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockMarketplaceCommander{createFn: tt.createFn}
			router := newMktTestRouter(cmds, &mockLoanCommander{}, &mockMarketplaceQuerier{}, "usr-001")
			w := mktDoRequest(router, http.MethodPost, "/v1/marketplace/offers", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateRequest(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(cqrs.CreateListingCommand) (*models.Listing, error)
		expectedStatus int
	}{
		{
			name:           "success - post borrowing request",
			body:           mktRequestBody(),
			createFn:       func(cmd cqrs.CreateListingCommand) (*models.Listing, error) { return mktTestListing, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing purpose",
			body:           map[string]interface{}{"amount": 800.0},
			createFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockMarketplaceCommander{createFn: tt.createFn}
			router := newMktTestRouter(cmds, &mockLoanCommander{}, &mockMarketplaceQuerier{}, "usr-002")
			w := mktDoRequest(router, http.MethodPost, "/v1/marketplace/requests", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAcceptListing(t *testing.T) {
	tests := []struct {
		name           string
		listingID      string
		acceptFn       func(cqrs.AcceptListingCommand) (*models.Loan, error)
		expectedStatus int
	}{
		{
			name:           "success - accept open offer",
			listingID:      "lst-abc123",
			acceptFn:       func(cmd cqrs.AcceptListingCommand) (*models.Loan, error) { return mktTestLoan, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:      "conflict - listing already matched",
			listingID: "lst-abc123",
			acceptFn: func(cmd cqrs.AcceptListingCommand) (*models.Loan, error) {
				return nil, ledger.ErrListingUnavailable
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:      "forbidden - accept own listing",
			listingID: "lst-abc123",
			acceptFn: func(cmd cqrs.AcceptListingCommand) (*models.Loan, error) {
				return nil, ledger.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "not found - listing does not exist",
			listingID: "lst-missing",
			acceptFn: func(cmd cqrs.AcceptListingCommand) (*models.Loan, error) {
				return nil, ledger.ErrListingNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loanCmds := &mockLoanCommander{acceptFn: tt.acceptFn}
			router := newMktTestRouter(&mockMarketplaceCommander{}, loanCmds, &mockMarketplaceQuerier{}, "usr-002")
			body := map[string]interface{}{"interestRate": 12.0, "repaymentPeriodMonths": 6}
			w := mktDoRequest(router, http.MethodPost, "/v1/listings/"+tt.listingID+"/accept", body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestWithdrawListing(t *testing.T) {
	tests := []struct {
		name           string
		listingID      string
		withdrawFn     func(cqrs.WithdrawListingCommand) error
		expectedStatus int
	}{
		{
			name:           "success - withdraw own open listing",
			listingID:      "lst-abc123",
			withdrawFn:     func(cmd cqrs.WithdrawListingCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "forbidden - withdraw another poster's listing",
			listingID:      "lst-abc123",
			withdrawFn:     func(cmd cqrs.WithdrawListingCommand) error { return ledger.ErrForbidden },
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "conflict - listing already matched",
			listingID:      "lst-abc123",
			withdrawFn:     func(cmd cqrs.WithdrawListingCommand) error { return ledger.ErrListingUnavailable },
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockMarketplaceCommander{withdrawFn: tt.withdrawFn}
			router := newMktTestRouter(cmds, &mockLoanCommander{}, &mockMarketplaceQuerier{}, "usr-001")
			w := mktDoRequest(router, http.MethodDelete, "/v1/listings/"+tt.listingID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListOffers(t *testing.T) {
	router := newMktTestRouter(&mockMarketplaceCommander{}, &mockLoanCommander{}, &mockMarketplaceQuerier{
		listFn: func(q cqrs.ListListingsQuery) ([]models.ListingView, error) {
			if q.Kind != "offer" {
				t.Errorf("expected kind offer, got %q", q.Kind)
			}
			return []models.ListingView{{ID: "lst-abc123", Kind: "offer", PosterName: "Ama", Amount: 100000}}, nil
		},
	}, "usr-002")
	w := mktDoRequest(router, http.MethodGet, "/v1/marketplace/offers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	var resp ListListingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Listings) != 1 {
		t.Errorf("expected 1 listing, got %d", len(resp.Listings))
	}
}
