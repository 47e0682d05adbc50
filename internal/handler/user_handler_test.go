package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/ledger"
	"github.com/susucircle/susu-backend/internal/models"
)

// ---- mock implementations ----

type mockUserQuerier struct {
	profileFn      func(cqrs.GetProfileQuery) (*models.UserProfileView, error)
	transactionsFn func(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

func (m *mockUserQuerier) GetProfile(q cqrs.GetProfileQuery) (*models.UserProfileView, error) {
	if m.profileFn != nil {
		return m.profileFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if m.transactionsFn != nil {
		return m.transactionsFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newUserTestRouter(qrys UserQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", authUserID)
		c.Next()
	})
	h := NewUserHandler(qrys)
	r.GET("/v1/users/:userId/profile", h.GetProfile)
	r.GET("/v1/transactions", h.ListTransactions)
	return r
}

// ---- tests ----

func TestGetProfile(t *testing.T) {
	profile := &models.UserProfileView{
		ID: "usr-001", Name: "Ama Mensah", Rating: 4.5,
		TotalLoansGiven: 3, TotalAmountLent: 150000,
	}
	tests := []struct {
		name           string
		userID         string
		profileFn      func(cqrs.GetProfileQuery) (*models.UserProfileView, error)
		expectedStatus int
	}{
		{
			name:           "success - fetch any user's profile",
			userID:         "usr-001",
			profileFn:      func(q cqrs.GetProfileQuery) (*models.UserProfileView, error) { return profile, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found - user does not exist",
			userID:         "usr-missing",
			profileFn:      func(q cqrs.GetProfileQuery) (*models.UserProfileView, error) { return nil, ledger.ErrUserNotFound },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - malformed user id",
			userID:         "bogus",
			profileFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserTestRouter(&mockUserQuerier{profileFn: tt.profileFn}, "usr-002")
			req, _ := http.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/profile", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListUserTransactions(t *testing.T) {
	router := newUserTestRouter(&mockUserQuerier{
		transactionsFn: func(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
			if q.UserID != "usr-001" {
				t.Errorf("expected caller usr-001, got %q", q.UserID)
			}
			return []models.TransactionView{
				{ID: "tan-001", Type: "contribution", Amount: 5000},
			}, nil
		},
	}, "usr-001")
	req, _ := http.NewRequest(http.MethodGet, "/v1/transactions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
}
