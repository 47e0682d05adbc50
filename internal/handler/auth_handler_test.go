package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/susucircle/susu-backend/internal/cqrs"
	"github.com/susucircle/susu-backend/internal/models"
)

// ---- mock implementations ----

type mockUserCommander struct {
	registerFn func(cqrs.RegisterUserCommand) (*models.User, error)
}

func (m *mockUserCommander) RegisterUser(cmd cqrs.RegisterUserCommand) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAuthQuerier struct {
	loginFn   func(cqrs.LoginCommand) (string, error)
	refreshFn func(cqrs.RefreshTokenCommand) (string, error)
	tokenFn   func(userID, email string) (string, error)
}

func (m *mockAuthQuerier) Login(cmd cqrs.LoginCommand) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockAuthQuerier) RefreshToken(cmd cqrs.RefreshTokenCommand) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}
func (m *mockAuthQuerier) GenerateToken(userID, email string) (string, error) {
	if m.tokenFn != nil {
		return m.tokenFn(userID, email)
	}
	return "test-token", nil
}

// ---- helpers ----

func newAuthTestRouter(cmds UserCommander, qrys AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(cmds, qrys)
	auth := r.Group("/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.RefreshToken)
	return r
}

func authDoRequest(router *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authRegisterBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Ama Mensah",
		"email":       "ama@example.com",
		"password":    "s3cret-pass",
		"phoneNumber": "+233201234567",
	}
}

// ---- tests ----

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterUserCommand) (*models.User, error)
		expectedStatus int
	}{
		{
			name: "success - register new user",
			body: authRegisterBody(),
			registerFn: func(cmd cqrs.RegisterUserCommand) (*models.User, error) {
				return &models.User{ID: "usr-001", Name: cmd.Name, Email: cmd.Email}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "conflict - email already registered",
			body: authRegisterBody(),
			registerFn: func(cmd cqrs.RegisterUserCommand) (*models.User, error) {
				return nil, fmt.Errorf("email already registered")
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]interface{}{"name": "Ama", "email": "not-an-email", "password": "s3cret-pass", "phoneNumber": "+233201234567"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - short password",
			body:           map[string]interface{}{"name": "Ama", "email": "ama@example.com", "password": "short", "phoneNumber": "+233201234567"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockUserCommander{registerFn: tt.registerFn}
			router := newAuthTestRouter(cmds, &mockAuthQuerier{})
			w := authDoRequest(router, "/v1/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(cqrs.LoginCommand) (string, error)
		expectedStatus int
	}{
		{
			name:           "success - valid credentials",
			body:           map[string]interface{}{"email": "ama@example.com", "password": "s3cret-pass"},
			loginFn:        func(cmd cqrs.LoginCommand) (string, error) { return "jwt-token", nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - wrong password",
			body:           map[string]interface{}{"email": "ama@example.com", "password": "wrong"},
			loginFn:        func(cmd cqrs.LoginCommand) (string, error) { return "", fmt.Errorf("invalid credentials") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]interface{}{"email": "ama@example.com"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockUserCommander{}, &mockAuthQuerier{loginFn: tt.loginFn})
			w := authDoRequest(router, "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	router := newAuthTestRouter(&mockUserCommander{}, &mockAuthQuerier{
		refreshFn: func(cmd cqrs.RefreshTokenCommand) (string, error) {
			if cmd.Token == "valid" {
				return "new-token", nil
			}
			return "", fmt.Errorf("invalid token")
		},
	})

	w := authDoRequest(router, "/v1/auth/refresh", map[string]interface{}{"token": "valid"})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}

	w = authDoRequest(router, "/v1/auth/refresh", map[string]interface{}{"token": "expired"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 got %d; body: %s", w.Code, w.Body.String())
	}
}
