package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"accsmarket-backend/internal/domain"
	"accsmarket-backend/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stubAuthService lets each test script the admin check outcome
type stubAuthService struct {
	adminErr error
}

func (s *stubAuthService) Register(ctx context.Context, email, password, username string) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) RequireAdmin(ctx context.Context, userID uuid.UUID) error {
	return s.adminErr
}

func (s *stubAuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

func adminRequest(userID *uuid.UUID) *http.Request {
	req := httptest.NewRequest("GET", "/api/admin/dashboard", nil)
	if userID != nil {
		ctx := context.WithValue(req.Context(), UserIDKey, *userID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestRequireAdmin_AllowsAdmins(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	middleware := RequireAdmin(&stubAuthService{adminErr: nil}, logger)

	handlerCalled := false
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	userID := uuid.New()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest(&userID))

	if !handlerCalled {
		t.Fatal("expected handler to run for an admin caller")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequireAdmin_RejectsNonAdmins(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	middleware := RequireAdmin(&stubAuthService{adminErr: service.ErrAdminRequired}, logger)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	userID := uuid.New()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest(&userID))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin caller, got %d", w.Code)
	}
}

func TestRequireAdmin_RejectsMissingContextID(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	middleware := RequireAdmin(&stubAuthService{adminErr: nil}, logger)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest(nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 when the context carries no user id, got %d", w.Code)
	}
}

func TestRequireAdmin_StoreFailureIs500(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	middleware := RequireAdmin(&stubAuthService{adminErr: errors.New("connection refused")}, logger)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	userID := uuid.New()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest(&userID))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for a store failure, got %d", w.Code)
	}
}
