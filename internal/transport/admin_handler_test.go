package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"accsmarket-backend/internal/domain"
	"accsmarket-backend/internal/middleware"
	"accsmarket-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type adminFixture struct {
	router      chi.Router
	accountRepo *mockAccountRepository
	userRepo    *mockUserRepository
	adminToken  string
	userToken   string
	adminID     uuid.UUID
}

// newAdminFixture builds the admin surface with the real auth and admin
// middlewares stacked, one admin and one regular user registered
func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	accountRepo := newMockAccountRepository()
	categoryRepo := newMockCategoryRepository()
	userRepo := newMockUserRepository()

	authService := service.NewAuthService(userRepo, "test-secret", 7)
	catalogService := service.NewCatalogService(accountRepo, categoryRepo, userRepo)
	logger, _ := zap.NewDevelopment()

	admin, adminToken, err := authService.Register(context.Background(), "admin@example.com", "password123", "admin")
	if err != nil {
		t.Fatalf("admin registration failed: %v", err)
	}
	admin.IsAdmin = true

	_, userToken, err := authService.Register(context.Background(), "user@example.com", "password123", "user")
	if err != nil {
		t.Fatalf("user registration failed: %v", err)
	}

	handler := NewAdminHandler(catalogService, authService, logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router,
		middleware.AuthMiddleware("test-secret", logger),
		middleware.RequireAdmin(authService, logger),
	)

	return &adminFixture{
		router:      router,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		adminToken:  adminToken,
		userToken:   userToken,
		adminID:     admin.ID,
	}
}

func (f *adminFixture) request(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutes_AuthenticationAndAuthorization(t *testing.T) {
	fixture := newAdminFixture(t)

	// No token at all
	if w := fixture.request(t, http.MethodGet, "/api/admin/dashboard", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	// Valid token, but not an admin
	if w := fixture.request(t, http.MethodGet, "/api/admin/dashboard", fixture.userToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}

	// Admin passes both gates
	if w := fixture.request(t, http.MethodGet, "/api/admin/dashboard", fixture.adminToken, nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}

func TestAdminDashboard_Stats(t *testing.T) {
	fixture := newAdminFixture(t)

	for i := 0; i < 4; i++ {
		account := &domain.Account{ID: uuid.New(), Status: domain.AccountStatusActive}
		fixture.accountRepo.accounts[account.ID] = account
	}

	w := fixture.request(t, http.MethodGet, "/api/admin/dashboard", fixture.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats service.DashboardStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if stats.TotalAccounts != 4 {
		t.Errorf("expected 4 accounts, got %d", stats.TotalAccounts)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", stats.TotalUsers)
	}
}

func TestAdminListUsers_NoHashLeak(t *testing.T) {
	fixture := newAdminFixture(t)

	w := fixture.request(t, http.MethodGet, "/api/admin/users", fixture.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response map[string][]UserProfile
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if len(response["users"]) != 2 {
		t.Errorf("expected 2 users, got %d", len(response["users"]))
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password_hash")) {
		t.Error("user listing leaked the password hash field")
	}
}

func TestAdminCreateAccount_DefaultsSellerToCaller(t *testing.T) {
	fixture := newAdminFixture(t)

	payload := map[string]interface{}{
		"category_id": uuid.New().String(),
		"title":       "Admin listing",
		"platform":    "Facebook",
		"price":       3.5,
	}

	w := fixture.request(t, http.MethodPost, "/api/admin/accounts", fixture.adminToken, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var view AccountView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if view.SellerID != fixture.adminID.String() {
		t.Errorf("expected seller to default to the caller %s, got %s", fixture.adminID, view.SellerID)
	}
}

func TestAdminUpdateAccount(t *testing.T) {
	fixture := newAdminFixture(t)

	listing := &domain.Account{
		ID:         uuid.New(),
		SellerID:   fixture.adminID,
		CategoryID: uuid.New(),
		Title:      "Original",
		Platform:   "Facebook",
		Price:      1.0,
		Status:     domain.AccountStatusActive,
	}
	fixture.accountRepo.accounts[listing.ID] = listing

	payload := map[string]interface{}{"title": "Renamed", "is_featured": true}
	w := fixture.request(t, http.MethodPut, "/api/admin/accounts/"+listing.ID.String(), fixture.adminToken, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view AccountView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if view.Title != "Renamed" {
		t.Errorf("expected renamed title, got %q", view.Title)
	}
	if !view.IsFeatured {
		t.Error("expected listing to be featured after patch")
	}
	if view.Platform != "Facebook" {
		t.Errorf("expected untouched platform, got %q", view.Platform)
	}

	// Unknown listing
	w = fixture.request(t, http.MethodPut, "/api/admin/accounts/"+uuid.New().String(), fixture.adminToken, payload)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown listing, got %d", w.Code)
	}
}

func TestAdminDeleteAccount(t *testing.T) {
	fixture := newAdminFixture(t)

	listing := &domain.Account{
		ID:       uuid.New(),
		SellerID: fixture.adminID,
		Status:   domain.AccountStatusActive,
	}
	fixture.accountRepo.accounts[listing.ID] = listing

	w := fixture.request(t, http.MethodDelete, "/api/admin/accounts/"+listing.ID.String(), fixture.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if _, exists := fixture.accountRepo.accounts[listing.ID]; exists {
		t.Error("expected listing to be removed from the store")
	}

	// Deleting again answers 404
	w = fixture.request(t, http.MethodDelete, "/api/admin/accounts/"+listing.ID.String(), fixture.adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for already deleted listing, got %d", w.Code)
	}
}
