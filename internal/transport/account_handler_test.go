package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"accsmarket-backend/internal/domain"
	"accsmarket-backend/internal/repository"
	"accsmarket-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory account repository mirroring the SQL filter semantics
type mockAccountRepository struct {
	accounts map[uuid.UUID]*domain.Account
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{
		accounts: make(map[uuid.UUID]*domain.Account),
	}
}

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if _, exists := m.accounts[account.ID]; !exists {
		return repository.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.accounts[id]; !exists {
		return repository.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, exists := m.accounts[id]
	if !exists {
		return nil, repository.ErrAccountNotFound
	}
	return account, nil
}

func (m *mockAccountRepository) matches(account *domain.Account, filter repository.AccountFilter) bool {
	if account.Status != domain.AccountStatusActive {
		return false
	}
	if filter.Platform != "" && !strings.Contains(strings.ToLower(account.Platform), strings.ToLower(filter.Platform)) {
		return false
	}
	if filter.CategoryID != nil && account.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(account.Title), needle) &&
			!strings.Contains(strings.ToLower(account.Description), needle) {
			return false
		}
	}
	if filter.MinPrice != nil && account.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && account.Price > *filter.MaxPrice {
		return false
	}
	return true
}

func (m *mockAccountRepository) sorted(accounts []*domain.Account) []*domain.Account {
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].IsFeatured != accounts[j].IsFeatured {
			return accounts[i].IsFeatured
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts
}

func (m *mockAccountRepository) Search(ctx context.Context, filter repository.AccountFilter, page, pageSize int) ([]*domain.Account, int, error) {
	matching := []*domain.Account{}
	for _, account := range m.accounts {
		if m.matches(account, filter) {
			matching = append(matching, account)
		}
	}
	m.sorted(matching)

	total := len(matching)
	start := (page - 1) * pageSize
	if start >= total {
		return []*domain.Account{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matching[start:end], total, nil
}

func (m *mockAccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	accounts := []*domain.Account{}
	for _, account := range m.accounts {
		accounts = append(accounts, account)
	}
	return m.sorted(accounts), nil
}

func (m *mockAccountRepository) ListTopByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Account, error) {
	matching := []*domain.Account{}
	for _, account := range m.accounts {
		if account.CategoryID == categoryID && account.Status == domain.AccountStatusActive {
			matching = append(matching, account)
		}
	}
	m.sorted(matching)
	if len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

func (m *mockAccountRepository) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
	}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.Slug == category.Slug {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) ListActive(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	for _, category := range m.categories {
		if category.IsActive {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

func (m *mockCategoryRepository) ListRoots(ctx context.Context) ([]*domain.Category, error) {
	roots := []*domain.Category{}
	for _, category := range m.categories {
		if category.IsActive && category.IsRoot() {
			roots = append(roots, category)
		}
	}
	return roots, nil
}

func (m *mockCategoryRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*domain.Category, error) {
	children := []*domain.Category{}
	for _, category := range m.categories {
		if category.IsActive && category.ParentID != nil && *category.ParentID == parentID {
			children = append(children, category)
		}
	}
	return children, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

type catalogFixture struct {
	router       chi.Router
	accountRepo  *mockAccountRepository
	categoryRepo *mockCategoryRepository
}

func newCatalogFixture() *catalogFixture {
	accountRepo := newMockAccountRepository()
	categoryRepo := newMockCategoryRepository()
	userRepo := newMockUserRepository()
	catalogService := service.NewCatalogService(accountRepo, categoryRepo, userRepo)
	logger, _ := zap.NewDevelopment()
	handler := NewAccountHandler(catalogService, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	return &catalogFixture{
		router:       router,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
}

func (f *catalogFixture) addListing(categoryID uuid.UUID, title, platform string, price float64) *domain.Account {
	now := time.Now()
	account := &domain.Account{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		CategoryID: categoryID,
		Title:      title,
		Platform:   platform,
		Price:      price,
		Status:     domain.AccountStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.accountRepo.accounts[account.ID] = account
	return account
}

func (f *catalogFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestListAccounts_ResponseEnvelope(t *testing.T) {
	fixture := newCatalogFixture()
	categoryID := uuid.New()
	for i := 0; i < 25; i++ {
		fixture.addListing(categoryID, "Listing", "Facebook", 1.0)
	}

	w := fixture.get(t, "/api/accounts?page=2&per_page=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response AccountListResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}

	if response.Total != 25 {
		t.Errorf("expected total 25, got %d", response.Total)
	}
	if response.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", response.Pages)
	}
	if response.CurrentPage != 2 {
		t.Errorf("expected current_page 2, got %d", response.CurrentPage)
	}
	if response.PerPage != 10 {
		t.Errorf("expected per_page 10, got %d", response.PerPage)
	}
	if len(response.Accounts) != 10 {
		t.Errorf("expected 10 accounts on page 2, got %d", len(response.Accounts))
	}
}

func TestListAccounts_InvalidQueryParams(t *testing.T) {
	fixture := newCatalogFixture()

	cases := []struct {
		name string
		path string
	}{
		{"bad page", "/api/accounts?page=abc"},
		{"bad per_page", "/api/accounts?per_page=ten"},
		{"bad category_id", "/api/accounts?category_id=123"},
		{"bad min_price", "/api/accounts?min_price=cheap"},
		{"bad max_price", "/api/accounts?max_price=expensive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := fixture.get(t, tc.path)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestListAccounts_FiltersCombine(t *testing.T) {
	fixture := newCatalogFixture()
	facebookCat := uuid.New()
	instagramCat := uuid.New()

	match := fixture.addListing(facebookCat, "Aged softreg bundle", "Facebook", 5.0)
	fixture.addListing(facebookCat, "Aged softreg bundle", "Facebook", 50.0) // price out of range
	fixture.addListing(instagramCat, "Aged softreg bundle", "Facebook", 5.0) // wrong category
	fixture.addListing(facebookCat, "Fresh accounts", "Facebook", 5.0)       // search miss

	w := fixture.get(t, "/api/accounts?platform=face&category_id="+facebookCat.String()+"&search=softreg&min_price=1&max_price=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response AccountListResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if response.Total != 1 {
		t.Fatalf("expected exactly one match, got %d", response.Total)
	}
	if response.Accounts[0].ID != match.ID.String() {
		t.Errorf("expected listing %s, got %s", match.ID, response.Accounts[0].ID)
	}
}

func TestGetAccount(t *testing.T) {
	fixture := newCatalogFixture()
	listing := fixture.addListing(uuid.New(), "Listing", "Facebook", 1.0)

	w := fixture.get(t, "/api/accounts/"+listing.ID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view AccountView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if view.ID != listing.ID.String() {
		t.Errorf("expected listing %s, got %s", listing.ID, view.ID)
	}

	if w := fixture.get(t, "/api/accounts/"+uuid.New().String()); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}

	if w := fixture.get(t, "/api/accounts/not-a-uuid"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
}

func TestCreateAccount_Public(t *testing.T) {
	fixture := newCatalogFixture()

	sellerID := uuid.New()
	categoryID := uuid.New()

	payload := map[string]interface{}{
		"seller_id":   sellerID.String(),
		"category_id": categoryID.String(),
		"title":       "FB bundle",
		"platform":    "Facebook",
		"price":       2.5,
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var view AccountView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	if view.Status != domain.AccountStatusActive {
		t.Errorf("expected active status, got %q", view.Status)
	}
	if view.StockQuantity != 1 || view.MinOrderQuantity != 1 {
		t.Errorf("expected defaulted quantities, got %d and %d", view.StockQuantity, view.MinOrderQuantity)
	}

	// Missing required fields
	body, _ = json.Marshal(map[string]interface{}{"title": "No platform"})
	req = httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", w.Code)
	}

	// Negative price
	payload["price"] = -1.0
	body, _ = json.Marshal(payload)
	req = httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative price, got %d", w.Code)
	}
}

func TestAccountsByCategory(t *testing.T) {
	fixture := newCatalogFixture()

	root := &domain.Category{ID: uuid.New(), Name: "Facebook Accounts", Slug: "facebook-accounts", IsActive: true}
	fixture.categoryRepo.categories[root.ID] = root
	child := &domain.Category{ID: uuid.New(), Name: "Facebook Softregs", Slug: "facebook-softregs", ParentID: &root.ID, IsActive: true}
	fixture.categoryRepo.categories[child.ID] = child
	empty := &domain.Category{ID: uuid.New(), Name: "Facebook Aged", Slug: "facebook-aged", ParentID: &root.ID, IsActive: true}
	fixture.categoryRepo.categories[empty.ID] = empty

	fixture.addListing(child.ID, "Listing", "Facebook", 1.0)

	w := fixture.get(t, "/api/accounts/by-category")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var response map[string]map[string][]AccountView
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}

	if len(response["Facebook Accounts"]["Facebook Softregs"]) != 1 {
		t.Error("expected one listing under the stocked subcategory")
	}
	if _, ok := response["Facebook Accounts"]["Facebook Aged"]; ok {
		t.Error("expected empty subcategory to be omitted")
	}
}

func TestCreateCategory(t *testing.T) {
	fixture := newCatalogFixture()

	body, _ := json.Marshal(CreateCategoryRequest{Name: "Facebook Accounts", Slug: "facebook-accounts"})
	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Duplicate slug conflicts
	req = httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate slug, got %d", w.Code)
	}

	// Missing name fails validation
	body, _ = json.Marshal(CreateCategoryRequest{Slug: "no-name"})
	req = httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", w.Code)
	}
}
