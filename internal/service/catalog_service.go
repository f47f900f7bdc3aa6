package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accsmarket-backend/internal/domain"
	"accsmarket-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	// DefaultPageSize is used when the caller does not supply per_page
	DefaultPageSize = 20

	// MaxPageSize bounds per_page
	MaxPageSize = 100

	// GroupedListingsLimit is the number of listings shown per subcategory
	// on the grouped homepage view
	GroupedListingsLimit = 5
)

var (
	ErrMissingListingFields  = errors.New("seller_id, category_id, title, platform and price are required")
	ErrNegativePrice         = errors.New("price must not be negative")
	ErrMissingCategoryFields = errors.New("name and slug are required")
	ErrParentCategoryInvalid = errors.New("parent category must be an existing root category")
)

// SearchResult is one page of matching listings plus pagination metadata.
// Total and Pages are computed from the same predicate set as Accounts.
type SearchResult struct {
	Accounts []*domain.Account
	Total    int
	Pages    int
	Page     int
	PerPage  int
}

// ListingInput carries the fields accepted when creating a listing.
// Pointer fields distinguish "absent" from zero values.
type ListingInput struct {
	SellerID           *uuid.UUID
	CategoryID         *uuid.UUID
	Title              string
	Description        string
	Platform           string
	AccountType        string
	Price              *float64
	StockQuantity      *int
	MinOrderQuantity   *int
	VerificationStatus string
	RegistrationDate   *time.Time
	FriendsCount       *int
	FollowersCount     *int
	HasEmail           *bool
	HasPhone           *bool
	Country            string
	Gender             string
	AgeRange           string
	Rating             *float64
	SuccessRate        *float64
	IsFeatured         *bool
}

// ListingPatch carries the fields accepted when updating a listing.
// Nil fields leave the stored value untouched.
type ListingPatch struct {
	CategoryID         *uuid.UUID
	Title              *string
	Description        *string
	Platform           *string
	AccountType        *string
	Price              *float64
	StockQuantity      *int
	MinOrderQuantity   *int
	VerificationStatus *string
	RegistrationDate   *time.Time
	FriendsCount       *int
	FollowersCount     *int
	HasEmail           *bool
	HasPhone           *bool
	Country            *string
	Gender             *string
	AgeRange           *string
	Rating             *float64
	SuccessRate        *float64
	Status             *string
	IsFeatured         *bool
}

// DashboardStats summarizes the catalog for the admin dashboard
type DashboardStats struct {
	TotalAccounts int `json:"total_accounts"`
	TotalUsers    int `json:"total_users"`
}

// CatalogService defines the interface for listing and category business logic
type CatalogService interface {
	Search(ctx context.Context, filter repository.AccountFilter, page, perPage int) (*SearchResult, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GroupByCategory(ctx context.Context) (map[string]map[string][]*domain.Account, error)
	CreateListing(ctx context.Context, input ListingInput) (*domain.Account, error)
	UpdateListing(ctx context.Context, id uuid.UUID, patch ListingPatch) (*domain.Account, error)
	DeleteListing(ctx context.Context, id uuid.UUID) error
	ListAllAccounts(ctx context.Context) ([]*domain.Account, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, name, slug, description string, parentID *uuid.UUID) (*domain.Category, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type catalogService struct {
	accountRepo  repository.AccountRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	accountRepo repository.AccountRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) CatalogService {
	return &catalogService{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// Search returns one page of active listings matching the filter. Pages are
// 1-indexed; out-of-range pages yield an empty slice with intact metadata.
func (s *catalogService) Search(ctx context.Context, filter repository.AccountFilter, page, perPage int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	accounts, total, err := s.accountRepo.Search(ctx, filter, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}

	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}

	return &SearchResult{
		Accounts: accounts,
		Total:    total,
		Pages:    pages,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// GetAccountByID retrieves a single listing by id, active or not
func (s *catalogService) GetAccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GroupByCategory maps active root category names to their active
// subcategories with up to 5 listings each. Subcategories without listings
// are omitted; root keys are always present.
func (s *catalogService) GroupByCategory(ctx context.Context) (map[string]map[string][]*domain.Account, error) {
	roots, err := s.categoryRepo.ListRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list root categories: %w", err)
	}

	result := make(map[string]map[string][]*domain.Account, len(roots))

	for _, root := range roots {
		result[root.Name] = map[string][]*domain.Account{}

		children, err := s.categoryRepo.ListChildren(ctx, root.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list subcategories: %w", err)
		}

		for _, child := range children {
			accounts, err := s.accountRepo.ListTopByCategory(ctx, child.ID, GroupedListingsLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to list accounts for category: %w", err)
			}

			// Subcategories with no listings are skipped on purpose so the
			// homepage never renders empty sections.
			if len(accounts) > 0 {
				result[root.Name][child.Name] = accounts
			}
		}
	}

	return result, nil
}

// CreateListing validates and persists a new account listing
func (s *catalogService) CreateListing(ctx context.Context, input ListingInput) (*domain.Account, error) {
	if input.SellerID == nil || input.CategoryID == nil || input.Title == "" ||
		input.Platform == "" || input.Price == nil {
		return nil, ErrMissingListingFields
	}
	if *input.Price < 0 {
		return nil, ErrNegativePrice
	}

	now := time.Now()
	account := &domain.Account{
		ID:                 uuid.New(),
		SellerID:           *input.SellerID,
		CategoryID:         *input.CategoryID,
		Title:              input.Title,
		Description:        input.Description,
		Platform:           input.Platform,
		AccountType:        input.AccountType,
		Price:              *input.Price,
		StockQuantity:      1,
		MinOrderQuantity:   1,
		VerificationStatus: input.VerificationStatus,
		RegistrationDate:   input.RegistrationDate,
		FriendsCount:       input.FriendsCount,
		FollowersCount:     input.FollowersCount,
		Country:            input.Country,
		Gender:             input.Gender,
		AgeRange:           input.AgeRange,
		Status:             domain.AccountStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if input.StockQuantity != nil {
		account.StockQuantity = *input.StockQuantity
	}
	if input.MinOrderQuantity != nil {
		account.MinOrderQuantity = *input.MinOrderQuantity
	}
	if input.HasEmail != nil {
		account.HasEmail = *input.HasEmail
	}
	if input.HasPhone != nil {
		account.HasPhone = *input.HasPhone
	}
	if input.Rating != nil {
		account.Rating = *input.Rating
	}
	if input.SuccessRate != nil {
		account.SuccessRate = *input.SuccessRate
	}
	if input.IsFeatured != nil {
		account.IsFeatured = *input.IsFeatured
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// UpdateListing applies a partial update to an existing listing
func (s *catalogService) UpdateListing(ctx context.Context, id uuid.UUID, patch ListingPatch) (*domain.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if patch.CategoryID != nil {
		account.CategoryID = *patch.CategoryID
	}
	if patch.Title != nil {
		account.Title = *patch.Title
	}
	if patch.Description != nil {
		account.Description = *patch.Description
	}
	if patch.Platform != nil {
		account.Platform = *patch.Platform
	}
	if patch.AccountType != nil {
		account.AccountType = *patch.AccountType
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, ErrNegativePrice
		}
		account.Price = *patch.Price
	}
	if patch.StockQuantity != nil {
		account.StockQuantity = *patch.StockQuantity
	}
	if patch.MinOrderQuantity != nil {
		account.MinOrderQuantity = *patch.MinOrderQuantity
	}
	if patch.VerificationStatus != nil {
		account.VerificationStatus = *patch.VerificationStatus
	}
	if patch.RegistrationDate != nil {
		account.RegistrationDate = patch.RegistrationDate
	}
	if patch.FriendsCount != nil {
		account.FriendsCount = patch.FriendsCount
	}
	if patch.FollowersCount != nil {
		account.FollowersCount = patch.FollowersCount
	}
	if patch.HasEmail != nil {
		account.HasEmail = *patch.HasEmail
	}
	if patch.HasPhone != nil {
		account.HasPhone = *patch.HasPhone
	}
	if patch.Country != nil {
		account.Country = *patch.Country
	}
	if patch.Gender != nil {
		account.Gender = *patch.Gender
	}
	if patch.AgeRange != nil {
		account.AgeRange = *patch.AgeRange
	}
	if patch.Rating != nil {
		account.Rating = *patch.Rating
	}
	if patch.SuccessRate != nil {
		account.SuccessRate = *patch.SuccessRate
	}
	if patch.Status != nil {
		account.Status = *patch.Status
	}
	if patch.IsFeatured != nil {
		account.IsFeatured = *patch.IsFeatured
	}

	account.UpdatedAt = time.Now()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		if err == repository.ErrAccountNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

// DeleteListing removes a listing
func (s *catalogService) DeleteListing(ctx context.Context, id uuid.UUID) error {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrAccountNotFound {
			return err
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ListAllAccounts retrieves every listing regardless of status (admin view)
func (s *catalogService) ListAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// ListCategories retrieves all active categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory validates and persists a category. Only root categories may
// be parents, which keeps the tree at most two levels deep and acyclic.
func (s *catalogService) CreateCategory(ctx context.Context, name, slug, description string, parentID *uuid.UUID) (*domain.Category, error) {
	if name == "" || slug == "" {
		return nil, ErrMissingCategoryFields
	}

	if parentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *parentID)
		if err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, ErrParentCategoryInvalid
			}
			return nil, fmt.Errorf("failed to load parent category: %w", err)
		}
		if !parent.IsRoot() {
			return nil, ErrParentCategoryInvalid
		}
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		Description: description,
		ParentID:    parentID,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// Stats returns catalog totals for the admin dashboard
func (s *catalogService) Stats(ctx context.Context) (*DashboardStats, error) {
	totalAccounts, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &DashboardStats{
		TotalAccounts: totalAccounts,
		TotalUsers:    totalUsers,
	}, nil
}
