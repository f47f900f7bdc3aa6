package transport

import (
	"net/http"
	"strconv"
	"time"

	"accsmarket-backend/internal/middleware"
	"accsmarket-backend/internal/repository"
	"accsmarket-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateListingRequest represents the create-listing payload. Pointer fields
// distinguish omitted values from zero values so defaults apply correctly.
type CreateListingRequest struct {
	SellerID           *uuid.UUID `json:"seller_id"`
	CategoryID         *uuid.UUID `json:"category_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Platform           string     `json:"platform"`
	AccountType        string     `json:"account_type"`
	Price              *float64   `json:"price"`
	StockQuantity      *int       `json:"stock_quantity"`
	MinOrderQuantity   *int       `json:"min_order_quantity"`
	VerificationStatus string     `json:"verification_status"`
	RegistrationDate   *time.Time `json:"registration_date"`
	FriendsCount       *int       `json:"friends_count"`
	FollowersCount     *int       `json:"followers_count"`
	HasEmail           *bool      `json:"has_email"`
	HasPhone           *bool      `json:"has_phone"`
	Country            string     `json:"country"`
	Gender             string     `json:"gender"`
	AgeRange           string     `json:"age_range"`
	Rating             *float64   `json:"rating"`
	SuccessRate        *float64   `json:"success_rate"`
	IsFeatured         *bool      `json:"is_featured"`
}

// CreateCategoryRequest represents the create-category payload
type CreateCategoryRequest struct {
	Name        string     `json:"name" validate:"required"`
	Slug        string     `json:"slug" validate:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// AccountListResponse represents one page of search results
type AccountListResponse struct {
	Accounts    []AccountView `json:"accounts"`
	Total       int           `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"current_page"`
	PerPage     int           `json:"per_page"`
}

// AccountHandler handles HTTP requests for the public catalog
type AccountHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(catalogService service.CatalogService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all public catalog routes
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Get("/accounts/by-category", h.AccountsByCategory)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Post("/accounts", h.CreateAccount)
		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
	})
}

// ListAccounts handles filtered, paginated listing search
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
		page = parsed
	}

	perPage := service.DefaultPageSize
	if raw := q.Get("per_page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid per_page parameter")
			return
		}
		perPage = parsed
	}

	filter := repository.AccountFilter{
		Platform: q.Get("platform"),
		Search:   q.Get("search"),
	}

	if raw := q.Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category_id parameter")
			return
		}
		filter.CategoryID = &categoryID
	}

	if raw := q.Get("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid min_price parameter")
			return
		}
		filter.MinPrice = &minPrice
	}

	if raw := q.Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid max_price parameter")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	result, err := h.catalogService.Search(r.Context(), filter, page, perPage)
	if err != nil {
		h.logger.Error("Account search failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, AccountListResponse{
		Accounts:    toAccountViews(result.Accounts),
		Total:       result.Total,
		Pages:       result.Pages,
		CurrentPage: result.Page,
		PerPage:     result.PerPage,
	})
}

// GetAccount returns a single listing by id, whatever its status
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	account, err := h.catalogService.GetAccountByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("Failed to get account", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get account")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toAccountView(account))
}

// CreateAccount handles the public create-listing route
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create listing decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.catalogService.CreateListing(r.Context(), listingInputFromRequest(req))
	if err != nil {
		switch err {
		case service.ErrMissingListingFields, service.ErrNegativePrice:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create listing", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	h.logger.Info("Listing created", zap.String("account_id", account.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toAccountView(account))
}

// AccountsByCategory returns active listings grouped by root category and
// subcategory for the homepage
func (h *AccountHandler) AccountsByCategory(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.catalogService.GroupByCategory(r.Context())
	if err != nil {
		h.logger.Error("Failed to group accounts by category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to group accounts")
		return
	}

	response := make(map[string]map[string][]AccountView, len(grouped))
	for rootName, children := range grouped {
		response[rootName] = make(map[string][]AccountView, len(children))
		for childName, accounts := range children {
			response[rootName][childName] = toAccountViews(accounts)
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// ListCategories returns all active categories
func (h *AccountHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCategoryViews(categories))
}

// CreateCategory creates a new category
func (h *AccountHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create category validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name, req.Slug, req.Description, req.ParentID)
	if err != nil {
		switch err {
		case service.ErrMissingCategoryFields, service.ErrParentCategoryInvalid:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrCategoryAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "category with this slug already exists")
		default:
			h.logger.Error("Failed to create category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toCategoryView(category))
}

func listingInputFromRequest(req CreateListingRequest) service.ListingInput {
	return service.ListingInput{
		SellerID:           req.SellerID,
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Description:        req.Description,
		Platform:           req.Platform,
		AccountType:        req.AccountType,
		Price:              req.Price,
		StockQuantity:      req.StockQuantity,
		MinOrderQuantity:   req.MinOrderQuantity,
		VerificationStatus: req.VerificationStatus,
		RegistrationDate:   req.RegistrationDate,
		FriendsCount:       req.FriendsCount,
		FollowersCount:     req.FollowersCount,
		HasEmail:           req.HasEmail,
		HasPhone:           req.HasPhone,
		Country:            req.Country,
		Gender:             req.Gender,
		AgeRange:           req.AgeRange,
		Rating:             req.Rating,
		SuccessRate:        req.SuccessRate,
		IsFeatured:         req.IsFeatured,
	}
}
