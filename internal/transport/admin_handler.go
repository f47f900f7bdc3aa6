package transport

import (
	"net/http"
	"time"

	"accsmarket-backend/internal/middleware"
	"accsmarket-backend/internal/repository"
	"accsmarket-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateListingRequest represents the admin update payload. Every field is a
// pointer so omitted fields leave the stored value untouched.
type UpdateListingRequest struct {
	CategoryID         *uuid.UUID `json:"category_id"`
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Platform           *string    `json:"platform"`
	AccountType        *string    `json:"account_type"`
	Price              *float64   `json:"price"`
	StockQuantity      *int       `json:"stock_quantity"`
	MinOrderQuantity   *int       `json:"min_order_quantity"`
	VerificationStatus *string    `json:"verification_status"`
	RegistrationDate   *time.Time `json:"registration_date"`
	FriendsCount       *int       `json:"friends_count"`
	FollowersCount     *int       `json:"followers_count"`
	HasEmail           *bool      `json:"has_email"`
	HasPhone           *bool      `json:"has_phone"`
	Country            *string    `json:"country"`
	Gender             *string    `json:"gender"`
	AgeRange           *string    `json:"age_range"`
	Rating             *float64   `json:"rating"`
	SuccessRate        *float64   `json:"success_rate"`
	Status             *string    `json:"status"`
	IsFeatured         *bool      `json:"is_featured"`
}

// AdminHandler handles the admin management surface
type AdminHandler struct {
	catalogService service.CatalogService
	authService    service.AuthService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(catalogService service.CatalogService, authService service.AuthService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		authService:    authService,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin routes. Every route requires a valid
// token and the admin flag; the two middlewares answer 401 and 403 apart.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/users", h.ListUsers)
		r.Get("/accounts", h.ListAccounts)
		r.Post("/accounts", h.CreateAccount)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Put("/accounts/{id}", h.UpdateAccount)
		r.Delete("/accounts/{id}", h.DeleteAccount)
	})
}

// Dashboard returns catalog totals
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalogService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// ListUsers returns every registered user
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string][]UserProfile{"users": toUserProfiles(users)})
}

// ListAccounts returns every listing regardless of status
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.catalogService.ListAllAccounts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string][]AccountView{"accounts": toAccountViews(accounts)})
}

// GetAccount returns a single listing by id
func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
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

// CreateAccount creates a listing. Unless the payload names a seller, the
// listing is attributed to the calling admin.
func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Admin create listing decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SellerID == nil {
		if callerID, ok := middleware.GetUserID(r.Context()); ok {
			req.SellerID = &callerID
		}
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

	h.logger.Info("Listing created by admin", zap.String("account_id", account.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, toAccountView(account))
}

// UpdateAccount applies a partial update to a listing
func (h *AdminHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req UpdateListingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Admin update listing decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.catalogService.UpdateListing(r.Context(), id, listingPatchFromRequest(req))
	if err != nil {
		switch err {
		case repository.ErrAccountNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "account not found")
		case service.ErrNegativePrice:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update listing", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update account")
		}
		return
	}

	h.logger.Info("Listing updated", zap.String("account_id", account.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toAccountView(account))
}

// DeleteAccount removes a listing
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	if err := h.catalogService.DeleteListing(r.Context(), id); err != nil {
		if err == repository.ErrAccountNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("Failed to delete listing", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	h.logger.Info("Listing deleted", zap.String("account_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}

func listingPatchFromRequest(req UpdateListingRequest) service.ListingPatch {
	return service.ListingPatch{
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
		Status:             req.Status,
		IsFeatured:         req.IsFeatured,
	}
}
