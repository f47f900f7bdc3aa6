package transport

import (
	"time"

	"accsmarket-backend/internal/domain"
)

// The view structs below are the public JSON projections of the storage
// entities. Internal columns (notably password_hash) are absent from the
// views, so they cannot leak through serialization.

// UserProfile represents public user data
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryView represents public category data
type CategoryView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ParentID    *string   `json:"parent_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountView represents public listing data
type AccountView struct {
	ID                 string     `json:"id"`
	SellerID           string     `json:"seller_id"`
	CategoryID         string     `json:"category_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Platform           string     `json:"platform"`
	AccountType        string     `json:"account_type"`
	Price              float64    `json:"price"`
	StockQuantity      int        `json:"stock_quantity"`
	MinOrderQuantity   int        `json:"min_order_quantity"`
	VerificationStatus string     `json:"verification_status"`
	RegistrationDate   *time.Time `json:"registration_date"`
	FriendsCount       *int       `json:"friends_count"`
	FollowersCount     *int       `json:"followers_count"`
	HasEmail           bool       `json:"has_email"`
	HasPhone           bool       `json:"has_phone"`
	Country            string     `json:"country"`
	Gender             string     `json:"gender"`
	AgeRange           string     `json:"age_range"`
	Rating             float64    `json:"rating"`
	SuccessRate        float64    `json:"success_rate"`
	TotalSales         int        `json:"total_sales"`
	Status             string     `json:"status"`
	IsFeatured         bool       `json:"is_featured"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toUserProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func toUserProfiles(users []*domain.User) []UserProfile {
	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, toUserProfile(user))
	}
	return profiles
}

func toCategoryView(category *domain.Category) CategoryView {
	view := CategoryView{
		ID:          category.ID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
	}
	if category.ParentID != nil {
		parentID := category.ParentID.String()
		view.ParentID = &parentID
	}
	return view
}

func toCategoryViews(categories []*domain.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, toCategoryView(category))
	}
	return views
}

func toAccountView(account *domain.Account) AccountView {
	return AccountView{
		ID:                 account.ID.String(),
		SellerID:           account.SellerID.String(),
		CategoryID:         account.CategoryID.String(),
		Title:              account.Title,
		Description:        account.Description,
		Platform:           account.Platform,
		AccountType:        account.AccountType,
		Price:              account.Price,
		StockQuantity:      account.StockQuantity,
		MinOrderQuantity:   account.MinOrderQuantity,
		VerificationStatus: account.VerificationStatus,
		RegistrationDate:   account.RegistrationDate,
		FriendsCount:       account.FriendsCount,
		FollowersCount:     account.FollowersCount,
		HasEmail:           account.HasEmail,
		HasPhone:           account.HasPhone,
		Country:            account.Country,
		Gender:             account.Gender,
		AgeRange:           account.AgeRange,
		Rating:             account.Rating,
		SuccessRate:        account.SuccessRate,
		TotalSales:         account.TotalSales,
		Status:             account.Status,
		IsFeatured:         account.IsFeatured,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}

func toAccountViews(accounts []*domain.Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountView(account))
	}
	return views
}
