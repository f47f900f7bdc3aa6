package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatusActive is the only status value the public catalog serves.
const AccountStatusActive = "active"

// Account represents a social-media account listing offered for sale.
type Account struct {
	ID               uuid.UUID `json:"id" db:"id"`
	SellerID         uuid.UUID `json:"seller_id" db:"seller_id"`
	CategoryID       uuid.UUID `json:"category_id" db:"category_id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Platform         string    `json:"platform" db:"platform"`
	AccountType      string    `json:"account_type" db:"account_type"`
	Price            float64   `json:"price" db:"price"`
	StockQuantity    int       `json:"stock_quantity" db:"stock_quantity"`
	MinOrderQuantity int       `json:"min_order_quantity" db:"min_order_quantity"`

	// Account specifications
	VerificationStatus string     `json:"verification_status" db:"verification_status"`
	RegistrationDate   *time.Time `json:"registration_date" db:"registration_date"`
	FriendsCount       *int       `json:"friends_count" db:"friends_count"`
	FollowersCount     *int       `json:"followers_count" db:"followers_count"`
	HasEmail           bool       `json:"has_email" db:"has_email"`
	HasPhone           bool       `json:"has_phone" db:"has_phone"`
	Country            string     `json:"country" db:"country"`
	Gender             string     `json:"gender" db:"gender"`
	AgeRange           string     `json:"age_range" db:"age_range"`

	// Seller ratings and stats
	Rating      float64 `json:"rating" db:"rating"`
	SuccessRate float64 `json:"success_rate" db:"success_rate"`
	TotalSales  int     `json:"total_sales" db:"total_sales"`

	Status     string    `json:"status" db:"status"`
	IsFeatured bool      `json:"is_featured" db:"is_featured"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
