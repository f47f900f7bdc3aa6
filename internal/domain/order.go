package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order records a purchase of a listing. Order fulfillment is not part of
// this service; the table exists so sales history survives listing edits.
type Order struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	BuyerID         uuid.UUID  `json:"buyer_id" db:"buyer_id"`
	SellerID        uuid.UUID  `json:"seller_id" db:"seller_id"`
	AccountID       uuid.UUID  `json:"account_id" db:"account_id"`
	Quantity        int        `json:"quantity" db:"quantity"`
	UnitPrice       float64    `json:"unit_price" db:"unit_price"`
	TotalAmount     float64    `json:"total_amount" db:"total_amount"`
	Status          string     `json:"status" db:"status"`
	PaymentMethod   string     `json:"payment_method" db:"payment_method"`
	TransactionID   string     `json:"transaction_id" db:"transaction_id"`
	DeliveryDetails string     `json:"delivery_details" db:"delivery_details"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time `json:"completed_at" db:"completed_at"`
}
