package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"accsmarket-backend/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

const accountColumns = `id, seller_id, category_id, title, description, platform, account_type,
		price, stock_quantity, min_order_quantity, verification_status, registration_date,
		friends_count, followers_count, has_email, has_phone, country, gender, age_range,
		rating, success_rate, total_sales, status, is_featured, created_at, updated_at`

// Public browsing orders featured listings first, newest within each tier;
// the trailing id key makes pagination stable for same-second inserts.
const accountBrowseOrder = "ORDER BY is_featured DESC, created_at DESC, id DESC"

// AccountFilter holds the optional search predicates. Nil/empty fields
// impose no constraint; supplied fields are combined with AND.
type AccountFilter struct {
	Platform   string     // case-insensitive substring match
	CategoryID *uuid.UUID // exact match
	Search     string     // case-insensitive substring match on title or description
	MinPrice   *float64   // inclusive lower bound
	MaxPrice   *float64   // inclusive upper bound
}

// AccountRepository defines the interface for account listing data access
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Search(ctx context.Context, filter AccountFilter, page, pageSize int) ([]*domain.Account, int, error)
	ListAll(ctx context.Context) ([]*domain.Account, error)
	ListTopByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Account, error)
	Count(ctx context.Context) (int, error)
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account listing into the database using parameterized queries
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, seller_id, category_id, title, description, platform, account_type,
			price, stock_quantity, min_order_quantity, verification_status, registration_date,
			friends_count, followers_count, has_email, has_phone, country, gender, age_range,
			rating, success_rate, total_sales, status, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.SellerID,
		account.CategoryID,
		account.Title,
		account.Description,
		account.Platform,
		account.AccountType,
		account.Price,
		account.StockQuantity,
		account.MinOrderQuantity,
		account.VerificationStatus,
		account.RegistrationDate,
		account.FriendsCount,
		account.FollowersCount,
		account.HasEmail,
		account.HasPhone,
		account.Country,
		account.Gender,
		account.AgeRange,
		account.Rating,
		account.SuccessRate,
		account.TotalSales,
		account.Status,
		account.IsFeatured,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// Update updates an existing account listing using parameterized queries
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET category_id = $2, title = $3, description = $4, platform = $5, account_type = $6,
		    price = $7, stock_quantity = $8, min_order_quantity = $9, verification_status = $10,
		    registration_date = $11, friends_count = $12, followers_count = $13, has_email = $14,
		    has_phone = $15, country = $16, gender = $17, age_range = $18, rating = $19,
		    success_rate = $20, total_sales = $21, status = $22, is_featured = $23, updated_at = $24
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.CategoryID,
		account.Title,
		account.Description,
		account.Platform,
		account.AccountType,
		account.Price,
		account.StockQuantity,
		account.MinOrderQuantity,
		account.VerificationStatus,
		account.RegistrationDate,
		account.FriendsCount,
		account.FollowersCount,
		account.HasEmail,
		account.HasPhone,
		account.Country,
		account.Gender,
		account.AgeRange,
		account.Rating,
		account.SuccessRate,
		account.TotalSales,
		account.Status,
		account.IsFeatured,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// Delete removes an account listing from the database using parameterized queries
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// FindByID retrieves an account by ID regardless of its status. Direct-link
// access works for inactive listings too.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)

	account := &domain.Account{}
	err := scanAccount(r.db.QueryRowContext(ctx, query, id), account)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}

	return account, nil
}

// Search retrieves active listings matching the filter with pagination.
// The WHERE clause is built once and shared by the COUNT and the page
// query so the reported total always reflects the same predicate set.
func (r *accountRepository) Search(ctx context.Context, filter AccountFilter, page, pageSize int) ([]*domain.Account, int, error) {
	conditions := []string{"status = $1"}
	args := []interface{}{domain.AccountStatusActive}
	argIndex := 2

	if filter.Platform != "" {
		conditions = append(conditions, fmt.Sprintf("platform ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Platform+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	// Count total matching listings
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM accounts %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		%s
		%s
		LIMIT $%d OFFSET $%d
	`, accountColumns, whereClause, accountBrowseOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// ListAll retrieves every account listing regardless of status
func (r *accountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts %s`, accountColumns, accountBrowseOrder)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListTopByCategory retrieves up to limit active listings for a category,
// ordered the same way as Search
func (r *accountRepository) ListTopByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE category_id = $1 AND status = $2
		%s
		LIMIT $3
	`, accountColumns, accountBrowseOrder)

	rows, err := r.db.QueryContext(ctx, query, categoryID, domain.AccountStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by category: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Count returns the total number of account listings
func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.SellerID,
		&account.CategoryID,
		&account.Title,
		&account.Description,
		&account.Platform,
		&account.AccountType,
		&account.Price,
		&account.StockQuantity,
		&account.MinOrderQuantity,
		&account.VerificationStatus,
		&account.RegistrationDate,
		&account.FriendsCount,
		&account.FollowersCount,
		&account.HasEmail,
		&account.HasPhone,
		&account.Country,
		&account.Gender,
		&account.AgeRange,
		&account.Rating,
		&account.SuccessRate,
		&account.TotalSales,
		&account.Status,
		&account.IsFeatured,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}

func scanAccounts(rows *sql.Rows) ([]*domain.Account, error) {
	accounts := []*domain.Account{}
	for rows.Next() {
		account := &domain.Account{}
		if err := scanAccount(rows, account); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}
