package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// seedAccount is one sample listing. Pointer fields stay NULL when absent,
// matching how real sellers leave optional attributes unset.
type seedAccount struct {
	seller             string
	subcategory        string
	title              string
	description        string
	platform           string
	accountType        string
	price              float64
	stockQuantity      int
	minOrderQuantity   int
	verificationStatus string
	friendsCount       *int
	followersCount     *int
	hasEmail           bool
	country            string
	rating             float64
	successRate        float64
}

// Seed replaces the current contents of the database with a fixed sample
// data set: three users, five platform category trees and five listings.
// The whole reseed runs in one transaction, so a failure leaves the
// previous data intact.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first, then parents
	for _, table := range []string{"orders", "accounts", "categories", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	users, err := seedUsers(ctx, tx)
	if err != nil {
		return err
	}

	subcategories, err := seedCategories(ctx, tx)
	if err != nil {
		return err
	}

	if err := seedAccounts(ctx, tx, users, subcategories); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	logger.Info("Database seeded with sample data")
	return nil
}

func seedUsers(ctx context.Context, tx *sql.Tx) (map[string]uuid.UUID, error) {
	// One shared hash keeps reseeding fast; these are sample credentials only
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash sample password: %w", err)
	}

	users := map[string]uuid.UUID{}
	now := time.Now()

	for _, username := range []string{"seller1", "seller2", "buyer1"} {
		id := uuid.New()
		users[username] = id

		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, username, password_hash, is_admin, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, id, username+"@example.com", username, string(passwordHash), false, now)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", username, err)
		}
	}

	return users, nil
}

func seedCategories(ctx context.Context, tx *sql.Tx) (map[string]uuid.UUID, error) {
	roots := map[string]string{
		"Facebook Accounts":  "facebook-accounts",
		"Instagram Accounts": "instagram-accounts",
		"Twitter Accounts":   "twitter-accounts",
		"Gmail Accounts":     "gmail-accounts",
		"VKontakte Accounts": "vkontakte-accounts",
	}

	children := []struct {
		name   string
		slug   string
		parent string
	}{
		{"Facebook Softregs", "facebook-softregs", "Facebook Accounts"},
		{"Facebook With friends", "facebook-with-friends", "Facebook Accounts"},
		{"Facebook Aged", "facebook-aged", "Facebook Accounts"},
		{"Facebook For advertising", "facebook-for-advertising", "Facebook Accounts"},
		{"Instagram Softreg", "instagram-softreg", "Instagram Accounts"},
		{"Instagram Aged", "instagram-aged", "Instagram Accounts"},
		{"Instagram With Followers", "instagram-with-followers", "Instagram Accounts"},
		{"Twitter Aged", "twitter-aged", "Twitter Accounts"},
		{"Twitter Softreg", "twitter-softreg", "Twitter Accounts"},
		{"Gmail Softreg", "gmail-softreg", "Gmail Accounts"},
		{"Gmail Aged", "gmail-aged", "Gmail Accounts"},
		{"VKontakte Softreg", "vkontakte-softreg", "VKontakte Accounts"},
	}

	const insert = `
		INSERT INTO categories (id, name, slug, description, parent_id, is_active, created_at)
		VALUES ($1, $2, $3, '', $4, TRUE, $5)
	`

	now := time.Now()
	rootIDs := map[string]uuid.UUID{}

	for name, slug := range roots {
		id := uuid.New()
		rootIDs[name] = id
		if _, err := tx.ExecContext(ctx, insert, id, name, slug, nil, now); err != nil {
			return nil, fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}

	childIDs := map[string]uuid.UUID{}
	for _, child := range children {
		id := uuid.New()
		childIDs[child.name] = id
		parentID := rootIDs[child.parent]
		if _, err := tx.ExecContext(ctx, insert, id, child.name, child.slug, parentID, now); err != nil {
			return nil, fmt.Errorf("failed to seed category %s: %w", child.name, err)
		}
	}

	return childIDs, nil
}

func seedAccounts(ctx context.Context, tx *sql.Tx, users, subcategories map[string]uuid.UUID) error {
	intPtr := func(v int) *int { return &v }

	samples := []seedAccount{
		{
			seller:             "seller1",
			subcategory:        "Facebook Softregs",
			title:              "FB Accounts | Verified by email (email not included). Male or female.",
			description:        "The account profiles may be empty or have limited entries such as photos and other information. 2FA included. Registered from USA IP.",
			platform:           "Facebook",
			accountType:        "Softreg",
			price:              0.296,
			stockQuantity:      1691,
			minOrderQuantity:   100,
			verificationStatus: "verified_by_email",
			country:            "USA",
			rating:             4.3,
			successRate:        2.7,
		},
		{
			seller:             "seller1",
			subcategory:        "Facebook Softregs",
			title:              "FB Accounts | Verified by e-mail, there is no email in the set.",
			description:        "Male or female. The account profiles may be empty or have limited entries such as photos and other information. 2FA included. Cookies are included.",
			platform:           "Facebook",
			accountType:        "Softreg",
			price:              0.296,
			stockQuantity:      1730,
			minOrderQuantity:   100,
			verificationStatus: "verified_by_email",
			rating:             4.6,
			successRate:        4.7,
		},
		{
			seller:             "seller2",
			subcategory:        "Facebook With friends",
			title:              "FB Accounts | The number of subscribers is 50+.",
			description:        "Verified by e-mail, there is no email in the set. Male and female. The account profiles may be empty or have limited entries.",
			platform:           "Facebook",
			accountType:        "With friends",
			price:              0.999,
			stockQuantity:      41,
			minOrderQuantity:   10,
			verificationStatus: "verified_by_email",
			friendsCount:       intPtr(50),
			rating:             4.6,
			successRate:        0.7,
		},
		{
			seller:             "seller1",
			subcategory:        "Instagram Softreg",
			title:              "IG Accounts | Email not included. Profile is not filled at all.",
			description:        "2FA in the set. Registered from the USA IP.",
			platform:           "Instagram",
			accountType:        "Softreg",
			price:              0.185,
			stockQuantity:      327,
			minOrderQuantity:   100,
			verificationStatus: "verified_by_sms",
			country:            "USA",
			rating:             4.6,
			successRate:        4.9,
		},
		{
			seller:             "seller2",
			subcategory:        "Instagram With Followers",
			title:              "IG Accounts | The account has about 50 followers.",
			description:        "Email address is included in the package(onet.pl, original). A profile picture is added to the account.",
			platform:           "Instagram",
			accountType:        "With Followers",
			price:              1.11,
			stockQuantity:      62,
			minOrderQuantity:   100,
			verificationStatus: "verified_by_email",
			followersCount:     intPtr(50),
			hasEmail:           true,
			rating:             4.7,
			successRate:        2.5,
		},
	}

	const insert = `
		INSERT INTO accounts (id, seller_id, category_id, title, description, platform, account_type,
			price, stock_quantity, min_order_quantity, verification_status, registration_date,
			friends_count, followers_count, has_email, has_phone, country, gender, age_range,
			rating, success_rate, total_sales, status, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULL, $12, $13, $14, FALSE, $15,
			'', '', $16, $17, 0, 'active', FALSE, $18, $18)
	`

	now := time.Now()

	for _, sample := range samples {
		_, err := tx.ExecContext(ctx, insert,
			uuid.New(),
			users[sample.seller],
			subcategories[sample.subcategory],
			sample.title,
			sample.description,
			sample.platform,
			sample.accountType,
			sample.price,
			sample.stockQuantity,
			sample.minOrderQuantity,
			sample.verificationStatus,
			sample.friendsCount,
			sample.followersCount,
			sample.hasEmail,
			sample.country,
			sample.rating,
			sample.successRate,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed account %q: %w", sample.title, err)
		}
	}

	return nil
}
