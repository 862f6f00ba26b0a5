// Command seed fills a development database with a small catalogue, a
// discount code and a customer with a funded wallet, then prints a bearer
// token for that customer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"storefront/internal/audit"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/discount"
	"storefront/internal/model"
	"storefront/internal/objectstore"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/wallet"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	title    string
	category string
	price    int64
	percent  int64
	stock    int
	features []string
}

var sampleProducts = []sampleProduct{
	{"Steel Kettle", "Kitchen", 1000, 20, 10, []string{"1.7 litre", "auto shut-off"}},
	{"Two Slice Toaster", "Kitchen", 1500, 0, 5, []string{"7 browning levels"}},
	{"Desk Lamp", "Lighting", 800, 10, 1, []string{"LED", "dimmable"}},
	{"Floor Lamp", "Lighting", 2400, 0, 3, nil},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	productRepo := repository.NewProductRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	recorder := audit.NewRecorder(repository.NewAuditRepository(pool, logger), logger)

	categories := service.NewCategoryService(categoryRepo, productRepo, logger)
	products := service.NewProductService(productRepo, categoryRepo, recorder, objectstore.New(ctx, cfg.Storage, logger), logger)
	discounts := service.NewDiscountService(discountRepo, discount.NewResolver(discountRepo, logger), logger)
	wallets := service.NewWalletService(userRepo, wallet.NewLedger(userRepo, recorder, logger), logger)

	categoryIDs := map[string]int64{}
	for _, p := range sampleProducts {
		if _, ok := categoryIDs[p.category]; ok {
			continue
		}
		c, err := categories.Create(ctx, &model.CategoryInput{Title: p.category})
		if err != nil && !errors.Is(err, model.ErrDuplicate) {
			return fmt.Errorf("failed to create category %s: %w", p.category, err)
		}
		if c != nil {
			categoryIDs[p.category] = c.ID
		}
	}

	for _, p := range sampleProducts {
		input := &model.ProductInput{
			Title:               p.title,
			Description:         p.title + " for the demo catalogue",
			Features:            p.features,
			Image1:              "samples/" + p.title + ".jpg",
			ShowInHomePage:      p.percent > 0,
			Stock:               p.stock,
			BeforeDiscountPrice: decimal.NewFromInt(p.price),
			DiscountPercentage:  decimal.NewFromInt(p.percent),
		}
		if id, ok := categoryIDs[p.category]; ok {
			input.CategoryID = &id
		}

		product, err := products.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to create product %s: %w", p.title, err)
		}
		fmt.Printf("Created product %-20s price %s stock %d\n", product.Title, product.Price.StringFixed(2), product.Stock)
	}

	maxAmount := decimal.NewFromInt(2000)
	if _, err := discounts.Create(ctx, &model.DiscountInput{
		Code:       "WELCOME10",
		Percentage: decimal.NewFromInt(10),
		MaxAmount:  &maxAmount,
	}); err != nil && !errors.Is(err, model.ErrDuplicate) {
		return fmt.Errorf("failed to create discount: %w", err)
	}

	userID, err := seedCustomer(ctx, pool)
	if err != nil {
		return err
	}

	w, err := wallets.Adjust(ctx, userID, decimal.NewFromInt(5000))
	if err != nil {
		return fmt.Errorf("failed to fund wallet: %w", err)
	}

	token, err := devToken(cfg.Auth.JWTSecret, userID)
	if err != nil {
		return err
	}

	logger.Info().Int64("user_id", userID).Str("balance", w.Balance.String()).Msg("demo data seeded")
	fmt.Printf("\nCustomer %d wallet balance: %s\n", userID, w.Balance.StringFixed(2))
	fmt.Println("Discount code: WELCOME10 (10%, capped at 2000)")
	fmt.Printf("\nAuthorization: Bearer %s\n", token)

	return nil
}

// seedCustomer creates the demo customer and an address. Users are managed
// outside this service, so they are written directly.
func seedCustomer(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var userID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO users (name, phone_number)
		VALUES ('Demo Customer', '09120000000')
		ON CONFLICT (phone_number) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO addresses (user_id, description, province, city) VALUES ($1, $2, $3, $4)",
		userID, "12 Demo Street", "Tehran", "Tehran",
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create address: %w", err)
	}

	return userID, nil
}

func devToken(secret string, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
