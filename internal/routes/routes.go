package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/weilchain/bondmarket/internal/bond"
	"github.com/weilchain/bondmarket/internal/chain"
	"github.com/weilchain/bondmarket/internal/config"
	"github.com/weilchain/bondmarket/internal/faucet"
	"github.com/weilchain/bondmarket/internal/middleware"
	"github.com/weilchain/bondmarket/internal/notification"
	"github.com/weilchain/bondmarket/internal/portfolio"
	"github.com/weilchain/bondmarket/internal/purchase"
	"github.com/weilchain/bondmarket/internal/verify"
	"github.com/weilchain/bondmarket/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil in development, in which case in-memory fallbacks are used.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Domain services
	catalog := bond.NewMarketCatalog()
	sips := bond.NewSIPService(catalog)

	var limiter faucet.Limiter
	if d.Cache != nil {
		limiter = faucet.NewRedisLimiter(d.Cache, d.Cfg.FaucetCooldown)
	} else {
		limiter = faucet.NewMemoryLimiter(d.Cfg.FaucetCooldown)
	}

	sessions := wallet.NewManager(limiter, chain.NewExecutor())

	var verifier verify.Client
	if d.Cfg.VerifierURL != "" {
		verifier = verify.NewHTTPClient(d.Cfg.VerifierURL, d.Cfg.VerifierTimeout)
	} else {
		verifier = verify.NewRuleVerifier(catalog.PriceFor)
	}

	var repo portfolio.Repository
	if d.DB != nil {
		repo = portfolio.NewPostgresRepository(d.DB)
	} else {
		repo = portfolio.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	orchestrator := purchase.NewOrchestrator(verifier, repo, catalog, notifier, d.Logger)

	walletHandler := wallet.NewHandler(sessions)
	bondHandler := bond.NewHandler(catalog, sips)
	purchaseHandler := purchase.NewHandler(orchestrator, sessions)
	portfolioHandler := portfolio.NewHandler(repo)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterWalletRoutes(api, walletHandler)
	RegisterMarketRoutes(api, bondHandler)
	RegisterPortfolioRoutes(api, portfolioHandler)
	RegisterSIPRoutes(api, bondHandler)

	// Purchases move funds; a retried request must replay the stored
	// response instead of double-spending.
	purchases := api.Group("")
	if d.Cache != nil {
		purchases = api.Group("", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterPurchaseRoutes(purchases, purchaseHandler)

	return nil
}
