package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/portfolio"
)

// RegisterPortfolioRoutes wires holdings and receipt lookups.
func RegisterPortfolioRoutes(r fiber.Router, h *portfolio.Handler) {
	r.Get("/wallet/:address/holdings", h.Holdings)
	r.Get("/receipts/:receiptId", h.Receipt)
}
