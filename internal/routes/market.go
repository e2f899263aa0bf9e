package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/bond"
)

// RegisterMarketRoutes wires the bond catalog endpoints.
func RegisterMarketRoutes(r fiber.Router, h *bond.Handler) {
	r.Get("/bonds", h.List)
	r.Get("/bonds/:bondId", h.Get)
}
