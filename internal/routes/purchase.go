package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/purchase"
)

// RegisterPurchaseRoutes wires the purchase pipeline endpoint.
func RegisterPurchaseRoutes(r fiber.Router, h *purchase.Handler) {
	r.Post("/wallet/:address/purchases", h.Execute)
}
