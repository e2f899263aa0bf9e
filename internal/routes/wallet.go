package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/wallet"
)

// RegisterWalletRoutes wires wallet session and faucet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallet/connect", h.Connect)
	r.Post("/wallet/:address/disconnect", h.Disconnect)
	r.Get("/wallet/:address", h.Status)
	r.Post("/wallet/:address/faucet", h.Faucet)
}
