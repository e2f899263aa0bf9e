package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/bond"
)

// RegisterSIPRoutes wires the systematic investment plan endpoints.
func RegisterSIPRoutes(r fiber.Router, h *bond.Handler) {
	r.Post("/wallet/:address/sips", h.CreateSIP)
	r.Get("/wallet/:address/sips", h.ListSIPs)
	r.Post("/wallet/:address/sips/:sipId/pause", h.PauseSIP)
	r.Post("/wallet/:address/sips/:sipId/resume", h.ResumeSIP)
	r.Patch("/wallet/:address/sips/:sipId", h.ModifySIP)
}
