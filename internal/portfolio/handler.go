package portfolio

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes holdings and receipt lookups.
type Handler struct {
	repo Repository
}

// NewHandler builds a portfolio HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Holdings lists the wallet's holdings, most recent purchase first.
func (h *Handler) Holdings(c *fiber.Ctx) error {
	holdings, err := h.repo.ListHoldings(c.UserContext(), c.Params("address"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if holdings == nil {
		holdings = []Holding{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"holdings": holdings})
}

// Receipt returns one execution receipt by id.
func (h *Handler) Receipt(c *fiber.Ctx) error {
	rec, err := h.repo.GetReceipt(c.UserContext(), c.Params("receiptId"))
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			return fiber.NewError(http.StatusNotFound, "receipt not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(rec)
}
