package bond

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes bond catalog and SIP endpoints.
type Handler struct {
	catalog *Catalog
	sips    *SIPService
}

// NewHandler builds a bond HTTP handler.
func NewHandler(catalog *Catalog, sips *SIPService) *Handler {
	return &Handler{catalog: catalog, sips: sips}
}

// List returns the full catalog.
func (h *Handler) List(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"bonds": h.catalog.List()})
}

// Get returns one bond.
func (h *Handler) Get(c *fiber.Ctx) error {
	b, err := h.catalog.Get(c.Params("bondId"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "bond not found")
	}
	return c.Status(http.StatusOK).JSON(b)
}

type createSIPRequest struct {
	BondID         string  `json:"bond_id"`
	MonthlyAmount  float64 `json:"monthly_amount"`
	DurationMonths int     `json:"duration_months"`
}

type modifySIPRequest struct {
	MonthlyAmount float64 `json:"monthly_amount"`
}

// CreateSIP opens a systematic investment plan for the wallet.
func (h *Handler) CreateSIP(c *fiber.Ctx) error {
	var req createSIPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	plan, err := h.sips.Create(CreateInput{
		WalletAddress:  c.Params("address"),
		BondID:         req.BondID,
		MonthlyAmount:  req.MonthlyAmount,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "bond not found")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(plan)
}

// ListSIPs returns the wallet's plans.
func (h *Handler) ListSIPs(c *fiber.Ctx) error {
	plans := h.sips.List(c.Params("address"))
	if plans == nil {
		plans = []Plan{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"plans": plans})
}

// PauseSIP suspends an active plan.
func (h *Handler) PauseSIP(c *fiber.Ctx) error {
	return h.respondTransition(c, h.sips.Pause)
}

// ResumeSIP reactivates a paused plan.
func (h *Handler) ResumeSIP(c *fiber.Ctx) error {
	return h.respondTransition(c, h.sips.Resume)
}

// ModifySIP changes the monthly contribution.
func (h *Handler) ModifySIP(c *fiber.Ctx) error {
	var req modifySIPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	plan, err := h.sips.ModifyAmount(c.Params("sipId"), req.MonthlyAmount)
	if err != nil {
		return sipError(err)
	}
	return c.Status(http.StatusOK).JSON(plan)
}

func (h *Handler) respondTransition(c *fiber.Ctx, fn func(string) (Plan, error)) error {
	plan, err := fn(c.Params("sipId"))
	if err != nil {
		return sipError(err)
	}
	return c.Status(http.StatusOK).JSON(plan)
}

func sipError(err error) error {
	switch {
	case errors.Is(err, ErrPlanNotFound):
		return fiber.NewError(http.StatusNotFound, "sip plan not found")
	case errors.Is(err, ErrPlanNotActive):
		return fiber.NewError(http.StatusConflict, "sip plan is not in a state allowing this change")
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}
