package purchase

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/bond"
	"github.com/weilchain/bondmarket/internal/ledger"
	"github.com/weilchain/bondmarket/internal/token"
	"github.com/weilchain/bondmarket/internal/verify"
	"github.com/weilchain/bondmarket/internal/wallet"
)

// Handler exposes the purchase endpoint.
type Handler struct {
	orchestrator *Orchestrator
	sessions     *wallet.Manager
}

// NewHandler builds a purchase HTTP handler.
func NewHandler(orchestrator *Orchestrator, sessions *wallet.Manager) *Handler {
	return &Handler{orchestrator: orchestrator, sessions: sessions}
}

type purchaseRequest struct {
	BondID         string  `json:"bond_id"`
	InvestedAmount float64 `json:"invested_amount"`
}

// Execute runs one purchase attempt for the session address.
func (h *Handler) Execute(c *fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("address"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "session not found")
	}

	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	invested, err := token.FromFloat(req.InvestedAmount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invested_amount must be a positive finite number")
	}

	res, err := h.orchestrator.Execute(c.UserContext(), session, req.BondID, invested)
	if err != nil {
		switch {
		case errors.Is(err, ErrVerificationRejected):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"phase":               res.Phase,
				"receipt_id":          res.ReceiptID,
				"verification_errors": res.VerificationErrors,
			})
		case errors.Is(err, verify.ErrUnreachable):
			return fiber.NewError(http.StatusBadGateway, "verifier unreachable")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return c.Status(http.StatusPaymentRequired).JSON(fiber.Map{
				"phase":        res.Phase,
				"receipt_id":   res.ReceiptID,
				"error":        "insufficient funds",
				"token_amount": res.TokenAmount.Float64(),
			})
		case errors.Is(err, wallet.ErrNotConnected):
			return fiber.NewError(http.StatusConflict, "wallet not connected")
		case errors.Is(err, token.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, "invalid amount")
		case errors.Is(err, bond.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "bond not found")
		case errors.Is(err, ErrReceiptNotPersisted):
			return fiber.NewError(http.StatusInternalServerError, "receipt could not be persisted; no funds moved")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"phase":              res.Phase,
		"bond_id":            res.BondID,
		"bond_name":          res.BondName,
		"units":              res.Units,
		"invested_amount":    res.InvestedAmount,
		"token_amount":       res.TokenAmount.Float64(),
		"tx_hash":            res.TxHash,
		"holding_id":         res.HoldingID,
		"receipt_id":         res.ReceiptID,
		"persistence_failed": res.PersistenceFailed,
	})
}
