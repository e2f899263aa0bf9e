package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/weilchain/bondmarket/internal/token"
)

// Handler exposes wallet session HTTP endpoints.
type Handler struct {
	manager *Manager
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// Connect opens a new session and returns its address.
func (h *Handler) Connect(c *fiber.Ctx) error {
	_, address, err := h.manager.Connect()
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"address": address,
		"network": Network,
		"state":   StateConnected,
	})
}

// Disconnect tears down the session for an address.
func (h *Handler) Disconnect(c *fiber.Ctx) error {
	address := c.Params("address")
	if err := h.manager.Disconnect(address); err != nil {
		return fiber.NewError(http.StatusNotFound, "session not found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"address": address,
		"state":   StateDisconnected,
	})
}

// Status reports session state and balance in both WEIL and INR.
func (h *Handler) Status(c *fiber.Ctx) error {
	session, err := h.manager.Get(c.Params("address"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "session not found")
	}

	balance, err := session.Balance()
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return c.Status(http.StatusOK).JSON(fiber.Map{
				"address": c.Params("address"),
				"state":   session.State(),
			})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"address":      session.Address(),
		"network":      Network,
		"state":        session.State(),
		"balance_weil": balance.Float64(),
		"balance_inr":  token.WeilToFiat(balance).Float64(),
	})
}

// Faucet requests a rate-limited token grant for the session.
func (h *Handler) Faucet(c *fiber.Ctx) error {
	session, err := h.manager.Get(c.Params("address"))
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "session not found")
	}

	grant, err := session.RequestFaucet(c.UserContext())
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return fiber.NewError(http.StatusConflict, "wallet not connected")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	if !grant.Granted {
		retry := int(grant.RetryAfter.Seconds())
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
		return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
			"granted":             false,
			"retry_after_seconds": retry,
			"error":               "faucet can only be used once per cooldown per address",
		})
	}

	balance, _ := session.Balance()
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"granted":      true,
		"amount":       grant.Amount.Float64(),
		"balance_weil": balance.Float64(),
	})
}
