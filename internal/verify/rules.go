package verify

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	RuleActiveStatus    = "active_status"
	RuleSupplyAvailable = "supply_available"
	RulePriceConsistent = "price_consistent"
	RuleMaturityValid   = "maturity_valid"
	RulePositiveAmounts = "positive_amounts"

	// priceTolerance is the relative slack allowed between invested_amount
	// and units * price_per_unit.
	priceTolerance = 0.001
)

// PriceLookup resolves a bond's price per unit for the consistency rule.
type PriceLookup func(bondID string) (float64, bool)

// RuleVerifier evaluates the minting rules locally. It stands in for the
// remote verifier in development and tests, and issues receipt ids for
// every attempt, rejected ones included.
type RuleVerifier struct {
	priceFor PriceLookup
	now      func() time.Time
}

// NewRuleVerifier builds a local verifier. priceFor may be nil, in which
// case the price consistency rule passes vacuously.
func NewRuleVerifier(priceFor PriceLookup) *RuleVerifier {
	return &RuleVerifier{priceFor: priceFor, now: time.Now}
}

// Verify applies every rule and reports the per-rule results. Rule failures
// yield Verified=false with the errors listed; only a malformed request is
// an actual error.
func (v *RuleVerifier) Verify(_ context.Context, req Request) (Outcome, error) {
	rules := make(map[string]bool)
	var failures []string

	pass := func(rule string, ok bool, msg string) {
		rules[rule] = ok
		if !ok {
			failures = append(failures, msg)
		}
	}

	pass(RulePositiveAmounts,
		req.Units > 0 && req.InvestedAmount > 0,
		"units and invested amount must be positive")

	pass(RuleActiveStatus,
		req.BondMetadata.ActiveStatus,
		"bond is not active")

	pass(RuleSupplyAvailable,
		req.BondMetadata.IssuedSupply+req.Units <= req.BondMetadata.TotalSupply,
		"supply exceeded")

	priceOK := true
	if v.priceFor != nil {
		if price, ok := v.priceFor(req.BondID); ok {
			expected := req.Units * price
			priceOK = math.Abs(req.InvestedAmount-expected) <= expected*priceTolerance
		}
	}
	pass(RulePriceConsistent, priceOK,
		"invested amount inconsistent with units and unit price")

	maturityOK := false
	if maturity, err := time.Parse("2006-01-02", req.BondMetadata.MaturityDate); err == nil {
		maturityOK = maturity.After(v.now())
	}
	pass(RuleMaturityValid, maturityOK, "maturity date is in the past")

	return Outcome{
		Verified:       len(failures) == 0,
		ReceiptID:      newReceiptID(),
		Errors:         failures,
		RulesEvaluated: rules,
	}, nil
}

func newReceiptID() string {
	return fmt.Sprintf("WEIL-RCPT-%s", uuid.NewString())
}
