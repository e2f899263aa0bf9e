package bond

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound occurs when no bond exists for the requested id.
	ErrNotFound = errors.New("bond not found")

	// ErrSupplyExhausted occurs when a reservation exceeds remaining supply.
	ErrSupplyExhausted = errors.New("bond supply exhausted")
)

// Bond is read-only instrument reference data. Prices are in INR.
type Bond struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	APY             float64 `json:"apy"`
	MaturityDate    string  `json:"maturity_date"`
	PricePerUnit    float64 `json:"price_per_unit"`
	Risk            string  `json:"risk"`
	Duration        string  `json:"duration"`
	TotalSupply     float64 `json:"total_supply"`
	RemainingSupply float64 `json:"remaining_supply"`
	Active          bool    `json:"active"`
}

// IssuedSupply is the number of units already sold.
func (b Bond) IssuedSupply() float64 {
	return b.TotalSupply - b.RemainingSupply
}

// Catalog holds the tradable instruments. Supply reservations are the only
// mutation and are serialized under the catalog lock.
type Catalog struct {
	mu    sync.RWMutex
	bonds map[string]Bond
	order []string
}

// NewCatalog builds a catalog from the provided bonds, preserving order.
func NewCatalog(bonds []Bond) *Catalog {
	c := &Catalog{bonds: make(map[string]Bond, len(bonds))}
	for _, b := range bonds {
		c.bonds[b.ID] = b
		c.order = append(c.order, b.ID)
	}
	return c
}

// NewMarketCatalog seeds the testnet catalog with the Indian government
// bond lineup.
func NewMarketCatalog() *Catalog {
	return NewCatalog([]Bond{
		{ID: "in-gs-2030", Name: "India G-Sec 2030 (7.18%)", APY: 7.18, MaturityDate: "2030-01-15", PricePerUnit: 100, Risk: "Sovereign", Duration: "6 Years", TotalSupply: 10_000_000, RemainingSupply: 8_400_000, Active: true},
		{ID: "sdl-mh-2029", Name: "Maharashtra SDL 2029", APY: 7.45, MaturityDate: "2029-06-20", PricePerUnit: 100, Risk: "State Sovereign", Duration: "5 Years", TotalSupply: 5_000_000, RemainingSupply: 2_100_000, Active: true},
		{ID: "nhai-2034", Name: "NHAI Tax-Free 2034", APY: 6.80, MaturityDate: "2034-03-10", PricePerUnit: 1000, Risk: "AAA (Govt Backed)", Duration: "10 Years", TotalSupply: 2_000_000, RemainingSupply: 1_500_000, Active: true},
		{ID: "rbi-float", Name: "RBI Floating Rate Bond", APY: 8.05, MaturityDate: "2031-12-01", PricePerUnit: 1000, Risk: "Sovereign", Duration: "7 Years", TotalSupply: 5_000_000, RemainingSupply: 4_800_000, Active: true},
	})
}

// Get returns the bond for id.
func (c *Catalog) Get(id string) (Bond, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bonds[id]
	if !ok {
		return Bond{}, ErrNotFound
	}
	return b, nil
}

// List returns all bonds in catalog order.
func (c *Catalog) List() []Bond {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Bond, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.bonds[id])
	}
	return out
}

// PriceFor resolves the unit price for a bond, for use as a verifier
// price lookup.
func (c *Catalog) PriceFor(id string) (float64, bool) {
	b, err := c.Get(id)
	if err != nil {
		return 0, false
	}
	return b.PricePerUnit, true
}

// ReserveSupply deducts units from the bond's remaining supply after a
// settled purchase.
func (c *Catalog) ReserveSupply(id string, units float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bonds[id]
	if !ok {
		return ErrNotFound
	}
	if units <= 0 || units > b.RemainingSupply {
		return ErrSupplyExhausted
	}
	b.RemainingSupply -= units
	c.bonds[id] = b
	return nil
}
