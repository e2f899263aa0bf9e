package bond

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPlanNotFound occurs when no SIP plan exists for the given id.
	ErrPlanNotFound = errors.New("sip plan not found")

	// ErrPlanNotActive occurs when mutating a completed plan.
	ErrPlanNotActive = errors.New("sip plan is not active")
)

// PlanStatus is the lifecycle state of a systematic investment plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
)

// Plan is a monthly recurring bond investment with a projected future value.
type Plan struct {
	ID              string     `json:"id"`
	WalletAddress   string     `json:"wallet_address"`
	BondID          string     `json:"bond_id"`
	BondName        string     `json:"bond_name"`
	MonthlyAmount   float64    `json:"monthly_amount"`
	DurationMonths  int        `json:"duration_months"`
	ExpectedReturns float64    `json:"expected_returns"`
	StartDate       time.Time  `json:"start_date"`
	Status          PlanStatus `json:"status"`
}

// ProjectReturns computes the future value of a monthly contribution
// compounded at apy (percent, annual) over months:
// FV = m * ((1+r)^n - 1) / r with r the monthly rate.
func ProjectReturns(monthly float64, months int, apy float64) float64 {
	if monthly <= 0 || months <= 0 {
		return 0
	}
	r := apy / 100 / 12
	if r == 0 {
		return monthly * float64(months)
	}
	return monthly * ((math.Pow(1+r, float64(months)) - 1) / r)
}

// SIPService manages systematic investment plans against the catalog.
type SIPService struct {
	mu      sync.Mutex
	plans   map[string]*Plan
	order   []string
	catalog *Catalog
}

// NewSIPService builds a plan service over the provided catalog.
func NewSIPService(catalog *Catalog) *SIPService {
	return &SIPService{plans: make(map[string]*Plan), catalog: catalog}
}

// CreateInput captures the data needed to open a plan.
type CreateInput struct {
	WalletAddress  string
	BondID         string
	MonthlyAmount  float64
	DurationMonths int
}

// Create opens an active plan with a projected future value.
func (s *SIPService) Create(input CreateInput) (Plan, error) {
	if input.MonthlyAmount <= 0 {
		return Plan{}, fmt.Errorf("monthly amount must be positive")
	}
	if input.DurationMonths <= 0 {
		return Plan{}, fmt.Errorf("duration must be positive")
	}
	b, err := s.catalog.Get(input.BondID)
	if err != nil {
		return Plan{}, err
	}

	plan := &Plan{
		ID:              "sip-" + uuid.NewString(),
		WalletAddress:   input.WalletAddress,
		BondID:          b.ID,
		BondName:        b.Name,
		MonthlyAmount:   input.MonthlyAmount,
		DurationMonths:  input.DurationMonths,
		ExpectedReturns: ProjectReturns(input.MonthlyAmount, input.DurationMonths, b.APY),
		StartDate:       time.Now().UTC(),
		Status:          PlanActive,
	}

	s.mu.Lock()
	s.plans[plan.ID] = plan
	s.order = append(s.order, plan.ID)
	s.mu.Unlock()
	return *plan, nil
}

// List returns the plans belonging to an address, oldest first.
func (s *SIPService) List(address string) []Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Plan
	for _, id := range s.order {
		if p := s.plans[id]; p.WalletAddress == address {
			out = append(out, *p)
		}
	}
	return out
}

// Pause suspends an active plan.
func (s *SIPService) Pause(id string) (Plan, error) {
	return s.transition(id, PlanActive, PlanPaused)
}

// Resume reactivates a paused plan.
func (s *SIPService) Resume(id string) (Plan, error) {
	return s.transition(id, PlanPaused, PlanActive)
}

// ModifyAmount changes the monthly contribution and reprojects returns.
func (s *SIPService) ModifyAmount(id string, monthly float64) (Plan, error) {
	if monthly <= 0 {
		return Plan{}, fmt.Errorf("monthly amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	if p.Status == PlanCompleted {
		return Plan{}, ErrPlanNotActive
	}

	b, err := s.catalog.Get(p.BondID)
	if err != nil {
		return Plan{}, err
	}
	p.MonthlyAmount = monthly
	p.ExpectedReturns = ProjectReturns(monthly, p.DurationMonths, b.APY)
	return *p, nil
}

func (s *SIPService) transition(id string, from, to PlanStatus) (Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	if p.Status != from {
		return Plan{}, ErrPlanNotActive
	}
	p.Status = to
	return *p, nil
}
