package verify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func validRequest() Request {
	return Request{
		WalletAddress:  "weil1abc",
		BondID:         "in-gs-2030",
		BondName:       "India G-Sec 2030 (7.18%)",
		Units:          100,
		InvestedAmount: 10_000,
		BondMetadata: BondMetadata{
			ActiveStatus: true,
			TotalSupply:  10_000_000,
			IssuedSupply: 1_600_000,
			APY:          718,
			MaturityDate: "2030-01-15",
		},
	}
}

func TestRuleVerifierAccepts(t *testing.T) {
	v := NewRuleVerifier(func(string) (float64, bool) { return 100, true })

	out, err := v.Verify(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !out.Verified {
		t.Fatalf("expected verified, errors: %v", out.Errors)
	}
	if !strings.HasPrefix(out.ReceiptID, "WEIL-RCPT-") {
		t.Fatalf("unexpected receipt id %q", out.ReceiptID)
	}
	for rule, ok := range out.RulesEvaluated {
		if !ok {
			t.Fatalf("rule %s unexpectedly failed", rule)
		}
	}
}

func TestRuleVerifierSupplyExceeded(t *testing.T) {
	v := NewRuleVerifier(nil)
	req := validRequest()
	req.BondMetadata.IssuedSupply = req.BondMetadata.TotalSupply

	out, err := v.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Verified {
		t.Fatalf("expected rejection")
	}
	if out.RulesEvaluated[RuleSupplyAvailable] {
		t.Fatalf("supply rule should have failed")
	}
	if len(out.Errors) != 1 || out.Errors[0] != "supply exceeded" {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if out.ReceiptID == "" {
		t.Fatalf("rejected outcomes still carry a receipt id")
	}
}

func TestRuleVerifierInactiveAndPastMaturity(t *testing.T) {
	v := NewRuleVerifier(nil)
	req := validRequest()
	req.BondMetadata.ActiveStatus = false
	req.BondMetadata.MaturityDate = "2020-01-01"

	out, err := v.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Verified {
		t.Fatalf("expected rejection")
	}
	if len(out.Errors) != 2 {
		t.Fatalf("expected two rule failures, got %v", out.Errors)
	}
}

func TestRuleVerifierPriceInconsistency(t *testing.T) {
	v := NewRuleVerifier(func(string) (float64, bool) { return 100, true })
	req := validRequest()
	req.InvestedAmount = 9_000 // 100 units at 100/unit should be 10000

	out, err := v.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Verified || out.RulesEvaluated[RulePriceConsistent] {
		t.Fatalf("expected price consistency failure, got %+v", out)
	}
}

func TestHTTPClientMapsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.BondMetadata.APY != 718 {
			t.Errorf("expected basis-point apy on the wire, got %v", req.BondMetadata.APY)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"verified":  false,
			"receiptId": "WEIL-RCPT-remote",
			"errors":    []string{"supply exceeded"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	out, err := c.Verify(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out.Verified {
		t.Fatalf("expected unverified outcome")
	}
	if out.ReceiptID != "WEIL-RCPT-remote" {
		t.Fatalf("unexpected receipt id %q", out.ReceiptID)
	}
	if len(out.Errors) != 1 || out.Errors[0] != "supply exceeded" {
		t.Fatalf("errors not surfaced verbatim: %v", out.Errors)
	}
}

func TestHTTPClientUnreachableOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	if _, err := c.Verify(context.Background(), validRequest()); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestHTTPClientUnreachableOnTransportFailure(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := c.Verify(context.Background(), validRequest()); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}
