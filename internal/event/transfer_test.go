package event

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validTransferCreated() TransferCreated {
	return TransferCreated{
		SenderUserID:   "alice",
		ReceiverUserID: "bob",
		Amount:         decimal.RequireFromString("10.50"),
		TransactionID:  "4f3a1f9e-0000-0000-0000-000000000001",
		Status:         StatusSuccess,
		Timestamp:      Now(),
	}
}

func TestTransferCreatedValidate(t *testing.T) {
	if err := validTransferCreated().Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	cases := map[string]func(*TransferCreated){
		"missing sender":      func(e *TransferCreated) { e.SenderUserID = "" },
		"missing receiver":    func(e *TransferCreated) { e.ReceiverUserID = "" },
		"missing transaction": func(e *TransferCreated) { e.TransactionID = "" },
		"zero amount":         func(e *TransferCreated) { e.Amount = decimal.Zero },
		"negative amount":     func(e *TransferCreated) { e.Amount = decimal.RequireFromString("-1") },
		"unknown status":      func(e *TransferCreated) { e.Status = "done" },
	}

	for name, mutate := range cases {
		evt := validTransferCreated()
		mutate(&evt)
		if err := evt.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}
}

func TestTransferResolvedValidate(t *testing.T) {
	evt := TransferResolved{
		TransactionID: "4f3a1f9e-0000-0000-0000-000000000001",
		Status:        ResolutionApplied,
	}
	if err := evt.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}

	evt.Status = ResolutionFailed
	if err := evt.Validate(); err != nil {
		t.Fatalf("expected failed resolution to validate, got %v", err)
	}

	evt.Status = "settled"
	if err := evt.Validate(); err == nil {
		t.Error("expected an error for an unrecognized resolution")
	}

	evt.Status = ResolutionApplied
	evt.TransactionID = ""
	if err := evt.Validate(); err == nil {
		t.Error("expected an error for a missing transaction id")
	}
}

func TestAmountTravelsAsJSONNumber(t *testing.T) {
	body, err := json.Marshal(validTransferCreated())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(body), `"amount":10.5`) {
		t.Fatalf("expected amount as a bare JSON number, got %s", body)
	}

	var decoded TransferCreated
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Amount.Equal(decimal.RequireFromString("10.50")) {
		t.Fatalf("expected amount 10.50 after round trip, got %s", decoded.Amount)
	}
}
