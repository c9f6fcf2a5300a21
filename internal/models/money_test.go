package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalJSONFixedScale(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(10.5))
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != `"10.50"` {
		t.Fatalf("want \"10.50\" got %s", data)
	}
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"99.999"`), &fromString); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if fromString.String() != "100.00" {
		t.Fatalf("want 100.00 got %s", fromString.String())
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`12.3`), &fromNumber); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if fromNumber.String() != "12.30" {
		t.Fatalf("want 12.30 got %s", fromNumber.String())
	}
}

func TestCartLinesFind(t *testing.T) {
	lines := CartLines{
		{ProductID: 1, Quantity: 2},
		{ProductID: 5, Quantity: -1},
	}
	if idx := lines.Find(5); idx != 1 {
		t.Fatalf("want index 1 got %d", idx)
	}
	if idx := lines.Find(9); idx != -1 {
		t.Fatalf("want -1 got %d", idx)
	}
}

func TestCartLinesProductIDsSkipsNonPositive(t *testing.T) {
	lines := CartLines{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 0},
		{ProductID: 3, Quantity: -4},
	}
	ids := lines.ProductIDs()
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("want [1] got %v", ids)
	}
}

func TestCartLinesScanRoundTrip(t *testing.T) {
	lines := CartLines{{ProductID: 7, Quantity: 3}}
	value, err := lines.Value()
	if err != nil {
		t.Fatalf("value error: %v", err)
	}

	var decoded CartLines
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ProductID != 7 || decoded[0].Quantity != 3 {
		t.Fatalf("unexpected decoded lines: %+v", decoded)
	}

	var fromNil CartLines
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil error: %v", err)
	}
	if len(fromNil) != 0 {
		t.Fatalf("nil value should scan to empty lines")
	}
}
