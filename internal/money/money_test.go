package money

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{name: "plain decimal", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "whole cedis", input: "50", want: 5000},
		{name: "single fraction digit", input: "7.5", want: 750},
		{name: "third decimal rounds down", input: "12.344", want: 1234},
		{name: "third decimal rounds up", input: "12.345", want: 1235},
		{name: "zero", input: "0", want: 0},
		{name: "negative rejected", input: "-5.00", wantErr: true},
		{name: "plus sign rejected", input: "+5.00", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "garbage rejected", input: "12a.50", wantErr: true},
		{name: "double dot rejected", input: "1.2.3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimal(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimal(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimal(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromFloat(t *testing.T) {
	got, err := FromFloat(24.50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2450 {
		t.Errorf("FromFloat(24.50) = %d, want 2450", got)
	}
	if _, err := FromFloat(-1); err == nil {
		t.Error("FromFloat(-1) expected error")
	}
}

func TestString(t *testing.T) {
	if got := Amount(2450).String(); got != "24.50" {
		t.Errorf("Amount(2450).String() = %q, want %q", got, "24.50")
	}
	if got := Amount(5).String(); got != "0.05" {
		t.Errorf("Amount(5).String() = %q, want %q", got, "0.05")
	}
	if got := Amount(-125).String(); got != "-1.25" {
		t.Errorf("Amount(-125).String() = %q, want %q", got, "-1.25")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount Amount `json:"amount"`
	}
	out, err := json.Marshal(payload{Amount: 123450})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"amount":1234.50}` {
		t.Errorf("marshal = %s", out)
	}
	var in payload
	if err := json.Unmarshal([]byte(`{"amount":500.25}`), &in); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if in.Amount != 50025 {
		t.Errorf("unmarshal number = %d, want 50025", in.Amount)
	}
	if err := json.Unmarshal([]byte(`{"amount":"75.10"}`), &in); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if in.Amount != 7510 {
		t.Errorf("unmarshal string = %d, want 7510", in.Amount)
	}
}
