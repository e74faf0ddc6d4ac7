package expr

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIncludes(t *testing.T) {
	tests := []struct {
		name     string
		haystack any
		needle   any
		want     bool
	}{
		{"substring hit", "hello world", "world", true},
		{"substring miss", "hello", "world", false},
		{"list membership hit", []string{"A", "B"}, "B", true},
		{"list membership miss", []string{"A", "B"}, "C", false},
		{"list of numbers", []any{decimal.NewFromInt(1)}, decimal.NewFromInt(1), true},
		{"null haystack", nil, "x", false},
		{"non-collection haystack", decimal.NewFromInt(5), "5", false},
	}
	for _, tt := range tests {
		got, err := Includes([]any{tt.haystack, tt.needle})
		if err != nil {
			t.Errorf("%s: Includes() failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: Includes() = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := Includes([]any{"only one"}); err == nil {
		t.Error("Includes with 1 argument succeeded, want error")
	}
}

func TestAnySelected(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{[]string{"a"}, true},
		{[]string{}, false},
		{[]any{1, 2}, true},
		{nil, false},
		{"not a list", false},
	}
	for _, tt := range tests {
		got, err := AnySelected([]any{tt.v})
		if err != nil {
			t.Fatalf("AnySelected(%v) failed: %v", tt.v, err)
		}
		if got != tt.want {
			t.Errorf("AnySelected(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		v    any
		want int64
	}{
		{[]string{"a", "b"}, 2},
		{[]any{}, 0},
		{nil, 0},
		{"not a list", 0},
	}
	for _, tt := range tests {
		got, err := Count([]any{tt.v})
		if err != nil {
			t.Fatalf("Count(%v) failed: %v", tt.v, err)
		}
		d := got.(decimal.Decimal)
		if d.IntPart() != tt.want {
			t.Errorf("Count(%v) = %s, want %d", tt.v, d, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	got, err := Coalesce([]any{nil, nil, "x", "y"})
	if err != nil {
		t.Fatalf("Coalesce() failed: %v", err)
	}
	if got != "x" {
		t.Errorf("Coalesce() = %v, want x", got)
	}

	got, err = Coalesce([]any{nil, nil})
	if err != nil {
		t.Fatalf("Coalesce() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Coalesce() = %v, want nil", got)
	}
}

func TestMin(t *testing.T) {
	got, err := Min([]any{decimal.NewFromInt(3), int64(1), 2.5})
	if err != nil {
		t.Fatalf("Min() failed: %v", err)
	}
	if !got.(decimal.Decimal).Equal(decimal.NewFromInt(1)) {
		t.Errorf("Min() = %v, want 1", got)
	}

	if _, err := Min([]any{"not a number"}); err == nil {
		t.Error("Min with a string succeeded, want error")
	}
	if _, err := Min(nil); err == nil {
		t.Error("Min with no arguments succeeded, want error")
	}
}

func TestRound_HalfEven(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.5", "0"},
		{"1.5", "2"},
		{"2.5", "2"},
		{"3.5", "4"},
		{"-0.5", "0"},
		{"2.4", "2"},
		{"2.6", "3"},
	}
	for _, tt := range tests {
		got, err := Round([]any{decimal.RequireFromString(tt.in)})
		if err != nil {
			t.Fatalf("Round(%s) failed: %v", tt.in, err)
		}
		if !got.(decimal.Decimal).Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Round(%s) = %v, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRound_WithPlaces(t *testing.T) {
	got, err := Round([]any{decimal.RequireFromString("1.2345"), decimal.NewFromInt(2)})
	if err != nil {
		t.Fatalf("Round() failed: %v", err)
	}
	if !got.(decimal.Decimal).Equal(decimal.RequireFromString("1.23")) {
		t.Errorf("Round() = %v, want 1.23", got)
	}
}

func TestDecimalCtor(t *testing.T) {
	got, err := DecimalCtor([]any{"0.30000000000000004"})
	if err != nil {
		t.Fatalf("DecimalCtor() failed: %v", err)
	}
	if got.(decimal.Decimal).String() != "0.30000000000000004" {
		t.Errorf("DecimalCtor() = %v, want exact string round-trip", got)
	}

	if _, err := DecimalCtor([]any{"not a number"}); err == nil {
		t.Error("DecimalCtor with junk succeeded, want error")
	}
}
