package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCanonicalOrderID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain id passes through", "579123456789", "579123456789"},
		{"trims whitespace", "  579123456789 ", "579123456789"},
		{"scientific notation expands", "1.2345E+14", "123450000000000"},
		{"lower-case exponent", "1.2345e+14", "123450000000000"},
		{"alphanumeric untouched", "TH-2509-00042", "TH-2509-00042"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalOrderID(tt.in); got != tt.want {
				t.Errorf("CanonicalOrderID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "123.45", "123.45"},
		{"thousands separator", "1,234.50", "1234.5"},
		{"baht sign", "฿350", "350"},
		{"currency code", "350 THB", "350"},
		{"negative", "-15.25", "-15.25"},
		{"dash placeholder", "-", "0"},
		{"garbage", "n/a", "0"},
		{"empty", "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			if got := ParseAmount(tt.in); !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"plain", "3", 3},
		{"excel float", "2.0", 2},
		{"blank defaults to one", "", 1},
		{"garbage defaults to one", "x", 1},
		{"negative clamps to zero", "-2", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuantity(tt.in); got != tt.want {
				t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"percent suffix", "5%", "0.05"},
		{"bare percentage", "5", "0.05"},
		{"already a fraction", "0.05", "0.05"},
		{"garbage", "abc", "0"},
		{"empty", "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			if got := ParseRate(tt.in); !got.Equal(want) {
				t.Errorf("ParseRate(%q) = %s, want %s", tt.in, got, want)
			}
		})
	}
}

func TestParseRateCellDistinguishesAbsentFromZero(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOK bool
	}{
		{"explicit zero", "0", true},
		{"percent", "2%", true},
		{"empty", "", false},
		{"garbage", "n/a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ParseRateCell(tt.in); ok != tt.wantOK {
				t.Errorf("ParseRateCell(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
		})
	}
}

func TestParseDateDayFirst(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOK bool
	}{
		{"day first slash", "02/01/2026", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"day first with time", "02/01/2026 14:30:15", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"iso", "2026-01-02", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"single digit", "2/1/2026", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"excel serial", "45000", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"excel serial with fraction", "45000.75", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "not-a-date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateDayFirst(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseDateDayFirst(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDateDayFirst(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSKU(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower cases up", "abc-red-l", "ABC-RED-L"},
		{"internal spaces stripped", "ABC - RED - L", "ABC-RED-L"},
		{"nbsp stripped", "ABC RED", "ABCRED"},
		{"idempotent", "ABC-RED-L", "ABC-RED-L"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSKU(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeSKU(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeSKU(got); again != got {
				t.Errorf("NormalizeSKU not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestRootSKU(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABC-RED-L", "ABC"},
		{"ABC", "ABC"},
		{"-ABC", "-ABC"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := RootSKU(tt.in); got != tt.want {
			t.Errorf("RootSKU(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
