package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	sciNotationRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[eE]\+?[0-9]+$`)
	currencyRunes = strings.NewReplacer(",", "", "฿", "", "THB", "", " ", "")
)

// CanonicalOrderID undoes spreadsheet auto-formatting: order ids that Excel
// rendered as floats in scientific notation ("1.2345E+14") come back as
// plain integer strings. Anything else passes through trimmed.
func CanonicalOrderID(s string) string {
	s = NormalizeCell(s)
	if s == "" {
		return ""
	}
	if sciNotationRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
	}
	return s
}

// ParseAmount coerces a money cell to a decimal; unparseable values become 0
// so downstream arithmetic never sees a null.
func ParseAmount(s string) decimal.Decimal {
	s = currencyRunes.Replace(NormalizeCell(s))
	if s == "" || s == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity coerces a quantity cell to an int. An order line implies at
// least one unit, so blanks and garbage become 1.
func ParseQuantity(s string) int {
	s = currencyRunes.Replace(NormalizeCell(s))
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	// "2.0" from Excel number formatting
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 1
}

// ParseRateCell reads a dimensionless multiplier that may arrive as "5%",
// "0.05" or "5" (master sheets are inconsistent). Values above 1 are taken
// to be percentages. ok is false for an empty or non-numeric cell, which
// callers must treat as "no rate given" rather than an explicit zero.
func ParseRateCell(s string) (decimal.Decimal, bool) {
	s = NormalizeCell(s)
	if s == "" {
		return decimal.Zero, false
	}
	pct := strings.HasSuffix(s, "%")
	s = currencyRunes.Replace(strings.TrimSuffix(s, "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if pct || d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	return d, true
}

// ParseRate is ParseRateCell for callers that want garbage coerced to 0.
func ParseRate(s string) decimal.Decimal {
	d, _ := ParseRateCell(s)
	return d
}

// day-first layouts come before everything else: these are Thai marketplace
// exports, so 02/01/2006 is the 2nd of January
var dateLayouts = []string{
	"02/01/2006 15:04:05", "02/01/2006 15:04", "02/01/2006",
	"2/1/2006 15:04:05", "2/1/2006 15:04", "2/1/2006",
	"02/01/06 15:04", "02/01/06", "2/1/06",
	"02-01-2006 15:04:05", "02-01-2006", "2-1-2006",
	"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02",
	"2006/01/02 15:04:05", "2006/01/02",
	"02 Jan 2006 15:04", "02 Jan 2006", "2 Jan 2006",
	"02-Jan-2006", "02-Jan-06",
	time.RFC3339, "2006-01-02T15:04:05",
	// last-resort US order for the odd export that slips through
	"01/02/2006 15:04:05", "01/02/2006",
}

// ParseDateDayFirst parses a date cell with day-first preference, falling
// back to Excel serial numbers, and truncates the time-of-day. Returns ok
// false for unparseable input; callers pass the zero time through as a null
// date rather than dropping the row.
func ParseDateDayFirst(s string) (time.Time, bool) {
	s = NormalizeCell(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	if t, err := parseExcelSerialDate(s); err == nil {
		return truncateDay(t), true
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseExcelSerialDate converts an Excel serial date (possibly with a
// fractional day) into a time.Time. Excel counts from 1899-12-30 and
// includes the fake 1900-02-29 day.
func parseExcelSerialDate(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	if f < 1 || f > 200000 {
		return time.Time{}, strconv.ErrRange
	}
	days := int(f)
	frac := f - float64(days)
	if days > 59 { // Excel leap-year bug adjustment
		days--
	}
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	d := base.AddDate(0, 0, days)
	d = d.Add(time.Duration(frac * float64(24*time.Hour)))
	return d, nil
}

// NormalizeSKU strips all whitespace and upper-cases. Idempotent.
func NormalizeSKU(s string) string {
	s = NormalizeCell(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ToUpper(s)
}

// RootSKU truncates a variant SKU at the first delimiter: ABC-RED-L -> ABC.
// Already-bare SKUs come back unchanged.
func RootSKU(sku string) string {
	if i := strings.Index(sku, "-"); i > 0 {
		return sku[:i]
	}
	return sku
}
