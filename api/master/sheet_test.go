package master

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/extract"
	"SellerLedgerSaas/api/pnl/reconcile"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseCostSheet(t *testing.T) {
	rows := [][]string{
		{"Master cost sheet v3", ""},
		{"SKU", "ชื่อสินค้า", "Unit Cost", "ค่ากล่อง", "Avg Delivery Cost", "คอมแอดมิน", "คอมเทเลเซล", "Flash", "Standard"},
		{"abc-red", "เสื้อแดง", "10.50", "3", "25", "3%", "7%", "5%", "2%"},
		{"", "", "", "", "", "", "", "", ""},
		{"XYZ", "Widget", "7", "", "", "", "", "", ""},
		{"", "no sku row", "99", "", "", "", "", "", ""},
	}
	entries, err := ParseCostSheet(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (blank and no-SKU rows skipped)", len(entries))
	}

	e := entries[0]
	if e.SKU != "ABC-RED" {
		t.Errorf("SKU = %q, want normalized ABC-RED", e.SKU)
	}
	if e.Name != "เสื้อแดง" {
		t.Errorf("Name = %q", e.Name)
	}
	if !e.UnitCost.Equal(dec("10.5")) || !e.BoxCost.Equal(dec("3")) || !e.AvgDeliveryCost.Equal(dec("25")) {
		t.Errorf("costs = %s/%s/%s, want 10.5/3/25", e.UnitCost, e.BoxCost, e.AvgDeliveryCost)
	}
	if !e.CommissionAdminRate.Equal(dec("0.03")) || !e.CommissionTelesaleRate.Equal(dec("0.07")) {
		t.Errorf("commission rates = %s/%s, want 0.03/0.07", e.CommissionAdminRate, e.CommissionTelesaleRate)
	}
	if !e.CourierRates[constants.CourierFlash].Equal(dec("0.05")) {
		t.Errorf("flash rate = %s, want 0.05", e.CourierRates[constants.CourierFlash])
	}
	if !e.CourierRates[constants.CourierStandard].Equal(dec("0.02")) {
		t.Errorf("standard rate = %s, want 0.02", e.CourierRates[constants.CourierStandard])
	}

	// sparse row: everything coerces to zero, no error
	sparse := entries[1]
	if sparse.SKU != "XYZ" || !sparse.UnitCost.Equal(dec("7")) || !sparse.BoxCost.Equal(decimal.Zero) {
		t.Errorf("sparse entry = %+v", sparse)
	}
}

func TestParseCostSheetMissingSKUColumn(t *testing.T) {
	rows := [][]string{
		{"Name", "Cost"},
		{"Widget", "5"},
	}
	if _, err := ParseCostSheet(rows); err == nil {
		t.Fatal("expected error for missing SKU column")
	}
}

// A courier column the sheet never had (or an unreadable cell) must stay
// out of the persisted rates entirely. A zero that sneaks in instead would
// shadow the standard-rate fallback after the table is loaded back.
func TestCourierRatesSurviveUploadLoadRoundTrip(t *testing.T) {
	rows := [][]string{
		{"SKU", "Unit Cost", "Kerry", "Standard"},
		{"ABC", "100", "n/a", "2%"},
	}
	entries, err := ParseCostSheet(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if _, ok := entries[0].CourierRates[constants.CourierKerry]; ok {
		t.Fatal("unreadable Kerry cell should leave the key absent")
	}

	// what UploadProductCosts writes and LoadCostTable reads back
	vals := courierCopyValues(entries[0])
	scanned := make([]*decimal.Decimal, len(courierRateColumns))
	for i, v := range vals {
		if v != nil {
			d := v.(decimal.Decimal)
			scanned[i] = &d
		}
	}
	loaded := entries[0]
	loaded.CourierRates = courierRatesFromScan(scanned)

	if _, ok := loaded.CourierRates[constants.CourierKerry]; ok {
		t.Fatal("NULL Kerry rate should not come back as a zero entry")
	}
	if !loaded.CourierRates[constants.CourierStandard].Equal(dec("0.02")) {
		t.Fatalf("standard rate lost in round trip: %s", loaded.CourierRates[constants.CourierStandard])
	}

	table := reconcile.NewCostTable([]reconcile.MasterCostEntry{loaded})
	lines := reconcile.AttachCosts([]extract.LineItem{
		{SKU: "ABC", Quantity: 1, SalesAmount: dec("1000"), PaymentMethod: "COD", Courier: "Kerry Express"},
	}, table)
	// 1000 * 0.02 * 1.07 via the standard fallback
	if !lines[0].CODCost.Equal(dec("21.4")) {
		t.Errorf("CODCost = %s, want 21.4 via standard rate", lines[0].CODCost)
	}
}

func TestParseAdSheet(t *testing.T) {
	rows := [][]string{
		{"วันที่", "ชื่อแคมเปญ", "ต้นทุน"},
		{"02/01/2026", "MidYear [ABC-RED] broad", "150.25"},
		{"03/01/2026", "no token campaign", "30"},
		{"not a date", "orphan [XYZ]", "10"},
	}
	spends, skipped, err := ParseAdSheet(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spends) != 2 {
		t.Fatalf("got %d rows, want 2", len(spends))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (unparseable date)", skipped)
	}

	s := spends[0]
	if !s.Date.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want day-first 2 Jan", s.Date)
	}
	if s.SKU != "ABC-RED" {
		t.Errorf("SKU = %q, want ABC-RED from campaign token", s.SKU)
	}
	if !s.Amount.Equal(dec("150.25")) {
		t.Errorf("Amount = %s, want 150.25", s.Amount)
	}
	if spends[1].SKU != "" {
		t.Errorf("campaign without token should have empty SKU, got %q", spends[1].SKU)
	}
}

func TestParseAdSheetMissingColumns(t *testing.T) {
	rows := [][]string{
		{"Campaign", "Cost"},
		{"promo", "10"},
	}
	if _, _, err := ParseAdSheet(rows); err == nil {
		t.Fatal("expected error when the date column is missing")
	}
}
