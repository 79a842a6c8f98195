package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/extract"
)

func TestCostTableLookup(t *testing.T) {
	table := NewCostTable([]MasterCostEntry{
		{SKU: "ABC-RED", UnitCost: dec("10")},
		{SKU: " abc-red-l ", UnitCost: dec("12")}, // normalizes to ABC-RED-L
		{SKU: "XYZ", UnitCost: dec("7")},
	})

	tests := []struct {
		name     string
		sku      string
		wantCost string
		wantOK   bool
	}{
		{"exact match", "ABC-RED", "10", true},
		{"exact beats root fallback", "ABC-RED-L", "12", true},
		{"case and space folded", " abc-red ", "10", true},
		{"root fallback for unlisted variant", "ABC-GREEN-XL", "10", true},
		{"bare sku", "XYZ", "7", true},
		{"variant of bare sku", "XYZ-2", "7", true},
		{"no match", "QQQ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := table.Lookup(tt.sku)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.sku, ok, tt.wantOK)
			}
			if ok && !e.UnitCost.Equal(dec(tt.wantCost)) {
				t.Errorf("Lookup(%q) unit cost = %s, want %s", tt.sku, e.UnitCost, tt.wantCost)
			}
		})
	}
}

func TestCostTableFirstEntryPerRootWins(t *testing.T) {
	table := NewCostTable([]MasterCostEntry{
		{SKU: "ABC-RED", UnitCost: dec("10")},
		{SKU: "ABC-BLUE", UnitCost: dec("20")},
	})
	e, ok := table.Lookup("ABC-GREEN")
	if !ok || !e.UnitCost.Equal(dec("10")) {
		t.Errorf("root fallback should keep the first entry per root, got %+v ok=%v", e, ok)
	}
}

func TestNormalizeCourier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Flash Express", constants.CourierFlash},
		{"Kerry Express TH", constants.CourierKerry},
		{"J&T Express", constants.CourierJT},
		{"SPX Express", constants.CourierSPX},
		{"Shopee Xpress", constants.CourierSPX},
		{"นินจาแวน", constants.CourierNinjaVan},
		{"Some New Courier", constants.CourierStandard},
		{"", constants.CourierStandard},
	}
	for _, tt := range tests {
		if got := NormalizeCourier(tt.in); got != tt.want {
			t.Errorf("NormalizeCourier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		name     string
		workType string
		creator  string
		want     string
	}{
		{"admin by work type", "งานแอดมิน", "", RoleAdmin},
		{"telesale by work type", "Telesale", "", RoleTelesale},
		{"telesale thai", "", "ทีมเทเลเซล", RoleTelesale},
		{"admin wins when both match", "admin telesale", "", RoleAdmin},
		{"creator field considered", "", "admin_bee", RoleAdmin},
		{"unknown", "", "", RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRole(tt.workType, tt.creator); got != tt.want {
				t.Errorf("ClassifyRole(%q, %q) = %q, want %q", tt.workType, tt.creator, got, tt.want)
			}
		})
	}
}

func TestAttachCostsProductAndCOD(t *testing.T) {
	table := NewCostTable([]MasterCostEntry{
		{
			SKU:             "ABC",
			UnitCost:        dec("10"),
			BoxCost:         dec("3"),
			AvgDeliveryCost: dec("25"),
			CourierRates: map[string]decimal.Decimal{
				constants.CourierFlash:    dec("0.05"),
				constants.CourierStandard: dec("0.02"),
			},
		},
	})
	lines := []extract.LineItem{
		{
			OrderID:       "A",
			SKU:           "ABC",
			Quantity:      2,
			SalesAmount:   dec("1000"),
			PaymentMethod: "Cash on Delivery (COD)",
			Courier:       "Flash Express",
		},
	}
	out := AttachCosts(lines, table)
	l := out[0]

	if !l.ProductCost.Equal(dec("20")) {
		t.Errorf("ProductCost = %s, want 20 (unit x qty)", l.ProductCost)
	}
	if !l.BoxCost.Equal(dec("3")) || !l.DeliveryCost.Equal(dec("25")) {
		t.Errorf("box/delivery = %s/%s, want 3/25", l.BoxCost, l.DeliveryCost)
	}
	// 1000 * 0.05 * 1.07
	if !l.CODCost.Equal(dec("53.5")) {
		t.Errorf("CODCost = %s, want 53.5", l.CODCost)
	}
}

func TestAttachCostsCODFallsBackToStandardRate(t *testing.T) {
	table := NewCostTable([]MasterCostEntry{
		{
			SKU: "ABC",
			CourierRates: map[string]decimal.Decimal{
				constants.CourierStandard: dec("0.02"),
			},
		},
	})
	lines := []extract.LineItem{
		{SKU: "ABC", SalesAmount: dec("1000"), PaymentMethod: "เก็บเงินปลายทาง", Courier: "Unlisted Courier Co"},
	}
	out := AttachCosts(lines, table)
	// 1000 * 0.02 * 1.07
	if !out[0].CODCost.Equal(dec("21.4")) {
		t.Errorf("CODCost = %s, want 21.4 via standard rate", out[0].CODCost)
	}
}

func TestAttachCostsNonCODHasNoSurcharge(t *testing.T) {
	table := NewCostTable([]MasterCostEntry{
		{SKU: "ABC", CourierRates: map[string]decimal.Decimal{constants.CourierFlash: dec("0.05")}},
	})
	lines := []extract.LineItem{
		{SKU: "ABC", SalesAmount: dec("1000"), PaymentMethod: "Credit Card", Courier: "Flash Express"},
	}
	out := AttachCosts(lines, table)
	if !out[0].CODCost.Equal(decimal.Zero) {
		t.Errorf("CODCost = %s, want 0 for prepaid order", out[0].CODCost)
	}
}

func TestAttachCostsCommissionByRole(t *testing.T) {
	table := NewCostTable([]MasterCostEntry{
		{SKU: "ABC", CommissionAdminRate: dec("0.03"), CommissionTelesaleRate: dec("0.07")},
	})

	admin := AttachCosts([]extract.LineItem{
		{SKU: "ABC", SalesAmount: dec("200"), WorkType: "Admin"},
	}, table)[0]
	if !admin.AdminCommission.Equal(dec("6")) || !admin.TelesaleCommission.Equal(decimal.Zero) {
		t.Errorf("admin line commissions = %s/%s, want 6/0", admin.AdminCommission, admin.TelesaleCommission)
	}

	tele := AttachCosts([]extract.LineItem{
		{SKU: "ABC", SalesAmount: dec("200"), WorkType: "เทเลเซล"},
	}, table)[0]
	if !tele.TelesaleCommission.Equal(dec("14")) || !tele.AdminCommission.Equal(decimal.Zero) {
		t.Errorf("telesale line commissions = %s/%s, want 0/14", tele.AdminCommission, tele.TelesaleCommission)
	}

	unknown := AttachCosts([]extract.LineItem{
		{SKU: "ABC", SalesAmount: dec("200")},
	}, table)[0]
	if !unknown.AdminCommission.Equal(decimal.Zero) || !unknown.TelesaleCommission.Equal(decimal.Zero) {
		t.Errorf("unknown role should earn no commission")
	}
}

func TestAttachCostsNoMasterMatch(t *testing.T) {
	out := AttachCosts([]extract.LineItem{
		{SKU: "UNKNOWN", SalesAmount: dec("100"), PaymentMethod: "COD"},
	}, NewCostTable(nil))
	l := out[0]
	if !l.ProductCost.Equal(decimal.Zero) || !l.CODCost.Equal(decimal.Zero) {
		t.Errorf("unmatched SKU should carry zero costs, got %+v", l)
	}
}
