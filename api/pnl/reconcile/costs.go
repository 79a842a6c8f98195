package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/extract"
	"SellerLedgerSaas/api/pnl/ingest"
)

// MasterCostEntry is one row of the externally maintained product-cost
// sheet, keyed by normalized SKU. All rate fields are fractions in [0,1].
type MasterCostEntry struct {
	SKU                    string
	Name                   string
	Type                   string
	UnitCost               decimal.Decimal
	BoxCost                decimal.Decimal
	AvgDeliveryCost        decimal.Decimal
	CommissionAdminRate    decimal.Decimal
	CommissionTelesaleRate decimal.Decimal
	// CourierRates maps canonical courier keys (constants.Courier*) to the
	// COD collection rate for that courier. CourierStandard is the fallback.
	CourierRates map[string]decimal.Decimal
}

// CostTable is the read-once snapshot of the master cost sheet for a run.
type CostTable struct {
	bySKU  map[string]MasterCostEntry
	byRoot map[string]MasterCostEntry
}

// NewCostTable indexes entries by exact normalized SKU and, for the
// fallback pass, by root SKU (first entry per root wins).
func NewCostTable(entries []MasterCostEntry) CostTable {
	t := CostTable{
		bySKU:  make(map[string]MasterCostEntry, len(entries)),
		byRoot: make(map[string]MasterCostEntry, len(entries)),
	}
	for _, e := range entries {
		key := ingest.NormalizeSKU(e.SKU)
		if key == "" {
			continue
		}
		e.SKU = key
		if _, dup := t.bySKU[key]; !dup {
			t.bySKU[key] = e
		}
		root := ingest.RootSKU(key)
		if _, dup := t.byRoot[root]; !dup {
			t.byRoot[root] = e
		}
	}
	return t
}

// Len reports the number of distinct SKUs in the snapshot.
func (t CostTable) Len() int { return len(t.bySKU) }

// Lookup finds the cost entry for a transaction SKU: exact normalized match
// first, then the root-SKU fallback (both sides truncated at the variant
// delimiter). The exact match always wins when present.
func (t CostTable) Lookup(sku string) (MasterCostEntry, bool) {
	key := ingest.NormalizeSKU(sku)
	if e, ok := t.bySKU[key]; ok {
		return e, true
	}
	if e, ok := t.byRoot[ingest.RootSKU(key)]; ok {
		return e, true
	}
	return MasterCostEntry{}, false
}

// courier brand aliases, checked as substrings of the raw shipping-provider
// cell; blank or unrecognized falls back to the standard-delivery key
var courierAliases = []struct {
	key     string
	needles []string
}{
	{constants.CourierKerry, []string{"kerry", "เคอรี่"}},
	{constants.CourierFlash, []string{"flash", "แฟลช"}},
	{constants.CourierJT, []string{"j&t", "jt express", "เจแอนด์ที"}},
	{constants.CourierEMS, []string{"ems", "thailand post", "ไปรษณีย์"}},
	{constants.CourierNinjaVan, []string{"ninja", "นินจา"}},
	{constants.CourierDHL, []string{"dhl"}},
	{constants.CourierBest, []string{"best", "เบสท์"}},
	{constants.CourierSPX, []string{"spx", "shopee xpress", "ช้อปปี้ เอ็กซ์เพรส"}},
}

// NormalizeCourier maps a raw courier string onto a canonical key.
func NormalizeCourier(raw string) string {
	v := strings.ToLower(ingest.NormalizeCell(raw))
	if v == "" {
		return constants.CourierStandard
	}
	for _, c := range courierAliases {
		for _, n := range c.needles {
			if strings.Contains(v, n) {
				return c.key
			}
		}
	}
	return constants.CourierStandard
}

// courierRate resolves the COD collection rate for a line: the normalized
// courier's rate, then the standard-delivery rate, then zero.
func courierRate(entry MasterCostEntry, rawCourier string) decimal.Decimal {
	key := NormalizeCourier(rawCourier)
	if r, ok := entry.CourierRates[key]; ok {
		return r
	}
	if r, ok := entry.CourierRates[constants.CourierStandard]; ok {
		return r
	}
	return decimal.Zero
}

var codIndicators = []string{"cod", "เก็บเงินปลายทาง"}

func isCOD(paymentMethod string) bool {
	v := strings.ToLower(paymentMethod)
	for _, ind := range codIndicators {
		if strings.Contains(v, ind) {
			return true
		}
	}
	return false
}

// Staff roles for commission attribution
const (
	RoleAdmin    = "ADMIN"
	RoleTelesale = "TELESALE"
	RoleUnknown  = "UNKNOWN"
)

var (
	adminKeywords    = []string{"admin", "แอดมิน"}
	telesaleKeywords = []string{"telesale", "เทเลเซล", "โทร"}
)

// ClassifyRole attributes a line to Admin or Telesale by substring-matching
// the work-type and creator fields. Admin keywords are checked first, so a
// line matching both is Admin.
func ClassifyRole(workType, creator string) string {
	haystack := strings.ToLower(workType + " " + creator)
	for _, kw := range adminKeywords {
		if strings.Contains(haystack, kw) {
			return RoleAdmin
		}
	}
	for _, kw := range telesaleKeywords {
		if strings.Contains(haystack, kw) {
			return RoleTelesale
		}
	}
	return RoleUnknown
}

var codVat = decimal.RequireFromString(constants.CODVatMultiplier)

// AttachCosts annotates each line with product cost, box cost, average
// delivery cost, COD surcharge and staff commission from the master cost
// snapshot. Lines with no master match at all get zero cost fields and
// still come back complete. Mutates and returns the slice.
func AttachCosts(lines []extract.LineItem, costs CostTable) []extract.LineItem {
	for i := range lines {
		line := &lines[i]
		entry, matched := costs.Lookup(line.SKU)
		if matched {
			qty := decimal.NewFromInt(int64(line.Quantity))
			line.ProductCost = entry.UnitCost.Mul(qty)
			line.BoxCost = entry.BoxCost
			line.DeliveryCost = entry.AvgDeliveryCost

			rate := courierRate(entry, line.Courier)
			if isCOD(line.PaymentMethod) && rate.IsPositive() {
				line.CODCost = line.SalesAmount.Mul(rate).Mul(codVat)
			} else {
				line.CODCost = decimal.Zero
			}

			switch ClassifyRole(line.WorkType, line.Creator) {
			case RoleAdmin:
				line.AdminCommission = line.SalesAmount.Mul(entry.CommissionAdminRate)
				line.TelesaleCommission = decimal.Zero
			case RoleTelesale:
				line.TelesaleCommission = line.SalesAmount.Mul(entry.CommissionTelesaleRate)
				line.AdminCommission = decimal.Zero
			default:
				line.AdminCommission = decimal.Zero
				line.TelesaleCommission = decimal.Zero
			}
		} else {
			line.ProductCost = decimal.Zero
			line.BoxCost = decimal.Zero
			line.DeliveryCost = decimal.Zero
			line.CODCost = decimal.Zero
			line.AdminCommission = decimal.Zero
			line.TelesaleCommission = decimal.Zero
		}
	}
	return lines
}
