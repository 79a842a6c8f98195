package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/ingest"
)

// Sentinel errors mapped to user-friendly messages at the upload layer
var (
	ErrOrderColumnMissing = errors.New("order id column not found")
	ErrUnknownPlatform    = errors.New("unknown platform")
)

// LineItem is the canonical order line every platform extractor normalizes
// into. Financial fields below the marker are zero until the reconcile
// stage fills them; everything above is immutable after extraction.
type LineItem struct {
	OrderID     string          `json:"order_id"`
	RawStatus   string          `json:"raw_status"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	SalesAmount decimal.Decimal `json:"sales_amount"`
	CreatedDate time.Time       `json:"created_date"` // zero = unknown, row is kept
	ShippedDate time.Time       `json:"shipped_date"`
	TrackingID  string          `json:"tracking_id"`
	ProductName string          `json:"product_name"`
	ShopName    string          `json:"shop_name"`
	Platform    string          `json:"platform"`

	PaymentMethod string `json:"payment_method"`
	Courier       string `json:"courier"`
	Creator       string `json:"creator"`
	WorkType      string `json:"work_type"`

	// ---- filled by reconcile ----
	Settlement decimal.Decimal `json:"settlement_amount"`
	Fees       decimal.Decimal `json:"fees"`
	Affiliate  decimal.Decimal `json:"affiliate"`

	ProductCost        decimal.Decimal `json:"product_cost"`
	BoxCost            decimal.Decimal `json:"box_cost"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	CODCost            decimal.Decimal `json:"cod_cost"`
	AdminCommission    decimal.Decimal `json:"admin_commission"`
	TelesaleCommission decimal.Decimal `json:"telesale_commission"`
	Status             string          `json:"status"`
}

// IncomeRecord is the canonical order-level settlement row. OrderID is
// unique after the per-platform dedup pass.
type IncomeRecord struct {
	OrderID     string          `json:"order_id"`
	Settlement  decimal.Decimal `json:"settlement_amount"`
	Fees        decimal.Decimal `json:"fees"`
	Affiliate   decimal.Decimal `json:"affiliate"`
	SettledDate time.Time       `json:"settled_date"`
}

// OrderFileResult is the per-file outcome of an order extraction. A non-nil
// Err means the whole file was skipped; processing of other files continues.
type OrderFileResult struct {
	FileName string     `json:"file_name"`
	Items    []LineItem `json:"-"`
	RowCount int        `json:"row_count"`
	Warnings []string   `json:"warnings,omitempty"`
	Err      error      `json:"-"`
}

// IncomeFileResult is the per-file outcome of an income extraction.
type IncomeFileResult struct {
	FileName string         `json:"file_name"`
	Records  []IncomeRecord `json:"-"`
	RowCount int            `json:"row_count"`
	Warnings []string       `json:"warnings,omitempty"`
	Err      error          `json:"-"`
}

// DedupStrategy controls how duplicate order ids across income files of one
// platform are collapsed. The platform defaults reproduce observed
// seller-center behavior and are deliberately not unified.
type DedupStrategy int

const (
	// DedupSum adds duplicate rows together (TikTok: one order can appear in
	// overlapping settlement exports).
	DedupSum DedupStrategy = iota
	// DedupKeepFirst keeps the first row seen and drops the rest (Shopee).
	DedupKeepFirst
)

// garbageOrderID reports the trailing summary rows some exports append,
// recognizable by the platform's own name inside the order-id cell.
func garbageOrderID(orderID string) bool {
	return strings.Contains(strings.ToLower(orderID), constants.GarbageOrderIDToken)
}

// dedupIncome collapses duplicate order ids per the strategy, preserving
// first-seen order.
func dedupIncome(records []IncomeRecord, strategy DedupStrategy) []IncomeRecord {
	byID := make(map[string]int, len(records))
	out := make([]IncomeRecord, 0, len(records))
	for _, rec := range records {
		idx, seen := byID[rec.OrderID]
		if !seen {
			byID[rec.OrderID] = len(out)
			out = append(out, rec)
			continue
		}
		if strategy == DedupSum {
			out[idx].Settlement = out[idx].Settlement.Add(rec.Settlement)
			out[idx].Fees = out[idx].Fees.Add(rec.Fees)
			out[idx].Affiliate = out[idx].Affiliate.Add(rec.Affiliate)
			if out[idx].SettledDate.IsZero() {
				out[idx].SettledDate = rec.SettledDate
			}
		}
	}
	return out
}

// Orders dispatches to the platform order extractor.
func Orders(platform, fileName string, rows [][]string, shopName string) OrderFileResult {
	switch strings.ToUpper(strings.TrimSpace(platform)) {
	case constants.PlatformTikTok:
		return TikTokOrders(fileName, rows, shopName)
	case constants.PlatformShopee:
		return ShopeeOrders(fileName, rows, shopName)
	case constants.PlatformLazada:
		return LazadaOrders(fileName, rows, shopName)
	}
	return OrderFileResult{FileName: fileName, Err: ErrUnknownPlatform}
}

// Income dispatches to the platform income extractor. Rows from multiple
// files of one request must be concatenated by the caller before the dedup
// pass; see IncomeBatch.
func Income(platform, fileName string, rows [][]string) IncomeFileResult {
	switch strings.ToUpper(strings.TrimSpace(platform)) {
	case constants.PlatformTikTok:
		return TikTokIncome(fileName, rows)
	case constants.PlatformShopee:
		return ShopeeIncome(fileName, rows)
	case constants.PlatformLazada:
		return LazadaIncome(fileName, rows)
	}
	return IncomeFileResult{FileName: fileName, Err: ErrUnknownPlatform}
}

// IncomeBatch applies the cross-file dedup for a platform over the
// already-extracted per-file results. Strategy defaults per platform when
// the caller passes a negative value.
func IncomeBatch(platform string, results []IncomeFileResult, strategy DedupStrategy) []IncomeRecord {
	all := make([]IncomeRecord, 0)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		all = append(all, res.Records...)
	}
	if strategy < 0 {
		strategy = DefaultDedup(platform)
	}
	return dedupIncome(all, strategy)
}

// DefaultDedup returns the observed seller-center behavior per platform.
// Lazada dedups inside its own extractor (sign-split grouping), so batch
// level keep-first only guards against the same file uploaded twice.
func DefaultDedup(platform string) DedupStrategy {
	switch strings.ToUpper(strings.TrimSpace(platform)) {
	case constants.PlatformTikTok:
		return DedupSum
	default:
		return DedupKeepFirst
	}
}

// cellOrDefault reads a resolved column with a fallback for absent columns
// and ragged rows.
func cellOrDefault(t ingest.Table, row []string, idx int, def string) string {
	v := ingest.NormalizeCell(t.Cell(row, idx))
	if v == "" {
		return def
	}
	return v
}
