package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/pnl/extract"
)

// Canonical order states
const (
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusReturned  = "RETURNED"
	StatusPending   = "PENDING"
)

var (
	cancelKeywords = []string{"cancel", "ยกเลิก"}
	returnKeywords = []string{"return", "refund", "bounce", "ตีกลับ", "คืนสินค้า", "คืนเงิน"}
)

// NormalizeStatus classifies a line into one of four canonical states,
// evaluated in fixed priority order. Settlement presence is the strongest
// signal: a settled order is Completed no matter what the raw status text
// says. Pending is the terminal fallback and covers both "shipped, awaiting
// settlement" and "unknown" since the sources do not distinguish them.
func NormalizeStatus(settlement decimal.Decimal, rawStatus string) string {
	if settlement.IsPositive() {
		return StatusCompleted
	}
	v := strings.ToLower(strings.TrimSpace(rawStatus))
	for _, kw := range cancelKeywords {
		if strings.Contains(v, kw) {
			return StatusCancelled
		}
	}
	for _, kw := range returnKeywords {
		if strings.Contains(v, kw) {
			return StatusReturned
		}
	}
	return StatusPending
}

// ApplyStatus stamps the canonical status on every line. Runs after
// pro-rating so the settlement signal is already in place; re-evaluated on
// each full pipeline run, nothing is persisted between runs.
func ApplyStatus(lines []extract.LineItem) []extract.LineItem {
	for i := range lines {
		lines[i].Status = NormalizeStatus(lines[i].Settlement, lines[i].RawStatus)
	}
	return lines
}
