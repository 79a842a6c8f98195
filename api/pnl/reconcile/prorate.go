package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/pnl/extract"
)

// moneyScale is the rounding scale for pro-rated allocations.
const moneyScale = 4

// MergeAndProrate left-joins canonical line items to order-level income
// records by order id and distributes settlement, fees and affiliate across
// an order's lines proportionally to each line's share of the order's
// sales. The last line of each order absorbs the rounding remainder, so
// re-summing a pro-rated order always recovers the original order-level
// totals exactly. Lines with no income match get explicit zeros, never
// nulls. Mutates and returns the slice.
func MergeAndProrate(lines []extract.LineItem, incomes []extract.IncomeRecord) []extract.LineItem {
	byOrder := make(map[string]extract.IncomeRecord, len(incomes))
	for _, inc := range incomes {
		byOrder[strings.TrimSpace(inc.OrderID)] = inc
	}

	lineIdx := make(map[string][]int, len(lines))
	orderIDs := make([]string, 0, len(lines))
	for i := range lines {
		id := strings.TrimSpace(lines[i].OrderID)
		if _, seen := lineIdx[id]; !seen {
			orderIDs = append(orderIDs, id)
		}
		lineIdx[id] = append(lineIdx[id], i)
	}

	for _, id := range orderIDs {
		idxs := lineIdx[id]
		inc, matched := byOrder[id]
		if !matched {
			for _, i := range idxs {
				lines[i].Settlement = decimal.Zero
				lines[i].Fees = decimal.Zero
				lines[i].Affiliate = decimal.Zero
			}
			continue
		}

		total := decimal.Zero
		for _, i := range idxs {
			total = total.Add(lines[i].SalesAmount)
		}
		// zero order total (free-gift lines): substitute a safe divisor; all
		// shares round to zero and the remainder rule lands the full amount
		// on the last line
		divisor := total
		if divisor.IsZero() {
			divisor = decimal.NewFromInt(1)
		}

		allocatedS, allocatedF, allocatedA := decimal.Zero, decimal.Zero, decimal.Zero
		for n, i := range idxs {
			if n == len(idxs)-1 {
				lines[i].Settlement = inc.Settlement.Sub(allocatedS)
				lines[i].Fees = inc.Fees.Sub(allocatedF)
				lines[i].Affiliate = inc.Affiliate.Sub(allocatedA)
				break
			}
			share := lines[i].SalesAmount.Div(divisor)
			s := inc.Settlement.Mul(share).Round(moneyScale)
			f := inc.Fees.Mul(share).Round(moneyScale)
			a := inc.Affiliate.Mul(share).Round(moneyScale)
			lines[i].Settlement = s
			lines[i].Fees = f
			lines[i].Affiliate = a
			allocatedS = allocatedS.Add(s)
			allocatedF = allocatedF.Add(f)
			allocatedA = allocatedA.Add(a)
		}
	}
	return lines
}
