package reconcile

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/pnl/extract"
	"SellerLedgerSaas/api/pnl/ingest"
)

// OrderRow is one customer order after collapsing its line items:
// first-value aggregation for shared attributes, sums for quantities and
// money fields.
type OrderRow struct {
	OrderID     string          `json:"order_id"`
	Date        time.Time       `json:"date"`
	SKU         string          `json:"sku"` // primary (first) SKU of the order
	ProductName string          `json:"product_name"`
	ShopName    string          `json:"shop_name"`
	Platform    string          `json:"platform"`
	Status      string          `json:"status"`
	Quantity    int             `json:"quantity"`
	Sales       decimal.Decimal `json:"sales"`
	Settlement  decimal.Decimal `json:"settlement"`
	Fees        decimal.Decimal `json:"fees"`
	Affiliate   decimal.Decimal `json:"affiliate"`

	ProductCost        decimal.Decimal `json:"product_cost"`
	BoxCost            decimal.Decimal `json:"box_cost"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	CODCost            decimal.Decimal `json:"cod_cost"`
	AdminCommission    decimal.Decimal `json:"admin_commission"`
	TelesaleCommission decimal.Decimal `json:"telesale_commission"`
}

// AdSpend is one advertising-spend record already attributed to a SKU.
type AdSpend struct {
	Date     time.Time       `json:"date"`
	SKU      string          `json:"sku"`
	Campaign string          `json:"campaign"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailyRow is the terminal per-(date, root SKU) P&L row.
type DailyRow struct {
	Date               time.Time       `json:"date"`
	SKU                string          `json:"sku"`
	OrderCount         int             `json:"order_count"`
	Quantity           int             `json:"quantity"`
	Sales              decimal.Decimal `json:"sales"`
	ProductCost        decimal.Decimal `json:"product_cost"`
	BoxCost            decimal.Decimal `json:"box_cost"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	CODCost            decimal.Decimal `json:"cod_cost"`
	AdminCommission    decimal.Decimal `json:"admin_commission"`
	TelesaleCommission decimal.Decimal `json:"telesale_commission"`
	AdSpendAmount      decimal.Decimal `json:"ad_spend"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	NetProfit          decimal.Decimal `json:"net_profit"`
}

// campaignSKURe captures the bracket-delimited SKU token marketers embed in
// campaign names, e.g. "MidYear Sale [ABC123] broad".
var campaignSKURe = regexp.MustCompile(`\[([^\]\[]+)\]`)

// ExtractCampaignSKU pulls the SKU token out of a campaign name; empty when
// the convention was not followed.
func ExtractCampaignSKU(campaign string) string {
	m := campaignSKURe.FindStringSubmatch(campaign)
	if len(m) < 2 {
		return ""
	}
	return ingest.NormalizeSKU(m[1])
}

// GroupOrders collapses annotated line items into per-order rows, stamping
// the canonical status on the way. Input order is preserved by first
// appearance of each order id.
func GroupOrders(lines []extract.LineItem) []OrderRow {
	byID := make(map[string]int, len(lines))
	out := make([]OrderRow, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		id := strings.TrimSpace(l.OrderID)
		idx, seen := byID[id]
		if !seen {
			byID[id] = len(out)
			out = append(out, OrderRow{
				OrderID:     id,
				Date:        l.CreatedDate,
				SKU:         l.SKU,
				ProductName: l.ProductName,
				ShopName:    l.ShopName,
				Platform:    l.Platform,
				Status:      l.RawStatus, // raw until the post-pass below
			})
			idx = len(out) - 1
		}
		o := &out[idx]
		o.Quantity += l.Quantity
		o.Sales = o.Sales.Add(l.SalesAmount)
		o.Settlement = o.Settlement.Add(l.Settlement)
		o.Fees = o.Fees.Add(l.Fees)
		o.Affiliate = o.Affiliate.Add(l.Affiliate)
		o.ProductCost = o.ProductCost.Add(l.ProductCost)
		o.BoxCost = o.BoxCost.Add(l.BoxCost)
		o.DeliveryCost = o.DeliveryCost.Add(l.DeliveryCost)
		o.CODCost = o.CODCost.Add(l.CODCost)
		o.AdminCommission = o.AdminCommission.Add(l.AdminCommission)
		o.TelesaleCommission = o.TelesaleCommission.Add(l.TelesaleCommission)
	}
	for i := range out {
		out[i].Status = NormalizeStatus(out[i].Settlement, out[i].Status)
	}
	return out
}

type dailyKey struct {
	date time.Time
	sku  string
}

// AggregateDaily rolls per-order rows up into per-(date, root SKU) rows and
// outer-merges matched ad spend: unmatched ad rows become spend-only rows
// with negative profit, unmatched sales rows get zero spend. Orders with no
// created date cannot be placed on a day and are left to the order-level
// view. Output is sorted by date then SKU.
func AggregateDaily(orders []OrderRow, ads []AdSpend) []DailyRow {
	rows := make(map[dailyKey]*DailyRow)
	keys := make([]dailyKey, 0)

	get := func(k dailyKey) *DailyRow {
		if r, ok := rows[k]; ok {
			return r
		}
		r := &DailyRow{Date: k.date, SKU: k.sku}
		rows[k] = r
		keys = append(keys, k)
		return r
	}

	for i := range orders {
		o := &orders[i]
		if o.Date.IsZero() {
			continue
		}
		k := dailyKey{date: o.Date, sku: ingest.RootSKU(ingest.NormalizeSKU(o.SKU))}
		r := get(k)
		r.OrderCount++
		r.Quantity += o.Quantity
		r.Sales = r.Sales.Add(o.Sales)
		r.ProductCost = r.ProductCost.Add(o.ProductCost)
		r.BoxCost = r.BoxCost.Add(o.BoxCost)
		r.DeliveryCost = r.DeliveryCost.Add(o.DeliveryCost)
		r.CODCost = r.CODCost.Add(o.CODCost)
		r.AdminCommission = r.AdminCommission.Add(o.AdminCommission)
		r.TelesaleCommission = r.TelesaleCommission.Add(o.TelesaleCommission)
	}

	for i := range ads {
		a := &ads[i]
		if a.Date.IsZero() {
			continue
		}
		sku := a.SKU
		if sku == "" {
			sku = ExtractCampaignSKU(a.Campaign)
		}
		k := dailyKey{date: a.Date, sku: ingest.RootSKU(ingest.NormalizeSKU(sku))}
		r := get(k)
		r.AdSpendAmount = r.AdSpendAmount.Add(a.Amount)
	}

	out := make([]DailyRow, 0, len(keys))
	for _, k := range keys {
		r := rows[k]
		r.TotalCost = r.ProductCost.
			Add(r.BoxCost).
			Add(r.DeliveryCost).
			Add(r.CODCost).
			Add(r.AdminCommission).
			Add(r.TelesaleCommission).
			Add(r.AdSpendAmount)
		r.NetProfit = r.Sales.Sub(r.TotalCost)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}
