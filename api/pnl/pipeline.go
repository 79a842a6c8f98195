package pnl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/master"
	"SellerLedgerSaas/api/pnl/extract"
	"SellerLedgerSaas/api/pnl/reconcile"
	"SellerLedgerSaas/internal/logger"
)

// PipelineConfig is the explicit per-run configuration: which platforms and
// shops to reconcile and over which created-date window. No ambient state
// drives a run.
type PipelineConfig struct {
	Platforms []string            `json:"platforms"`
	Shops     map[string][]string `json:"shops_per_platform,omitempty"`
	DateFrom  string              `json:"date_from,omitempty"` // YYYY-MM-DD, inclusive
	DateTo    string              `json:"date_to,omitempty"`   // YYYY-MM-DD, inclusive
}

// RunSummary reports what a pipeline run produced.
type RunSummary struct {
	Platforms      []string        `json:"platforms"`
	LineItems      int             `json:"line_items"`
	Orders         int             `json:"orders"`
	DailyRows      int             `json:"daily_rows"`
	SettledOrders  int             `json:"settled_orders"`
	MatchedIncome  int             `json:"matched_income_records"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalNetProfit decimal.Decimal `json:"total_net_profit"`
	StartedAt      time.Time       `json:"started_at"`
	DurationMS     int64           `json:"duration_ms"`
}

// ErrNoData marks a run that found no staged order lines for the requested
// scope. The previously persisted result is left untouched.
var ErrNoData = errors.New(constants.ErrNothingToAggregate)

func (c *PipelineConfig) normalize() {
	if len(c.Platforms) == 0 {
		c.Platforms = []string{constants.PlatformTikTok, constants.PlatformShopee, constants.PlatformLazada}
	}
	for i := range c.Platforms {
		c.Platforms[i] = strings.ToUpper(strings.TrimSpace(c.Platforms[i]))
	}
}

// RunForConfig executes the full reconciliation for the staged data of the
// requested platforms/shops: merge and pro-rate income onto order lines,
// attach costs and commissions, classify status, aggregate per order and
// per day, then replace-write the order_pnl and daily_pnl tables in one
// transaction. Extraction problems never reach this function; a persistence
// failure aborts the run and keeps the previous result.
func RunForConfig(ctx context.Context, pool *pgxpool.Pool, cfg PipelineConfig) (RunSummary, error) {
	start := time.Now()
	cfg.normalize()
	sum := RunSummary{Platforms: cfg.Platforms, StartedAt: start}

	costs, err := master.LoadCostTable(ctx, pool)
	if err != nil {
		return sum, fmt.Errorf("load master cost table: %w", err)
	}
	ads, err := master.LoadAdSpend(ctx, pool, cfg.DateFrom, cfg.DateTo)
	if err != nil {
		return sum, fmt.Errorf("load ad spend: %w", err)
	}

	var allOrders []reconcile.OrderRow
	var allLines []extract.LineItem
	for _, platform := range cfg.Platforms {
		lines, err := loadOrderLines(ctx, pool, platform, cfg)
		if err != nil {
			return sum, fmt.Errorf("load order lines (%s): %w", platform, err)
		}
		if len(lines) == 0 {
			continue
		}
		incomes, err := loadIncomeRecords(ctx, pool, platform, cfg)
		if err != nil {
			return sum, fmt.Errorf("load income records (%s): %w", platform, err)
		}
		sum.MatchedIncome += len(incomes)

		lines = reconcile.MergeAndProrate(lines, incomes)
		lines = reconcile.AttachCosts(lines, costs)
		lines = reconcile.ApplyStatus(lines)
		orders := reconcile.GroupOrders(lines)

		allLines = append(allLines, lines...)
		allOrders = append(allOrders, orders...)
	}
	sum.LineItems = len(allLines)
	sum.Orders = len(allOrders)
	if sum.LineItems == 0 {
		// keep the previous result instead of replace-writing empty tables
		return sum, ErrNoData
	}

	daily := reconcile.AggregateDaily(allOrders, ads)
	sum.DailyRows = len(daily)
	for i := range allOrders {
		if allOrders[i].Status == reconcile.StatusCompleted {
			sum.SettledOrders++
		}
	}
	for i := range daily {
		sum.TotalSales = sum.TotalSales.Add(daily[i].Sales)
		sum.TotalCost = sum.TotalCost.Add(daily[i].TotalCost)
		sum.TotalNetProfit = sum.TotalNetProfit.Add(daily[i].NetProfit)
	}

	if err := persistRun(ctx, pool, allOrders, daily); err != nil {
		return sum, fmt.Errorf("persist run: %w", err)
	}

	sum.DurationMS = time.Since(start).Milliseconds()
	log.Printf("[INFO] pipeline run: %d lines -> %d orders -> %d daily rows in %dms",
		sum.LineItems, sum.Orders, sum.DailyRows, sum.DurationMS)
	logger.Auditf("pipeline run platforms=%v line_items=%d orders=%d daily_rows=%d duration_ms=%d",
		cfg.Platforms, sum.LineItems, sum.Orders, sum.DailyRows, sum.DurationMS)
	return sum, nil
}

func (c PipelineConfig) shopAllowed(platform, shop string) bool {
	if len(c.Shops) == 0 {
		return true
	}
	shops, ok := c.Shops[platform]
	if !ok || len(shops) == 0 {
		return true
	}
	for _, s := range shops {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(shop)) {
			return true
		}
	}
	return false
}

func loadOrderLines(ctx context.Context, pool *pgxpool.Pool, platform string, cfg PipelineConfig) ([]extract.LineItem, error) {
	rows, err := pool.Query(ctx, `
		SELECT order_id, raw_status, sku, quantity, sales_amount,
		       created_date, shipped_date, tracking_id, product_name,
		       shop_name, payment_method, courier, creator, work_type
		FROM sellerledger.order_lines
		WHERE platform = $1
		  AND ($2 = '' OR created_date IS NULL OR created_date >= $2::date)
		  AND ($3 = '' OR created_date IS NULL OR created_date <= $3::date)
	`, platform, cfg.DateFrom, cfg.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []extract.LineItem
	for rows.Next() {
		var li extract.LineItem
		var created, shipped *time.Time
		var sales decimal.Decimal
		if err := rows.Scan(&li.OrderID, &li.RawStatus, &li.SKU, &li.Quantity, &sales,
			&created, &shipped, &li.TrackingID, &li.ProductName,
			&li.ShopName, &li.PaymentMethod, &li.Courier, &li.Creator, &li.WorkType); err != nil {
			return nil, err
		}
		li.SalesAmount = sales
		if created != nil {
			li.CreatedDate = *created
		}
		if shipped != nil {
			li.ShippedDate = *shipped
		}
		li.Platform = platform
		if !cfg.shopAllowed(platform, li.ShopName) {
			continue
		}
		out = append(out, li)
	}
	return out, rows.Err()
}

func loadIncomeRecords(ctx context.Context, pool *pgxpool.Pool, platform string, cfg PipelineConfig) ([]extract.IncomeRecord, error) {
	rows, err := pool.Query(ctx, `
		SELECT order_id, settlement_amount, fees, affiliate, settled_date, shop_name
		FROM sellerledger.income_records
		WHERE platform = $1
	`, platform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []extract.IncomeRecord
	for rows.Next() {
		var rec extract.IncomeRecord
		var settled *time.Time
		var shop string
		if err := rows.Scan(&rec.OrderID, &rec.Settlement, &rec.Fees, &rec.Affiliate, &settled, &shop); err != nil {
			return nil, err
		}
		if settled != nil {
			rec.SettledDate = *settled
		}
		if !cfg.shopAllowed(platform, shop) {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// persistRun replace-writes both result tables inside a single transaction:
// DELETE then CopyFrom, so a re-run with fewer inputs never leaves stale
// rows behind and readers only ever see a complete result.
func persistRun(ctx context.Context, pool *pgxpool.Pool, orders []reconcile.OrderRow, daily []reconcile.DailyRow) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s%w", constants.ErrTxStartFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM sellerledger.order_pnl`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sellerledger.daily_pnl`); err != nil {
		return err
	}

	orderRows := make([][]interface{}, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		orderRows = append(orderRows, []interface{}{
			o.OrderID, nullableDate(o.Date), o.SKU, o.ProductName, o.ShopName, o.Platform, o.Status,
			o.Quantity, o.Sales, o.Settlement, o.Fees, o.Affiliate,
			o.ProductCost, o.BoxCost, o.DeliveryCost, o.CODCost, o.AdminCommission, o.TelesaleCommission,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sellerledger", "order_pnl"},
		[]string{"order_id", "order_date", "sku", "product_name", "shop_name", "platform", "status",
			"quantity", "sales", "settlement", "fees", "affiliate",
			"product_cost", "box_cost", "delivery_cost", "cod_cost", "admin_commission", "telesale_commission"},
		pgx.CopyFromRows(orderRows)); err != nil {
		return fmt.Errorf("copy order_pnl: %w", err)
	}

	dailyRows := make([][]interface{}, 0, len(daily))
	for i := range daily {
		d := &daily[i]
		dailyRows = append(dailyRows, []interface{}{
			d.Date, d.SKU, d.OrderCount, d.Quantity, d.Sales,
			d.ProductCost, d.BoxCost, d.DeliveryCost, d.CODCost,
			d.AdminCommission, d.TelesaleCommission, d.AdSpendAmount,
			d.TotalCost, d.NetProfit,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sellerledger", "daily_pnl"},
		[]string{"pnl_date", "sku", "order_count", "quantity", "sales",
			"product_cost", "box_cost", "delivery_cost", "cod_cost",
			"admin_commission", "telesale_commission", "ad_spend",
			"total_cost", "net_profit"},
		pgx.CopyFromRows(dailyRows)); err != nil {
		return fmt.Errorf("copy daily_pnl: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s%w", constants.ErrTxCommitFailed, err)
	}
	committed = true
	return nil
}

func nullableDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
