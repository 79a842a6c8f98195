package dash

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api"
	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/utils"
)

// window reads the optional inclusive date filters off the query string.
// Empty strings mean unbounded; bad formats are reported, not guessed at.
func window(r *http.Request) (string, string, bool) {
	q := r.URL.Query()
	from, to := q.Get("date_from"), q.Get("date_to")
	for _, v := range []string{from, to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(constants.DateFormat, v); err != nil {
			return "", "", false
		}
	}
	return from, to, true
}

// GetDailyPnL returns the per-(date, SKU) P&L rows, newest date first.
func GetDailyPnL(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := window(r)
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidDateFilter)
			return
		}
		sku := r.URL.Query().Get("sku")
		rows, err := db.QueryContext(r.Context(), `
			SELECT pnl_date, sku, order_count, quantity, sales,
			       product_cost, box_cost, delivery_cost, cod_cost,
			       admin_commission, telesale_commission, ad_spend,
			       total_cost, net_profit
			FROM sellerledger.daily_pnl
			WHERE ($1 = '' OR pnl_date >= $1::date)
			  AND ($2 = '' OR pnl_date <= $2::date)
			  AND ($3 = '' OR sku = $3)
			ORDER BY pnl_date DESC, sku
		`, from, to, sku)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		out := []map[string]interface{}{}
		for rows.Next() {
			var d time.Time
			var rowSKU string
			var orderCount, quantity int
			var sales, productCost, boxCost, deliveryCost, codCost decimal.Decimal
			var adminComm, teleComm, adSpend, totalCost, netProfit decimal.Decimal
			if err := rows.Scan(&d, &rowSKU, &orderCount, &quantity, &sales,
				&productCost, &boxCost, &deliveryCost, &codCost,
				&adminComm, &teleComm, &adSpend, &totalCost, &netProfit); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			out = append(out, map[string]interface{}{
				"date":                d.Format(constants.DateFormat),
				"sku":                 rowSKU,
				"order_count":         orderCount,
				"quantity":            quantity,
				"sales":               sales,
				"product_cost":        productCost,
				"box_cost":            boxCost,
				"delivery_cost":       deliveryCost,
				"cod_cost":            codCost,
				"admin_commission":    adminComm,
				"telesale_commission": teleComm,
				"ad_spend":            adSpend,
				"total_cost":          totalCost,
				"net_profit":          netProfit,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// GetPnLSummary returns KPI totals for the window.
func GetPnLSummary(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := window(r)
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidDateFilter)
			return
		}
		var orderCount, quantity int
		var sales, totalCost, adSpend, netProfit decimal.Decimal
		err := db.QueryRowContext(r.Context(), `
			SELECT COALESCE(SUM(order_count), 0), COALESCE(SUM(quantity), 0),
			       COALESCE(SUM(sales), 0), COALESCE(SUM(total_cost), 0),
			       COALESCE(SUM(ad_spend), 0), COALESCE(SUM(net_profit), 0)
			FROM sellerledger.daily_pnl
			WHERE ($1 = '' OR pnl_date >= $1::date)
			  AND ($2 = '' OR pnl_date <= $2::date)
		`, from, to).Scan(&orderCount, &quantity, &sales, &totalCost, &adSpend, &netProfit)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		margin := decimal.Zero
		if !sales.IsZero() {
			margin = netProfit.Div(sales).Mul(decimal.NewFromInt(100)).Round(2)
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"order_count":    orderCount,
			"quantity":       quantity,
			"sales":          sales,
			"total_cost":     totalCost,
			"ad_spend":       adSpend,
			"net_profit":     netProfit,
			"margin_percent": margin,
		})
	}
}

// GetPnLBySKU returns the window's P&L grouped per root SKU, most profitable
// first.
func GetPnLBySKU(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := window(r)
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidDateFilter)
			return
		}
		rows, err := db.QueryContext(r.Context(), `
			SELECT sku, SUM(order_count), SUM(quantity), SUM(sales),
			       SUM(ad_spend), SUM(total_cost), SUM(net_profit)
			FROM sellerledger.daily_pnl
			WHERE ($1 = '' OR pnl_date >= $1::date)
			  AND ($2 = '' OR pnl_date <= $2::date)
			GROUP BY sku
			ORDER BY SUM(net_profit) DESC
		`, from, to)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		out := []map[string]interface{}{}
		for rows.Next() {
			var sku string
			var orderCount, quantity int
			var sales, adSpend, totalCost, netProfit decimal.Decimal
			if err := rows.Scan(&sku, &orderCount, &quantity, &sales, &adSpend, &totalCost, &netProfit); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			out = append(out, map[string]interface{}{
				"sku":         sku,
				"order_count": orderCount,
				"quantity":    quantity,
				"sales":       sales,
				"ad_spend":    adSpend,
				"total_cost":  totalCost,
				"net_profit":  netProfit,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// GetPnLByPlatform splits the window's reconciled orders per platform.
// Daily rows aggregate across platforms, so this reads order_pnl instead.
func GetPnLByPlatform(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := window(r)
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidDateFilter)
			return
		}
		rows, err := db.QueryContext(r.Context(), `
			SELECT platform, COUNT(*), SUM(quantity), SUM(sales), SUM(settlement),
			       SUM(sales) - SUM(product_cost + box_cost + delivery_cost + cod_cost
			           + admin_commission + telesale_commission + fees + affiliate)
			FROM sellerledger.order_pnl
			WHERE ($1 = '' OR order_date >= $1::date)
			  AND ($2 = '' OR order_date <= $2::date)
			GROUP BY platform
			ORDER BY platform
		`, from, to)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		out := []map[string]interface{}{}
		for rows.Next() {
			var platform string
			var orderCount, quantity int
			var sales, settlement, grossProfit decimal.Decimal
			if err := rows.Scan(&platform, &orderCount, &quantity, &sales, &settlement, &grossProfit); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			out = append(out, map[string]interface{}{
				"platform":     platform,
				"order_count":  orderCount,
				"quantity":     quantity,
				"sales":        sales,
				"settlement":   settlement,
				"gross_profit": grossProfit,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

// GetOrderPnL returns reconciled order rows, filterable by platform, shop
// and status.
func GetOrderPnL(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := window(r)
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidDateFilter)
			return
		}
		q := r.URL.Query()
		page, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter := ` WHERE ($1 = '' OR order_date >= $1::date)
			  AND ($2 = '' OR order_date <= $2::date)
			  AND ($3 = '' OR platform = UPPER($3))
			  AND ($4 = '' OR shop_name = $4)
			  AND ($5 = '' OR status = UPPER($5))`
		args := []interface{}{from, to, q.Get("platform"), q.Get("shop_name"), q.Get("status")}
		total, err := utils.CountTotal(db, `SELECT COUNT(*) FROM sellerledger.order_pnl`+filter, args...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		page.SetPaginationStats(total)
		rows, err := db.QueryContext(r.Context(), `
			SELECT order_id, order_date, sku, product_name, shop_name, platform, status,
			       quantity, sales, settlement, fees, affiliate,
			       product_cost, box_cost, delivery_cost, cod_cost,
			       admin_commission, telesale_commission
			FROM sellerledger.order_pnl`+filter+`
			ORDER BY order_date DESC, order_id
			LIMIT $6 OFFSET $7
		`, append(args, page.Limit, page.Offset)...)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()

		out := []map[string]interface{}{}
		for rows.Next() {
			var orderID, sku, productName, shopName, platform, status string
			var orderDate sql.NullTime
			var quantity int
			var sales, settlement, fees, affiliate decimal.Decimal
			var productCost, boxCost, deliveryCost, codCost, adminComm, teleComm decimal.Decimal
			if err := rows.Scan(&orderID, &orderDate, &sku, &productName, &shopName, &platform, &status,
				&quantity, &sales, &settlement, &fees, &affiliate,
				&productCost, &boxCost, &deliveryCost, &codCost, &adminComm, &teleComm); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			date := ""
			if orderDate.Valid {
				date = orderDate.Time.Format(constants.DateFormat)
			}
			out = append(out, map[string]interface{}{
				"order_id":            orderID,
				"order_date":          date,
				"sku":                 sku,
				"product_name":        productName,
				"shop_name":           shopName,
				"platform":            platform,
				"status":              status,
				"quantity":            quantity,
				"sales":               sales,
				"settlement":          settlement,
				"fees":                fees,
				"affiliate":           affiliate,
				"product_cost":        productCost,
				"box_cost":            boxCost,
				"delivery_cost":       deliveryCost,
				"cod_cost":            codCost,
				"admin_commission":    adminComm,
				"telesale_commission": teleComm,
			})
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"pagination": page,
			"orders":     out,
		})
	}
}
