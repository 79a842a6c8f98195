package master

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api"
	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/ingest"
	"SellerLedgerSaas/api/pnl/reconcile"
)

// master cost sheet headers (Thai sheets first, English fallbacks after)
var (
	costHeaderKeywords = []string{"sku", "ต้นทุน", "cost"}

	costSKUAliases      = []string{"SKU", "รหัสสินค้า"}
	costNameAliases     = []string{"ชื่อสินค้า", "Product Name", "Name"}
	costTypeAliases     = []string{"ประเภทสินค้า", "Product Type", "Type"}
	costUnitAliases     = []string{"ต้นทุนต่อหน่วย", "ต้นทุน", "Unit Cost", "Cost"}
	costBoxAliases      = []string{"ค่ากล่อง", "Box Cost"}
	costDeliveryAliases = []string{"ค่าส่งเฉลี่ย", "Avg Delivery Cost", "Delivery Cost"}
	costAdminAliases    = []string{"คอมแอดมิน", "Admin Commission", "Commission Admin"}
	costTelesaleAliases = []string{"คอมเทเลเซล", "Telesale Commission", "Commission Telesale"}
)

// courier rate columns on the master sheet, keyed by canonical courier key
var costCourierAliases = map[string][]string{
	constants.CourierKerry:    {"Kerry", "เคอรี่"},
	constants.CourierFlash:    {"Flash", "แฟลช"},
	constants.CourierJT:       {"J&T", "JT"},
	constants.CourierEMS:      {"EMS", "ไปรษณีย์"},
	constants.CourierNinjaVan: {"Ninja Van", "Ninja"},
	constants.CourierDHL:      {"DHL"},
	constants.CourierBest:     {"Best", "เบสท์"},
	constants.CourierSPX:      {"SPX", "Shopee Xpress"},
	constants.CourierStandard: {"Standard", "ส่งธรรมดา", "Standard Delivery"},
}

// ParseCostSheet maps an uploaded master cost sheet into entries. Rate
// columns tolerate "%" strings; garbage cells coerce to zero.
func ParseCostSheet(rows [][]string) ([]reconcile.MasterCostEntry, error) {
	hdr := ingest.DetectHeaderRow(rows, costHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	skuCol, ok := t.ResolveColumn(costSKUAliases...)
	if !ok {
		return nil, fmt.Errorf("%s", constants.ErrMasterSheetNoSKU)
	}
	nameCol, _ := t.ResolveColumn(costNameAliases...)
	typeCol, _ := t.ResolveColumn(costTypeAliases...)
	unitCol, _ := t.ResolveColumn(costUnitAliases...)
	boxCol, _ := t.ResolveColumn(costBoxAliases...)
	delivCol, _ := t.ResolveColumn(costDeliveryAliases...)
	adminCol, _ := t.ResolveColumn(costAdminAliases...)
	teleCol, _ := t.ResolveColumn(costTelesaleAliases...)

	courierCols := make(map[string]int, len(costCourierAliases))
	for key, aliases := range costCourierAliases {
		if idx, found := t.ResolveColumn(aliases...); found {
			courierCols[key] = idx
		}
	}

	var entries []reconcile.MasterCostEntry
	for _, row := range t.Rows {
		if ingest.AllEmptyRow(row) {
			continue
		}
		sku := ingest.NormalizeSKU(t.Cell(row, skuCol))
		if sku == "" {
			continue
		}
		e := reconcile.MasterCostEntry{
			SKU:                    sku,
			Name:                   ingest.NormalizeCell(t.Cell(row, nameCol)),
			Type:                   ingest.NormalizeCell(t.Cell(row, typeCol)),
			UnitCost:               ingest.ParseAmount(t.Cell(row, unitCol)),
			BoxCost:                ingest.ParseAmount(t.Cell(row, boxCol)),
			AvgDeliveryCost:        ingest.ParseAmount(t.Cell(row, delivCol)),
			CommissionAdminRate:    ingest.ParseRate(t.Cell(row, adminCol)),
			CommissionTelesaleRate: ingest.ParseRate(t.Cell(row, teleCol)),
			CourierRates:           make(map[string]decimal.Decimal, len(courierCols)),
		}
		// a courier whose cell is absent or unreadable stays out of the
		// map, so COD costing falls back to the standard rate
		for key, idx := range courierCols {
			if r, ok := ingest.ParseRateCell(t.Cell(row, idx)); ok {
				e.CourierRates[key] = r
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// courierRateColumns fixes the order of the rate_* columns for both the
// copy and the scan side.
var courierRateColumns = []string{
	constants.CourierKerry, constants.CourierFlash, constants.CourierJT,
	constants.CourierEMS, constants.CourierNinjaVan, constants.CourierDHL,
	constants.CourierBest, constants.CourierSPX, constants.CourierStandard,
}

// courierCopyValues persists NULL for couriers the sheet gave no usable
// rate, so the load side can tell "absent" from an explicit zero and the
// standard-rate fallback survives the round trip.
func courierCopyValues(e reconcile.MasterCostEntry) []interface{} {
	vals := make([]interface{}, 0, len(courierRateColumns))
	for _, key := range courierRateColumns {
		if r, ok := e.CourierRates[key]; ok {
			vals = append(vals, r)
		} else {
			vals = append(vals, nil)
		}
	}
	return vals
}

// courierRatesFromScan rebuilds the rate map from scanned columns, keeping
// NULLs out of it.
func courierRatesFromScan(scanned []*decimal.Decimal) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(courierRateColumns))
	for i, key := range courierRateColumns {
		if scanned[i] != nil {
			rates[key] = *scanned[i]
		}
	}
	return rates
}

// UploadProductCosts replaces the master product-cost table with the
// uploaded sheet inside one transaction.
func UploadProductCosts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFilesUploaded)
			return
		}
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "Failed to open file: "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileParseFailed)
			return
		}
		rows, err := ingest.ParseUploadFile(data)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileParseFailed)
			return
		}
		entries, err := ParseCostSheet(rows)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := r.Context()
		tx, err := pool.Begin(ctx)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxStartFailed+err.Error())
			return
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback(ctx)
			}
		}()

		if _, err := tx.Exec(ctx, `DELETE FROM sellerledger.masterproductcost`); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		copyRows := make([][]interface{}, 0, len(entries))
		for _, e := range entries {
			row := []interface{}{
				e.SKU, e.Name, e.Type, e.UnitCost, e.BoxCost, e.AvgDeliveryCost,
				e.CommissionAdminRate, e.CommissionTelesaleRate,
			}
			copyRows = append(copyRows, append(row, courierCopyValues(e)...))
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"sellerledger", "masterproductcost"},
			[]string{"sku", "product_name", "product_type", "unit_cost", "box_cost", "avg_delivery_cost",
				"commission_admin_rate", "commission_telesale_rate",
				"rate_kerry", "rate_flash", "rate_jnt", "rate_ems",
				"rate_ninjavan", "rate_dhl", "rate_best", "rate_spx", "rate_standard"},
			pgx.CopyFromRows(copyRows)); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, api.SQLErrorMessage(err))
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}
		committed = true
		log.Printf("[INFO] master cost sheet replaced: %d SKUs from %s", len(entries), fh.Filename)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"file_name": fh.Filename,
			"skus":      len(entries),
		})
	}
}

// LoadCostTable reads the master cost table once and returns the immutable
// snapshot a pipeline run matches against.
func LoadCostTable(ctx context.Context, pool *pgxpool.Pool) (reconcile.CostTable, error) {
	rows, err := pool.Query(ctx, `
		SELECT sku, product_name, product_type, unit_cost, box_cost, avg_delivery_cost,
		       commission_admin_rate, commission_telesale_rate,
		       rate_kerry, rate_flash, rate_jnt, rate_ems,
		       rate_ninjavan, rate_dhl, rate_best, rate_spx, rate_standard
		FROM sellerledger.masterproductcost
	`)
	if err != nil {
		return reconcile.CostTable{}, err
	}
	defer rows.Close()

	var entries []reconcile.MasterCostEntry
	for rows.Next() {
		var e reconcile.MasterCostEntry
		scanned := make([]*decimal.Decimal, len(courierRateColumns))
		dest := []interface{}{&e.SKU, &e.Name, &e.Type, &e.UnitCost, &e.BoxCost, &e.AvgDeliveryCost,
			&e.CommissionAdminRate, &e.CommissionTelesaleRate}
		for i := range scanned {
			dest = append(dest, &scanned[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return reconcile.CostTable{}, err
		}
		e.CourierRates = courierRatesFromScan(scanned)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return reconcile.CostTable{}, err
	}
	return reconcile.NewCostTable(entries), nil
}

// ListProductCosts returns the current master cost table.
func ListProductCosts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pool.Query(r.Context(), `
			SELECT sku, product_name, product_type, unit_cost, box_cost, avg_delivery_cost
			FROM sellerledger.masterproductcost ORDER BY sku
		`)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		defer rows.Close()
		out := []map[string]interface{}{}
		for rows.Next() {
			var sku, name, ptype string
			var unit, box, deliv decimal.Decimal
			if err := rows.Scan(&sku, &name, &ptype, &unit, &box, &deliv); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
				return
			}
			out = append(out, map[string]interface{}{
				"sku":               sku,
				"product_name":      name,
				"product_type":      ptype,
				"unit_cost":         unit,
				"box_cost":          box,
				"avg_delivery_cost": deliv,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}
