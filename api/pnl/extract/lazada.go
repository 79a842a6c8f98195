package extract

import (
	"time"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/ingest"
)

var (
	lazadaHeaderKeywords = []string{"ordernumber", "sellersku", "status"}

	lazadaOrderIDAliases  = []string{"orderNumber", "Order Number", "หมายเลขคำสั่งซื้อ"}
	lazadaStatusAliases   = []string{"status", "Order Status", "สถานะ"}
	lazadaSKUAliases      = []string{"sellerSku", "Seller SKU", "SKU"}
	lazadaQtyAliases      = []string{"quantity", "จำนวน"}
	lazadaAmountAliases   = []string{"paidPrice", "Paid Price", "unitPrice"}
	lazadaCreatedAliases  = []string{"createTime", "Created at", "วันที่สั่งซื้อ"}
	lazadaShippedAliases  = []string{"rts_sla", "shippedDate", "Shipped at"}
	lazadaTrackingAliases = []string{"trackingCode", "Tracking Code", "หมายเลขติดตามพัสดุ"}
	lazadaProductAliases  = []string{"itemName", "Item Name", "ชื่อสินค้า"}
	lazadaPaymentAliases  = []string{"payMethod", "Payment Method", "วิธีการชำระเงิน"}
	lazadaCourierAliases  = []string{"shippingProvider", "Shipping Provider", "ผู้ให้บริการขนส่ง"}
	lazadaCreatorAliases  = []string{"ผู้ทำรายการ", "Creator"}
	lazadaWorkTypeAliases = []string{"ประเภทงาน", "Work Type"}

	lazadaIncomeHeaderKeywords = []string{"order no", "amount", "transaction"}
	lazadaIncomeOrderAliases   = []string{"Order No.", "Order Number", "orderNumber"}
	lazadaIncomeAmountAliases  = []string{"Amount", "amount", "จำนวนเงิน"}
	lazadaIncomeDateAliases    = []string{"Transaction Date", "transactionDate", "วันที่ทำธุรกรรม"}
)

// LazadaOrders maps one Lazada order export into canonical line items.
func LazadaOrders(fileName string, rows [][]string, shopName string) OrderFileResult {
	res := OrderFileResult{FileName: fileName}
	hdr := ingest.DetectHeaderRow(rows, lazadaHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	idCol, ok := t.ResolveColumn(lazadaOrderIDAliases...)
	if !ok {
		res.Err = ErrOrderColumnMissing
		return res
	}
	statusCol, _ := t.ResolveColumn(lazadaStatusAliases...)
	skuCol, _ := t.ResolveColumn(lazadaSKUAliases...)
	qtyCol, _ := t.ResolveColumn(lazadaQtyAliases...)
	amtCol, _ := t.ResolveColumn(lazadaAmountAliases...)
	createdCol, _ := t.ResolveColumn(lazadaCreatedAliases...)
	shippedCol, _ := t.ResolveColumn(lazadaShippedAliases...)
	trackCol, _ := t.ResolveColumn(lazadaTrackingAliases...)
	prodCol, _ := t.ResolveColumn(lazadaProductAliases...)
	payCol, _ := t.ResolveColumn(lazadaPaymentAliases...)
	courierCol, _ := t.ResolveColumn(lazadaCourierAliases...)
	creatorCol, _ := t.ResolveColumn(lazadaCreatorAliases...)
	workCol, _ := t.ResolveColumn(lazadaWorkTypeAliases...)

	for _, row := range t.Rows {
		if ingest.AllEmptyRow(row) {
			continue
		}
		orderID := ingest.CanonicalOrderID(t.Cell(row, idCol))
		if orderID == "" || garbageOrderID(orderID) {
			continue
		}
		created, _ := ingest.ParseDateDayFirst(t.Cell(row, createdCol))
		shipped, _ := ingest.ParseDateDayFirst(t.Cell(row, shippedCol))
		res.Items = append(res.Items, LineItem{
			OrderID:       orderID,
			RawStatus:     cellOrDefault(t, row, statusCol, "-"),
			SKU:           ingest.NormalizeSKU(t.Cell(row, skuCol)),
			Quantity:      ingest.ParseQuantity(t.Cell(row, qtyCol)),
			SalesAmount:   ingest.ParseAmount(t.Cell(row, amtCol)),
			CreatedDate:   created,
			ShippedDate:   shipped,
			TrackingID:    cellOrDefault(t, row, trackCol, ""),
			ProductName:   cellOrDefault(t, row, prodCol, ""),
			ShopName:      shopName,
			Platform:      constants.PlatformLazada,
			PaymentMethod: cellOrDefault(t, row, payCol, ""),
			Courier:       cellOrDefault(t, row, courierCol, ""),
			Creator:       cellOrDefault(t, row, creatorCol, ""),
			WorkType:      cellOrDefault(t, row, workCol, ""),
		})
	}
	res.RowCount = len(res.Items)
	return res
}

// LazadaIncome maps a Lazada transaction export. Rows are transaction-level
// and signed: an order usually has several rows, positive for payouts and
// negative for deductions. Grouping by order id keeps the sign split:
// settlement = sum of positive rows, fees = |sum of negative rows|. A flat
// sum would understate both sides, so the split is load-bearing.
func LazadaIncome(fileName string, rows [][]string) IncomeFileResult {
	res := IncomeFileResult{FileName: fileName}
	hdr := ingest.DetectHeaderRow(rows, lazadaIncomeHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	idCol, ok := t.ResolveColumn(lazadaIncomeOrderAliases...)
	if !ok {
		res.Err = ErrOrderColumnMissing
		return res
	}
	amtCol, _ := t.ResolveColumn(lazadaIncomeAmountAliases...)
	dateCol, _ := t.ResolveColumn(lazadaIncomeDateAliases...)

	type signedTotals struct {
		positive decimal.Decimal
		negative decimal.Decimal
		settled  time.Time
	}
	order := make([]string, 0)
	totals := make(map[string]*signedTotals)

	for _, row := range t.Rows {
		if ingest.AllEmptyRow(row) {
			continue
		}
		orderID := ingest.CanonicalOrderID(t.Cell(row, idCol))
		if orderID == "" || garbageOrderID(orderID) {
			continue
		}
		amt := ingest.ParseAmount(t.Cell(row, amtCol))
		st, okT := totals[orderID]
		if !okT {
			st = &signedTotals{}
			totals[orderID] = st
			order = append(order, orderID)
		}
		if amt.IsNegative() {
			st.negative = st.negative.Add(amt)
		} else {
			st.positive = st.positive.Add(amt)
		}
		if st.settled.IsZero() {
			if d, parsed := ingest.ParseDateDayFirst(t.Cell(row, dateCol)); parsed {
				st.settled = d
			}
		}
	}

	for _, orderID := range order {
		st := totals[orderID]
		res.Records = append(res.Records, IncomeRecord{
			OrderID:     orderID,
			Settlement:  st.positive,
			Fees:        st.negative.Abs(),
			SettledDate: st.settled,
		})
	}
	res.RowCount = len(res.Records)
	if res.RowCount == 0 {
		res.Warnings = append(res.Warnings, "no transaction rows found")
	}
	return res
}
