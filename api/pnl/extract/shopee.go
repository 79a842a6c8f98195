package extract

import (
	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/ingest"
)

// ShopeeIncomeSheet is the dedicated sheet name inside the Shopee income
// workbook. The upload layer passes it to ingest.ParseUploadSheet.
const ShopeeIncomeSheet = "Income"

// Shopee exports are Thai-first with English subtitles in parentheses, so
// Thai aliases lead.
var (
	shopeeHeaderKeywords = []string{"หมายเลขคำสั่งซื้อ", "order", "sku"}

	shopeeOrderIDAliases  = []string{"หมายเลขคำสั่งซื้อ", "Order ID", "Order SN"}
	shopeeStatusAliases   = []string{"สถานะการสั่งซื้อ", "Order Status"}
	shopeeSKUAliases      = []string{"เลขอ้างอิง SKU (SKU Reference No.)", "เลขอ้างอิง SKU", "SKU Reference No.", "SKU"}
	shopeeQtyAliases      = []string{"จำนวน", "Quantity"}
	shopeeAmountAliases   = []string{"ราคาขายสุทธิ", "Deal Price", "ราคาตั้งต้น"}
	shopeeCreatedAliases  = []string{"วันที่ทำการสั่งซื้อ", "Order Creation Date", "เวลาการชำระสินค้า"}
	shopeeShippedAliases  = []string{"เวลาส่งสินค้า", "Ship Time"}
	shopeeTrackingAliases = []string{"หมายเลขติดตามพัสดุ", "Tracking Number"}
	shopeeProductAliases  = []string{"ชื่อสินค้า", "Product Name"}
	shopeePaymentAliases  = []string{"ช่องทางการชำระเงิน", "Payment Method"}
	shopeeCourierAliases  = []string{"ตัวเลือกการจัดส่ง", "Shipping Option", "Shipment Method"}
	shopeeCreatorAliases  = []string{"ผู้ทำรายการ", "Creator"}
	shopeeWorkTypeAliases = []string{"ประเภทงาน", "Work Type"}

	shopeeIncomeHeaderKeywords = []string{"หมายเลขคำสั่งซื้อ", "โอนเข้าบัญชี", "income"}
	shopeeOriginalPriceAliases = []string{"ราคาขายสุทธิ", "Original Price", "ราคาตั้งต้น"}
	shopeeSettlementAliases    = []string{"จำนวนเงินทั้งหมดที่โอนเข้าบัญชี", "Total Released Amount", "ยอดเงินที่โอน"}
	shopeeSettledDateAliases   = []string{"วันที่โอนเงินสำเร็จ", "Payout Completed Date"}
)

// ShopeeOrders maps one Shopee order export into canonical line items.
func ShopeeOrders(fileName string, rows [][]string, shopName string) OrderFileResult {
	res := OrderFileResult{FileName: fileName}
	hdr := ingest.DetectHeaderRow(rows, shopeeHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	idCol, ok := t.ResolveColumn(shopeeOrderIDAliases...)
	if !ok {
		res.Err = ErrOrderColumnMissing
		return res
	}
	statusCol, _ := t.ResolveColumn(shopeeStatusAliases...)
	skuCol, _ := t.ResolveColumn(shopeeSKUAliases...)
	qtyCol, _ := t.ResolveColumn(shopeeQtyAliases...)
	amtCol, _ := t.ResolveColumn(shopeeAmountAliases...)
	createdCol, _ := t.ResolveColumn(shopeeCreatedAliases...)
	shippedCol, _ := t.ResolveColumn(shopeeShippedAliases...)
	trackCol, _ := t.ResolveColumn(shopeeTrackingAliases...)
	prodCol, _ := t.ResolveColumn(shopeeProductAliases...)
	payCol, _ := t.ResolveColumn(shopeePaymentAliases...)
	courierCol, _ := t.ResolveColumn(shopeeCourierAliases...)
	creatorCol, _ := t.ResolveColumn(shopeeCreatorAliases...)
	workCol, _ := t.ResolveColumn(shopeeWorkTypeAliases...)

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
			Platform:      constants.PlatformShopee,
			PaymentMethod: cellOrDefault(t, row, payCol, ""),
			Courier:       cellOrDefault(t, row, courierCol, ""),
			Creator:       cellOrDefault(t, row, creatorCol, ""),
			WorkType:      cellOrDefault(t, row, workCol, ""),
		})
	}
	res.RowCount = len(res.Items)
	return res
}

// ShopeeIncome maps the Income sheet of a Shopee payout workbook. Shopee has
// no explicit fee column: fees are derived as original price minus released
// amount. Cross-file duplicates keep the first row seen (DedupKeepFirst).
func ShopeeIncome(fileName string, rows [][]string) IncomeFileResult {
	res := IncomeFileResult{FileName: fileName}
	hdr := ingest.DetectHeaderRow(rows, shopeeIncomeHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	idCol, ok := t.ResolveColumn(shopeeOrderIDAliases...)
	if !ok {
		res.Err = ErrOrderColumnMissing
		return res
	}
	origCol, _ := t.ResolveColumn(shopeeOriginalPriceAliases...)
	settleCol, _ := t.ResolveColumn(shopeeSettlementAliases...)
	dateCol, _ := t.ResolveColumn(shopeeSettledDateAliases...)

	for _, row := range t.Rows {
		if ingest.AllEmptyRow(row) {
			continue
		}
		orderID := ingest.CanonicalOrderID(t.Cell(row, idCol))
		if orderID == "" || garbageOrderID(orderID) {
			continue
		}
		original := ingest.ParseAmount(t.Cell(row, origCol))
		settlement := ingest.ParseAmount(t.Cell(row, settleCol))
		settled, _ := ingest.ParseDateDayFirst(t.Cell(row, dateCol))
		res.Records = append(res.Records, IncomeRecord{
			OrderID:     orderID,
			Settlement:  settlement,
			Fees:        original.Sub(settlement),
			SettledDate: settled,
		})
	}
	res.RowCount = len(res.Records)
	if res.RowCount == 0 {
		res.Warnings = append(res.Warnings, "no payout rows found on the Income sheet")
	}
	return res
}
