package extract

import (
	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/ingest"
)

// TikTok seller-center export headers. Column naming drifts between export
// versions, so every field carries an ordered alias list.
var (
	tiktokHeaderKeywords = []string{"order id", "seller sku", "product name", "order status"}

	tiktokOrderIDAliases  = []string{"Order ID", "Order/adjustment ID", "หมายเลขคำสั่งซื้อ"}
	tiktokStatusAliases   = []string{"Order Status", "Order Substatus", "สถานะคำสั่งซื้อ"}
	tiktokSKUAliases      = []string{"Seller SKU", "SKU ID", "SKU"}
	tiktokQtyAliases      = []string{"Quantity", "Qty", "จำนวน"}
	tiktokAmountAliases   = []string{"SKU Subtotal After Discount", "Order Amount", "SKU Subtotal Before Discount", "ยอดรวมย่อย SKU หลังหักส่วนลด"}
	tiktokCreatedAliases  = []string{"Created Time", "Order Created Time", "เวลาที่สร้าง"}
	tiktokShippedAliases  = []string{"Shipped Time", "เวลาที่จัดส่ง"}
	tiktokTrackingAliases = []string{"Tracking ID", "Tracking Number", "หมายเลขติดตามพัสดุ"}
	tiktokProductAliases  = []string{"Product Name", "ชื่อสินค้า"}
	tiktokPaymentAliases  = []string{"Payment Method", "วิธีการชำระเงิน"}
	tiktokCourierAliases  = []string{"Shipping Provider Name", "Shipping Provider", "ผู้ให้บริการจัดส่ง"}
	tiktokCreatorAliases  = []string{"Creator", "ผู้สร้างคำสั่งซื้อ"}
	tiktokWorkTypeAliases = []string{"Work Type", "ประเภทงาน"}

	tiktokIncomeHeaderKeywords = []string{"order", "settlement", "fee"}
	tiktokSettlementAliases    = []string{"Total settlement amount", "Settlement Amount", "ยอดเงินที่ชำระทั้งหมด"}
	tiktokFeesAliases          = []string{"Total fees", "Fees", "ค่าธรรมเนียมทั้งหมด"}
	tiktokAffiliateAliases     = []string{"Affiliate commission", "ค่าคอมมิชชั่น Affiliate"}
	tiktokSettledDateAliases   = []string{"Order settled time", "Settled Time", "เวลาที่ชำระ"}
)

// TikTokOrders maps one TikTok order export into canonical line items.
func TikTokOrders(fileName string, rows [][]string, shopName string) OrderFileResult {
	res := OrderFileResult{FileName: fileName}
	hdr := ingest.DetectHeaderRow(rows, tiktokHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	idCol, ok := t.ResolveColumn(tiktokOrderIDAliases...)
	if !ok {
		res.Err = ErrOrderColumnMissing
		return res
	}
	statusCol, _ := t.ResolveColumn(tiktokStatusAliases...)
	skuCol, _ := t.ResolveColumn(tiktokSKUAliases...)
	qtyCol, _ := t.ResolveColumn(tiktokQtyAliases...)
	amtCol, _ := t.ResolveColumn(tiktokAmountAliases...)
	createdCol, _ := t.ResolveColumn(tiktokCreatedAliases...)
	shippedCol, _ := t.ResolveColumn(tiktokShippedAliases...)
	trackCol, _ := t.ResolveColumn(tiktokTrackingAliases...)
	prodCol, _ := t.ResolveColumn(tiktokProductAliases...)
	payCol, _ := t.ResolveColumn(tiktokPaymentAliases...)
	courierCol, _ := t.ResolveColumn(tiktokCourierAliases...)
	creatorCol, _ := t.ResolveColumn(tiktokCreatorAliases...)
	workCol, _ := t.ResolveColumn(tiktokWorkTypeAliases...)

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
			Platform:      constants.PlatformTikTok,
			PaymentMethod: cellOrDefault(t, row, payCol, ""),
			Courier:       cellOrDefault(t, row, courierCol, ""),
			Creator:       cellOrDefault(t, row, creatorCol, ""),
			WorkType:      cellOrDefault(t, row, workCol, ""),
		})
	}
	res.RowCount = len(res.Items)
	return res
}

// TikTokIncome maps one TikTok settlement export into order-level income
// records: one row per order with settlement, fees and affiliate as direct
// columns. Cross-file duplicates are summed at the batch level (DedupSum).
func TikTokIncome(fileName string, rows [][]string) IncomeFileResult {
	res := IncomeFileResult{FileName: fileName}
	hdr := ingest.DetectHeaderRow(rows, tiktokIncomeHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	idCol, ok := t.ResolveColumn(tiktokOrderIDAliases...)
	if !ok {
		res.Err = ErrOrderColumnMissing
		return res
	}
	settleCol, _ := t.ResolveColumn(tiktokSettlementAliases...)
	feesCol, _ := t.ResolveColumn(tiktokFeesAliases...)
	affCol, _ := t.ResolveColumn(tiktokAffiliateAliases...)
	dateCol, _ := t.ResolveColumn(tiktokSettledDateAliases...)

	for _, row := range t.Rows {
		if ingest.AllEmptyRow(row) {
			continue
		}
		orderID := ingest.CanonicalOrderID(t.Cell(row, idCol))
		if orderID == "" || garbageOrderID(orderID) {
			continue
		}
		settled, _ := ingest.ParseDateDayFirst(t.Cell(row, dateCol))
		// fees arrive negative in some exports; store magnitude
		fees := ingest.ParseAmount(t.Cell(row, feesCol)).Abs()
		aff := ingest.ParseAmount(t.Cell(row, affCol)).Abs()
		res.Records = append(res.Records, IncomeRecord{
			OrderID:     orderID,
			Settlement:  ingest.ParseAmount(t.Cell(row, settleCol)),
			Fees:        fees,
			Affiliate:   aff,
			SettledDate: settled,
		})
	}
	res.RowCount = len(res.Records)
	if res.RowCount == 0 {
		res.Warnings = append(res.Warnings, "no settlement rows found")
	}
	return res
}
