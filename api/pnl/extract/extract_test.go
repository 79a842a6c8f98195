package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/constants"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTikTokOrders(t *testing.T) {
	rows := [][]string{
		{"TikTok Shop order report", ""},
		{"Order ID", "Order Status", "Seller SKU", "Quantity", "SKU Subtotal After Discount", "Created Time", "Payment Method", "Shipping Provider Name"},
		{"579000000000001", "Completed", "abc-red-l", "2", "500.00", "02/01/2026 10:15:00", "Cash on Delivery", "Flash Express"},
		{"", "", "", "", "", "", "", ""},
		{"Platform total", "", "", "", "500.00", "", "", ""},
	}
	res := TikTokOrders("orders.xlsx", rows, "My Shop")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1 (empty and summary rows skipped)", len(res.Items))
	}
	li := res.Items[0]
	if li.OrderID != "579000000000001" {
		t.Errorf("OrderID = %q", li.OrderID)
	}
	if li.SKU != "ABC-RED-L" {
		t.Errorf("SKU = %q, want normalized ABC-RED-L", li.SKU)
	}
	if li.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", li.Quantity)
	}
	if !li.SalesAmount.Equal(dec("500")) {
		t.Errorf("SalesAmount = %s, want 500", li.SalesAmount)
	}
	want := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if !li.CreatedDate.Equal(want) {
		t.Errorf("CreatedDate = %v, want %v (day-first)", li.CreatedDate, want)
	}
	if li.Platform != constants.PlatformTikTok || li.ShopName != "My Shop" {
		t.Errorf("platform/shop = %q/%q", li.Platform, li.ShopName)
	}
}

func TestOrdersMissingOrderColumn(t *testing.T) {
	rows := [][]string{
		{"Seller SKU", "Quantity"},
		{"ABC", "1"},
	}
	res := TikTokOrders("bad.xlsx", rows, "shop")
	if res.Err != ErrOrderColumnMissing {
		t.Fatalf("err = %v, want ErrOrderColumnMissing", res.Err)
	}
}

func TestOrdersDispatchUnknownPlatform(t *testing.T) {
	res := Orders("EBAY", "f.csv", nil, "shop")
	if res.Err != ErrUnknownPlatform {
		t.Fatalf("err = %v, want ErrUnknownPlatform", res.Err)
	}
}

func TestTikTokIncomeFeesStoredAsMagnitude(t *testing.T) {
	rows := [][]string{
		{"Order ID", "Total settlement amount", "Total fees", "Affiliate commission", "Order settled time"},
		{"579000000000001", "450.00", "-40.00", "-10.00", "05/01/2026"},
	}
	res := TikTokIncome("income.xlsx", rows)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(res.Records))
	}
	rec := res.Records[0]
	if !rec.Settlement.Equal(dec("450")) {
		t.Errorf("Settlement = %s, want 450", rec.Settlement)
	}
	if !rec.Fees.Equal(dec("40")) {
		t.Errorf("Fees = %s, want 40 (magnitude)", rec.Fees)
	}
	if !rec.Affiliate.Equal(dec("10")) {
		t.Errorf("Affiliate = %s, want 10 (magnitude)", rec.Affiliate)
	}
}

func TestShopeeIncomeDerivesFees(t *testing.T) {
	rows := [][]string{
		{"หมายเลขคำสั่งซื้อ", "ราคาขายสุทธิ", "จำนวนเงินทั้งหมดที่โอนเข้าบัญชี", "วันที่โอนเงินสำเร็จ"},
		{"2601020HXYZ01", "100.00", "90.00", "05/01/2026"},
	}
	res := ShopeeIncome("income.xlsx", rows)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	rec := res.Records[0]
	if !rec.Settlement.Equal(dec("90")) {
		t.Errorf("Settlement = %s, want 90", rec.Settlement)
	}
	if !rec.Fees.Equal(dec("10")) {
		t.Errorf("Fees = %s, want 10 (original minus released)", rec.Fees)
	}
}

func TestLazadaIncomeSignSplit(t *testing.T) {
	rows := [][]string{
		{"Order No.", "Amount", "Transaction Date"},
		{"700000000000001", "100.00", "05/01/2026"},
		{"700000000000001", "-10.00", "05/01/2026"},
		{"700000000000001", "20.00", "06/01/2026"},
		{"700000000000001", "-5.00", "06/01/2026"},
		{"700000000000002", "-7.50", "05/01/2026"},
	}
	res := LazadaIncome("txn.csv", rows)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	first := res.Records[0]
	if first.OrderID != "700000000000001" {
		t.Fatalf("first-seen order should come first, got %q", first.OrderID)
	}
	if !first.Settlement.Equal(dec("120")) {
		t.Errorf("Settlement = %s, want 120 (sum of positives)", first.Settlement)
	}
	if !first.Fees.Equal(dec("15")) {
		t.Errorf("Fees = %s, want 15 (magnitude of negatives)", first.Fees)
	}
	wantDate := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !first.SettledDate.Equal(wantDate) {
		t.Errorf("SettledDate = %v, want first parsed %v", first.SettledDate, wantDate)
	}

	second := res.Records[1]
	if !second.Settlement.Equal(decimal.Zero) || !second.Fees.Equal(dec("7.5")) {
		t.Errorf("deduction-only order: settlement %s fees %s, want 0 / 7.5", second.Settlement, second.Fees)
	}
}

func TestIncomeBatchDedupSum(t *testing.T) {
	results := []IncomeFileResult{
		{Records: []IncomeRecord{{OrderID: "A", Settlement: dec("50"), Fees: dec("5")}}},
		{Records: []IncomeRecord{{OrderID: "A", Settlement: dec("25"), Fees: dec("2")}}},
	}
	out := IncomeBatch(constants.PlatformTikTok, results, -1)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if !out[0].Settlement.Equal(dec("75")) || !out[0].Fees.Equal(dec("7")) {
		t.Errorf("summed record = %s / %s, want 75 / 7", out[0].Settlement, out[0].Fees)
	}
}

func TestIncomeBatchDedupKeepFirst(t *testing.T) {
	results := []IncomeFileResult{
		{Records: []IncomeRecord{{OrderID: "A", Settlement: dec("50")}}},
		{Records: []IncomeRecord{{OrderID: "A", Settlement: dec("999")}}},
	}
	out := IncomeBatch(constants.PlatformShopee, results, -1)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if !out[0].Settlement.Equal(dec("50")) {
		t.Errorf("Settlement = %s, want first-seen 50", out[0].Settlement)
	}
}

func TestIncomeBatchSkipsFailedFiles(t *testing.T) {
	results := []IncomeFileResult{
		{Err: ErrOrderColumnMissing},
		{Records: []IncomeRecord{{OrderID: "B", Settlement: dec("10")}}},
	}
	out := IncomeBatch(constants.PlatformTikTok, results, -1)
	if len(out) != 1 || out[0].OrderID != "B" {
		t.Fatalf("failed file should be skipped, got %+v", out)
	}
}

func TestGarbageOrderIDFiltered(t *testing.T) {
	rows := [][]string{
		{"Order ID", "Seller SKU", "Quantity"},
		{"Platform campaign adjustment", "ABC", "1"},
		{"579000000000009", "ABC", "1"},
	}
	res := TikTokOrders("orders.xlsx", rows, "shop")
	if len(res.Items) != 1 || res.Items[0].OrderID != "579000000000009" {
		t.Fatalf("summary row should be dropped, got %d items", len(res.Items))
	}
}
