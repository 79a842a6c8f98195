package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"

	"SellerLedgerSaas/api/pnl/extract"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMergeAndProrateSplitsBySalesShare(t *testing.T) {
	lines := []extract.LineItem{
		{OrderID: "A", SKU: "X-1", SalesAmount: dec("60")},
		{OrderID: "A", SKU: "X-2", SalesAmount: dec("40")},
	}
	incomes := []extract.IncomeRecord{
		{OrderID: "A", Settlement: dec("90"), Fees: dec("10"), Affiliate: dec("5")},
	}
	out := MergeAndProrate(lines, incomes)

	if !out[0].Settlement.Equal(dec("54")) {
		t.Errorf("line 1 settlement = %s, want 54 (60%% of 90)", out[0].Settlement)
	}
	if !out[0].Fees.Equal(dec("6")) {
		t.Errorf("line 1 fees = %s, want 6", out[0].Fees)
	}
	if !out[0].Affiliate.Equal(dec("3")) {
		t.Errorf("line 1 affiliate = %s, want 3", out[0].Affiliate)
	}
	if !out[1].Settlement.Equal(dec("36")) {
		t.Errorf("line 2 settlement = %s, want 36 (remainder)", out[1].Settlement)
	}
	if !out[1].Fees.Equal(dec("4")) || !out[1].Affiliate.Equal(dec("2")) {
		t.Errorf("line 2 fees/affiliate = %s/%s, want 4/2", out[1].Fees, out[1].Affiliate)
	}
}

func TestMergeAndProrateSumPreservedUnderRounding(t *testing.T) {
	// thirds do not round cleanly; last line must absorb the remainder
	lines := []extract.LineItem{
		{OrderID: "A", SalesAmount: dec("1")},
		{OrderID: "A", SalesAmount: dec("1")},
		{OrderID: "A", SalesAmount: dec("1")},
	}
	incomes := []extract.IncomeRecord{
		{OrderID: "A", Settlement: dec("100")},
	}
	out := MergeAndProrate(lines, incomes)

	sum := decimal.Zero
	for _, l := range out {
		sum = sum.Add(l.Settlement)
	}
	if !sum.Equal(dec("100")) {
		t.Errorf("settlement sum = %s, want exactly 100", sum)
	}
}

func TestMergeAndProrateZeroSalesOrder(t *testing.T) {
	// all lines free gifts: shares are zero, the full settlement lands on
	// the last line
	lines := []extract.LineItem{
		{OrderID: "A", SalesAmount: decimal.Zero},
		{OrderID: "A", SalesAmount: decimal.Zero},
	}
	incomes := []extract.IncomeRecord{
		{OrderID: "A", Settlement: dec("30")},
	}
	out := MergeAndProrate(lines, incomes)

	if !out[0].Settlement.Equal(decimal.Zero) {
		t.Errorf("first zero-sales line settlement = %s, want 0", out[0].Settlement)
	}
	if !out[1].Settlement.Equal(dec("30")) {
		t.Errorf("last line settlement = %s, want full 30", out[1].Settlement)
	}
}

func TestMergeAndProrateUnmatchedLinesGetZeros(t *testing.T) {
	lines := []extract.LineItem{
		{OrderID: "B", SalesAmount: dec("100")},
	}
	out := MergeAndProrate(lines, nil)
	if !out[0].Settlement.Equal(decimal.Zero) || !out[0].Fees.Equal(decimal.Zero) || !out[0].Affiliate.Equal(decimal.Zero) {
		t.Errorf("unmatched line should carry explicit zeros, got %+v", out[0])
	}
}

func TestMergeAndProrateSingleLineGetsFullAmounts(t *testing.T) {
	lines := []extract.LineItem{
		{OrderID: "C", SalesAmount: dec("100")},
	}
	incomes := []extract.IncomeRecord{
		{OrderID: "C", Settlement: dec("92.37"), Fees: dec("7.63")},
	}
	out := MergeAndProrate(lines, incomes)
	if !out[0].Settlement.Equal(dec("92.37")) || !out[0].Fees.Equal(dec("7.63")) {
		t.Errorf("single line = %s/%s, want full 92.37/7.63", out[0].Settlement, out[0].Fees)
	}
}

func TestMergeAndProrateTrimsOrderIDs(t *testing.T) {
	lines := []extract.LineItem{
		{OrderID: " A ", SalesAmount: dec("10")},
	}
	incomes := []extract.IncomeRecord{
		{OrderID: "A", Settlement: dec("9")},
	}
	out := MergeAndProrate(lines, incomes)
	if !out[0].Settlement.Equal(dec("9")) {
		t.Errorf("whitespace around order ids should not break matching, got %s", out[0].Settlement)
	}
}
