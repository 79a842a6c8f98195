package master

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SellerLedgerSaas/api"
	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/ingest"
	"SellerLedgerSaas/api/pnl/reconcile"
)

var (
	adHeaderKeywords = []string{"campaign", "แคมเปญ", "cost", "วันที่", "date"}

	adDateAliases     = []string{"วันที่", "Date", "Day"}
	adCampaignAliases = []string{"ชื่อแคมเปญ", "Campaign Name", "Campaign"}
	adAmountAliases   = []string{"ต้นทุน", "Cost", "Amount Spent", "Spend"}
)

// ParseAdSheet maps an advertiser cost export into ad spend records. The SKU
// is recovered from the bracket token in the campaign name; rows with an
// unparsable date are dropped with a warning count.
func ParseAdSheet(rows [][]string) ([]reconcile.AdSpend, int, error) {
	hdr := ingest.DetectHeaderRow(rows, adHeaderKeywords, 20)
	t := ingest.NewTable(rows, hdr)

	dateCol, okDate := t.ResolveColumn(adDateAliases...)
	campCol, okCamp := t.ResolveColumn(adCampaignAliases...)
	amountCol, okAmount := t.ResolveColumn(adAmountAliases...)
	if !okDate || !okCamp || !okAmount {
		return nil, 0, fmt.Errorf("%s", constants.ErrAdSheetMissingCols)
	}

	var spends []reconcile.AdSpend
	skipped := 0
	for _, row := range t.Rows {
		if ingest.AllEmptyRow(row) {
			continue
		}
		date, ok := ingest.ParseDateDayFirst(t.Cell(row, dateCol))
		if !ok {
			skipped++
			continue
		}
		campaign := ingest.NormalizeCell(t.Cell(row, campCol))
		spends = append(spends, reconcile.AdSpend{
			Date:     date,
			SKU:      reconcile.ExtractCampaignSKU(campaign),
			Campaign: campaign,
			Amount:   ingest.ParseAmount(t.Cell(row, amountCol)),
		})
	}
	return spends, skipped, nil
}

// UploadAdSpend replaces the ad spend table with the uploaded advertiser
// export inside one transaction.
func UploadAdSpend(pool *pgxpool.Pool) http.HandlerFunc {
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
		spends, skipped, err := ParseAdSheet(rows)
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

		if _, err := tx.Exec(ctx, `DELETE FROM sellerledger.adspend`); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		copyRows := make([][]interface{}, 0, len(spends))
		for _, s := range spends {
			copyRows = append(copyRows, []interface{}{s.Date, s.Campaign, s.SKU, s.Amount})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"sellerledger", "adspend"},
			[]string{"spend_date", "campaign_name", "sku", "amount"},
			pgx.CopyFromRows(copyRows)); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, api.SQLErrorMessage(err))
			return
		}
		if err := tx.Commit(ctx); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrTxCommitFailed+err.Error())
			return
		}
		committed = true
		log.Printf("[INFO] ad spend replaced: %d rows (%d skipped) from %s", len(spends), skipped, fh.Filename)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"file_name":    fh.Filename,
			"rows":         len(spends),
			"rows_skipped": skipped,
		})
	}
}

// LoadAdSpend reads ad spend records, optionally bounded by an inclusive
// date window ("2006-01-02" strings, empty means unbounded).
func LoadAdSpend(ctx context.Context, pool *pgxpool.Pool, dateFrom, dateTo string) ([]reconcile.AdSpend, error) {
	query := `SELECT spend_date, campaign_name, sku, amount FROM sellerledger.adspend`
	args := []interface{}{}
	switch {
	case dateFrom != "" && dateTo != "":
		query += ` WHERE spend_date >= $1 AND spend_date <= $2`
		args = append(args, dateFrom, dateTo)
	case dateFrom != "":
		query += ` WHERE spend_date >= $1`
		args = append(args, dateFrom)
	case dateTo != "":
		query += ` WHERE spend_date <= $1`
		args = append(args, dateTo)
	}
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spends []reconcile.AdSpend
	for rows.Next() {
		var s reconcile.AdSpend
		var d time.Time
		if err := rows.Scan(&d, &s.Campaign, &s.SKU, &s.Amount); err != nil {
			return nil, err
		}
		s.Date = d.UTC().Truncate(24 * time.Hour)
		spends = append(spends, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return spends, nil
}

// ListAdSpend returns stored ad spend rows, newest first.
func ListAdSpend(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		spends, err := LoadAdSpend(r.Context(), pool, q.Get("date_from"), q.Get("date_to"))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrFailedToQuery)
			return
		}
		out := make([]map[string]interface{}, 0, len(spends))
		for _, s := range spends {
			out = append(out, map[string]interface{}{
				"spend_date":    s.Date.Format(constants.DateFormat),
				"campaign_name": s.Campaign,
				"sku":           s.SKU,
				"amount":        s.Amount,
			})
		}
		api.RespondWithPayload(w, true, "", out)
	}
}
