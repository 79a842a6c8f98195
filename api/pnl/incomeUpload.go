package pnl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SellerLedgerSaas/api"
	"SellerLedgerSaas/api/constants"
	"SellerLedgerSaas/api/pnl/extract"
	"SellerLedgerSaas/api/pnl/ingest"
	"SellerLedgerSaas/internal/logger"
)

// UploadIncome ingests marketplace settlement exports for one
// (platform, shop) and replace-writes the staged income records for that
// scope. Duplicate order ids across files collapse per the platform's dedup
// behavior before staging.
func UploadIncome(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(128 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		platform := strings.ToUpper(strings.TrimSpace(r.FormValue("platform")))
		if platform != constants.PlatformTikTok && platform != constants.PlatformShopee && platform != constants.PlatformLazada {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrPlatformRequired)
			return
		}
		shopName := strings.TrimSpace(r.FormValue("shop_name"))
		if shopName == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrShopNameRequired)
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFilesUploaded)
			return
		}

		ctx := r.Context()
		batchID := uuid.New().String()
		results := make([]UploadFileResult, 0, len(files))
		fileResults := make([]extract.IncomeFileResult, 0, len(files))

		for _, fh := range files {
			res := UploadFileResult{FileName: fh.Filename}
			f, err := fh.Open()
			if err != nil {
				res.Error = "Failed to open file"
				results = append(results, res)
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				res.Error = constants.ErrFileParseFailed
				results = append(results, res)
				continue
			}
			rows, err := parseIncomeFile(platform, data)
			if err != nil {
				res.Error = constants.ErrFileParseFailed
				results = append(results, res)
				continue
			}
			out := extract.Income(platform, fh.Filename, rows)
			if out.Err != nil {
				res.Error = uploadErrMessage(out.Err)
				results = append(results, res)
				fileResults = append(fileResults, out)
				continue
			}
			res.RowCount = out.RowCount
			res.Warnings = out.Warnings
			fileResults = append(fileResults, out)

			if isS3Enabled() {
				hash := sha256.Sum256(data)
				key := buildUploadS3Key(platform, "income", shopName,
					hex.EncodeToString(hash[:]), filepath.Ext(fh.Filename))
				if url, s3Err := archiveUploadToS3(ctx, key, data, detectContentType(data)); s3Err != nil {
					log.Printf("[WARN] s3 archive failed for %s: %v", fh.Filename, s3Err)
				} else {
					res.S3URL = url
				}
			}
			results = append(results, res)
		}

		records := extract.IncomeBatch(platform, fileResults, -1)
		if len(records) > 0 {
			if err := stageIncomeRecords(ctx, pool, platform, shopName, batchID, records); err != nil {
				log.Printf("[ERROR] staging income records failed: %v", err)
				api.RespondWithError(w, http.StatusInternalServerError, api.SQLErrorMessage(err))
				return
			}
			logger.AuditUpload("income", platform, shopName, batchID, len(records))
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"upload_batch_id": batchID,
			"platform":        platform,
			"shop_name":       shopName,
			"income_records":  len(records),
			"files":           results,
		})
	}
}

// parseIncomeFile parses a settlement export. Shopee ships settlements on a
// dedicated workbook sheet; a missing sheet falls back to the default sheet
// so CSV exports still work.
func parseIncomeFile(platform string, data []byte) ([][]string, error) {
	if platform == constants.PlatformShopee {
		if rows, err := ingest.ParseUploadSheet(data, extract.ShopeeIncomeSheet); err == nil {
			return rows, nil
		}
	}
	return ingest.ParseUploadFile(data)
}

func stageIncomeRecords(ctx context.Context, pool *pgxpool.Pool, platform, shopName, batchID string, records []extract.IncomeRecord) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx,
		`DELETE FROM sellerledger.income_records WHERE platform = $1 AND shop_name = $2`,
		platform, shopName); err != nil {
		return err
	}

	copyRows := make([][]interface{}, 0, len(records))
	for i := range records {
		rec := &records[i]
		copyRows = append(copyRows, []interface{}{
			batchID, platform, shopName, rec.OrderID,
			rec.Settlement, rec.Fees, rec.Affiliate, nullableDate(rec.SettledDate),
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sellerledger", "income_records"},
		[]string{"upload_batch_id", "platform", "shop_name", "order_id",
			"settlement_amount", "fees", "affiliate", "settled_date"},
		pgx.CopyFromRows(copyRows)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
