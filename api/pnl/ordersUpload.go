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

// UploadFileResult is the per-file outcome reported back to the caller.
// One bad file never aborts the batch.
type UploadFileResult struct {
	FileName string   `json:"file_name"`
	RowCount int      `json:"row_count"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	S3URL    string   `json:"s3_url,omitempty"`
}

// UploadOrders ingests marketplace order exports for one (platform, shop)
// and replace-writes the staged order lines for that scope. Files that fail
// to parse or extract are reported per file while good files still land.
func UploadOrders(pool *pgxpool.Pool) http.HandlerFunc {
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
		var allItems []extract.LineItem

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
			rows, err := ingest.ParseUploadFile(data)
			if err != nil {
				res.Error = constants.ErrFileParseFailed
				results = append(results, res)
				continue
			}
			out := extract.Orders(platform, fh.Filename, rows, shopName)
			if out.Err != nil {
				res.Error = uploadErrMessage(out.Err)
				results = append(results, res)
				continue
			}
			res.RowCount = out.RowCount
			res.Warnings = out.Warnings
			allItems = append(allItems, out.Items...)

			if isS3Enabled() {
				hash := sha256.Sum256(data)
				key := buildUploadS3Key(platform, "orders", shopName,
					hex.EncodeToString(hash[:]), filepath.Ext(fh.Filename))
				if url, s3Err := archiveUploadToS3(ctx, key, data, detectContentType(data)); s3Err != nil {
					log.Printf("[WARN] s3 archive failed for %s: %v", fh.Filename, s3Err)
				} else {
					res.S3URL = url
				}
			}
			results = append(results, res)
		}

		if len(allItems) > 0 {
			if err := stageOrderLines(ctx, pool, platform, shopName, batchID, allItems); err != nil {
				log.Printf("[ERROR] staging order lines failed: %v", err)
				api.RespondWithError(w, http.StatusInternalServerError, api.SQLErrorMessage(err))
				return
			}
			logger.AuditUpload("orders", platform, shopName, batchID, len(allItems))
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"upload_batch_id": batchID,
			"platform":        platform,
			"shop_name":       shopName,
			"line_items":      len(allItems),
			"files":           results,
		})
	}
}

// stageOrderLines replace-writes the staged lines for one (platform, shop)
// scope. Re-uploading a corrected export fully supersedes the previous one.
func stageOrderLines(ctx context.Context, pool *pgxpool.Pool, platform, shopName, batchID string, items []extract.LineItem) error {
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
		`DELETE FROM sellerledger.order_lines WHERE platform = $1 AND shop_name = $2`,
		platform, shopName); err != nil {
		return err
	}

	copyRows := make([][]interface{}, 0, len(items))
	for i := range items {
		li := &items[i]
		copyRows = append(copyRows, []interface{}{
			batchID, platform, li.OrderID, li.RawStatus, li.SKU, li.Quantity, li.SalesAmount,
			nullableDate(li.CreatedDate), nullableDate(li.ShippedDate), li.TrackingID,
			li.ProductName, shopName, li.PaymentMethod, li.Courier, li.Creator, li.WorkType,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"sellerledger", "order_lines"},
		[]string{"upload_batch_id", "platform", "order_id", "raw_status", "sku", "quantity", "sales_amount",
			"created_date", "shipped_date", "tracking_id",
			"product_name", "shop_name", "payment_method", "courier", "creator", "work_type"},
		pgx.CopyFromRows(copyRows)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

func uploadErrMessage(err error) string {
	switch err {
	case extract.ErrOrderColumnMissing:
		return constants.ErrOrderColumnMissing
	case extract.ErrUnknownPlatform:
		return constants.ErrPlatformRequired
	}
	return err.Error()
}
