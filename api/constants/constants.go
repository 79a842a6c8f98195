package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidJSONShort   = "Invalid JSON"
	ErrDB                 = "DB error"
	ErrInvalidRequestBody = "Invalid request body"
	ErrFailedToQuery      = "Failed to query"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrPlatformRequired   = "platform required (TIKTOK, SHOPEE or LAZADA)"
	ErrShopNameRequired   = "shop_name required"
	ErrNoFilesUploaded    = "No files uploaded"
	ErrInvalidDateFilter  = "date filters must be YYYY-MM-DD"
)

// DB / SQL error templates
const (
	ErrTxStartFailed  = "failed to start transaction: "
	ErrTxCommitFailed = "failed to commit transaction: "
	ErrQueryFailed    = "query failed: "
	FormatSQLError    = "ERROR: %s"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "Content-Type"
)

// Date formats
const (
	DateTimeFormat  = "2006-01-02 15:04:05"
	DateFormat      = "2006-01-02"
	DateFormatAlt   = "02-01-2006"
	DateFormatSlash = "02/Jan/2006"
	DateFormatDash  = "02-Jan-2006"
	DateFormatISO   = "2006-01-02T15:04:05"
)

// NBSP is the non-breaking space that marketplace exports sprinkle into cells
const NBSP = " "

// Marketplace platform tags (canonical, upper-case)
const (
	PlatformTikTok = "TIKTOK"
	PlatformShopee = "SHOPEE"
	PlatformLazada = "LAZADA"
)

// Canonical courier keys. These double as rate-column keys on the master
// product-cost sheet, so renaming one is a data migration.
const (
	CourierKerry    = "KERRY"
	CourierFlash    = "FLASH"
	CourierJT       = "JNT"
	CourierEMS      = "EMS"
	CourierNinjaVan = "NINJAVAN"
	CourierDHL      = "DHL"
	CourierBest     = "BEST"
	CourierSPX      = "SPX"
	CourierStandard = "STANDARD"
)

// CODVatMultiplier is the fixed 7% VAT markup applied on top of the
// courier COD collection fee. Not configurable.
const CODVatMultiplier = "1.07"

// GarbageOrderIDToken marks trailing summary rows some platforms append;
// any order id containing it (case-insensitive) is dropped after extraction.
const GarbageOrderIDToken = "platform"
