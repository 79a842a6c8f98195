package constants

// ============================================================================
// UPLOAD & EXTRACTION ERRORS
// ============================================================================

const (
	ErrFileParseFailed     = "Could not read the uploaded file. Please upload an .xlsx, .xls or .csv export"
	ErrFileEmpty           = "The uploaded file has no data rows"
	ErrOrderColumnMissing  = "Order ID column not found in this file. The file was skipped"
	ErrUnknownPlatform     = "Unknown platform. Expected TIKTOK, SHOPEE or LAZADA"
	ErrMasterSheetNoSKU    = "SKU column not found in the master cost sheet"
	ErrAdSheetMissingCols  = "Date, campaign or cost column not found in the ad spend sheet"
	ErrNothingToAggregate  = "No order lines found for the requested platforms and date range"
	ErrPipelineWriteFailed = "Failed to persist the profit and loss result. The previous result was kept"
)
