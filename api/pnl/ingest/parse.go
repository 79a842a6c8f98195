package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var ErrEmptyFile = errors.New("file has no data rows")

// ParseUploadFile reads an uploaded marketplace export into raw rows.
// Modern Excel is tried first, then legacy XLS, then CSV. CSV is decoded as
// UTF-8 and re-decoded as TIS-620 (Windows-874) when the bytes are not valid
// UTF-8, which is what older Thai seller-center exports use.
func ParseUploadFile(data []byte) ([][]string, error) {
	if rows, err := parseXLSX(data, ""); err == nil {
		return rows, nil
	}
	if rows, err := parseXLS(data); err == nil {
		return rows, nil
	}
	rows, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse excel, xls, or csv: %w", err)
	}
	return rows, nil
}

// ParseUploadSheet is ParseUploadFile restricted to a named xlsx sheet
// (Shopee keeps settlement data on a dedicated "Income" sheet). Falls back
// to the first sheet when the name is absent, and to the generic parser for
// non-xlsx content.
func ParseUploadSheet(data []byte, sheetName string) ([][]string, error) {
	if rows, err := parseXLSX(data, sheetName); err == nil {
		return rows, nil
	}
	return ParseUploadFile(data)
}

func parseXLSX(data []byte, sheetName string) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer xl.Close()
	sheet := xl.GetSheetName(0)
	if sheetName != "" {
		for _, name := range xl.GetSheetList() {
			if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(sheetName)) {
				sheet = name
				break
			}
		}
	}
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func parseXLS(data []byte) ([][]string, error) {
	// xlsReader wants a path, so spill to a temp file first
	tmp, err := os.CreateTemp("", "mpexport-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.New("failed to get xls sheet")
	}
	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var vals []string
		for _, col := range xlsRow.GetCols() {
			vals = append(vals, col.GetString())
		}
		rows = append(rows, vals)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows874.NewDecoder(), data)
		if err == nil {
			data = decoded
		}
	}
	// strip a UTF-8 BOM so the first header cell matches its alias
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}
