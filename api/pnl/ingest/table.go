package ingest

import (
	"strings"

	"SellerLedgerSaas/api/constants"
)

// Table is one sheet of a marketplace export after the header row has been
// located: the header cells plus every data row below it, all as strings.
type Table struct {
	Headers []string
	Rows    [][]string

	normHeaders []string
}

// NormalizeCell trims, removes non-breaking spaces and collapses whitespace
func NormalizeCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, constants.NBSP, " ")
	return strings.Join(strings.Fields(s), " ")
}

// normalizeHeader folds a column name for alias matching: collapse
// whitespace/newlines and lower-case.
func normalizeHeader(s string) string {
	return strings.ToLower(NormalizeCell(s))
}

// AllEmptyRow returns true when every cell in the row is empty or whitespace
func AllEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// DetectHeaderRow scans the first maxScan rows and scores each one by how
// many of the expected keywords appear (as substrings, case-insensitive) in
// the concatenated cell text. The best-scoring row wins; ties go to the
// earlier row. When nothing scores, row 0 is assumed to be the header.
func DetectHeaderRow(rows [][]string, keywords []string, maxScan int) int {
	if maxScan <= 0 {
		maxScan = 20
	}
	best, bestScore := 0, 0
	for i := 0; i < maxScan && i < len(rows); i++ {
		var b strings.Builder
		for _, c := range rows[i] {
			if v := NormalizeCell(c); v != "" {
				b.WriteString(strings.ToLower(v))
				b.WriteString(" ")
			}
		}
		joined := b.String()
		score := 0
		for _, kw := range keywords {
			if strings.Contains(joined, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore == 0 {
		return 0
	}
	return best
}

// NewTable slices raw rows at the detected header offset.
func NewTable(rows [][]string, headerIdx int) Table {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return Table{}
	}
	t := Table{Headers: rows[headerIdx]}
	if headerIdx+1 < len(rows) {
		t.Rows = rows[headerIdx+1:]
	}
	t.normHeaders = make([]string, len(t.Headers))
	for i, h := range t.Headers {
		t.normHeaders[i] = normalizeHeader(h)
	}
	return t
}

// ResolveColumn returns the index of the first candidate name (in the
// caller's priority order) that matches an actual column after header
// normalization. Candidate order is what lets a caller say "English name,
// then Thai name, then legacy name" and get deterministic precedence.
func (t Table) ResolveColumn(candidates ...string) (int, bool) {
	for _, cand := range candidates {
		nc := normalizeHeader(cand)
		if nc == "" {
			continue
		}
		for i, h := range t.normHeaders {
			if h == nc {
				return i, true
			}
		}
	}
	return -1, false
}

// Cell returns row[idx] or "" when the row is ragged or idx is the
// absent-column sentinel (-1). Callers supply their own defaults on "".
func (t Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
