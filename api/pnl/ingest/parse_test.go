package ingest

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestParseUploadFileCSV(t *testing.T) {
	data := []byte("Order ID,SKU,Quantity\n123,ABC,1\n456,DEF,2\n")
	rows, err := ParseUploadFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][0] != "123" || rows[2][1] != "DEF" {
		t.Errorf("unexpected cells: %v", rows)
	}
}

func TestParseUploadFileCSVWithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Order ID,SKU\n123,ABC\n")...)
	rows, err := ParseUploadFile(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0][0] != "Order ID" {
		t.Errorf("BOM should be stripped from the first header cell, got %q", rows[0][0])
	}
}

func TestParseUploadFileCSVRaggedRows(t *testing.T) {
	data := []byte("A,B,C\n1,2\n3,4,5,6\n")
	rows, err := ParseUploadFile(data)
	if err != nil {
		t.Fatalf("ragged csv should parse, got %v", err)
	}
	if len(rows) != 3 || len(rows[1]) != 2 || len(rows[2]) != 4 {
		t.Errorf("unexpected shape: %v", rows)
	}
}

func TestParseUploadFileThaiEncodedCSV(t *testing.T) {
	// Windows-874 bytes are not valid UTF-8, triggering the fallback decode
	enc := charmap.Windows874.NewEncoder()
	thai, err := enc.String("หมายเลขคำสั่งซื้อ,จำนวน\n123,1\n")
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	rows, parseErr := ParseUploadFile([]byte(thai))
	if parseErr != nil {
		t.Fatalf("unexpected error: %v", parseErr)
	}
	if rows[0][0] != "หมายเลขคำสั่งซื้อ" {
		t.Errorf("Thai header should round-trip through the 874 decoder, got %q", rows[0][0])
	}
}

func TestParseUploadFileGarbage(t *testing.T) {
	if _, err := ParseUploadFile([]byte{}); err == nil {
		t.Fatal("empty input should error")
	}
}
