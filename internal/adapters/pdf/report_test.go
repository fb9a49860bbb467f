package pdf_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/csg33k/wages-generator/internal/adapters/pdf"
	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/domain"
)

func records(t *testing.T, names ...string) []domain.EncodedRecord {
	t.Helper()
	rows := make([]domain.InputRow, len(names))
	for i, n := range names {
		rows[i] = domain.InputRow{RowNumber: i + 2, FullName: n, SSN: "123-45-6789", Salary: "1234.56", AccountNumber: "1234567890", QuarterCode: "001"}
	}
	recs, err := wages.New().EncodeAll(context.Background(), rows, time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC), "1")
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

// pages counts page objects in an fpdf document.
func pages(b []byte) int {
	s := string(b)
	return strings.Count(s, "/Type /Page") - strings.Count(s, "/Type /Pages")
}

func TestPreviewPDF(t *testing.T) {
	recs := records(t, "José Peña Núñez")
	var buf bytes.Buffer
	if err := pdf.PreviewPDF(&buf, &recs[0]); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", buf.Bytes()[:8])
	}
	if n := pages(buf.Bytes()); n != 1 {
		t.Errorf("want 1 page, got %d", n)
	}
}

func TestRunPDF_SummaryPlusPagePerRecord(t *testing.T) {
	recs := records(t, "JUAN CARLOS PEREZ LOPEZ", "ANA TORRES", "MARIA RIVERA")
	run := &domain.Run{
		ID:        "6a1f0c1e-0000-4000-8000-000000000000",
		Filename:  "Wages251.txt",
		Batch:     "000001",
		Quarter:   "001",
		RowCount:  len(recs),
		Operator:  "kiri",
		CreatedAt: time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC),
	}
	var buf bytes.Buffer
	if err := pdf.RunPDF(&buf, run, recs); err != nil {
		t.Fatal(err)
	}
	if n := pages(buf.Bytes()); n != 4 {
		t.Errorf("want 4 pages, got %d", n)
	}
}
