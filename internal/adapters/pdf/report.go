// Package pdf renders the field audit of encoded wages records as a
// printable report. A preview is one page for one record; a run report has a
// summary page followed by one audit page per record.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/wages-generator/internal/domain"
)

// PreviewPDF writes a single-page audit of one record to w.
func PreviewPDF(w io.Writer, rec *domain.EncodedRecord) error {
	pdf := newDoc()
	pdf.AddPage()
	drawRecordPage(pdf, "RECORD PREVIEW", rec)
	return pdf.Output(w)
}

// RunPDF writes a summary page for a stored run, then one audit page per
// record.
func RunPDF(w io.Writer, run *domain.Run, records []domain.EncodedRecord) error {
	pdf := newDoc()
	pdf.AddPage()
	drawSummaryPage(pdf, run, records)
	for i := range records {
		pdf.AddPage()
		drawRecordPage(pdf, run.Filename, &records[i])
	}
	return pdf.Output(w)
}

func newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	return pdf
}

// headerBar draws the dark title strip and returns the y below it.
func headerBar(pdf *fpdf.Fpdf, title string) float64 {
	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-30, 7, "QUARTERLY WAGES  "+title, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return marginT + 13
}

func footer(pdf *fpdf.Fpdf, note string) {
	pageW, pageH := pdf.GetPageSize()
	marginL, _, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, "Generated by Wages Generator", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, note, "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawSummaryPage(pdf *fpdf.Fpdf, run *domain.Run, records []domain.EncodedRecord) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := headerBar(pdf, "RUN SUMMARY")

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "RUN INFORMATION", "LRT", 1, "L", true, 0, "")
	y += 5.5

	colHalf := contentW / 2
	lines := [][2]string{
		{"File: " + run.Filename, "Run ID: " + run.ID},
		{"Batch: " + run.Batch, "Quarter: " + run.Quarter},
		{fmt.Sprintf("Records: %d", run.RowCount), "Trailing CRLF: " + yesNo(run.TrailingCRLF)},
		{"Operator: " + run.Operator, "Created: " + run.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	pdf.SetFont("Helvetica", "", 9)
	for i, l := range lines {
		border := "L"
		if i == len(lines)-1 {
			border = "LB"
		}
		pdf.SetXY(marginL, y)
		pdf.CellFormat(colHalf, 6, tr(l[0]), border, 0, "L", false, 0, "")
		pdf.CellFormat(colHalf, 6, tr(l[1]), "R"+strings.TrimPrefix(border, "L"), 1, "L", false, 0, "")
		y += 6
	}

	y += 5
	rowW := contentW * 0.12
	nameW := contentW * 0.48
	ssnW := contentW - rowW - nameW

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(rowW, 7, "Line", "1", 0, "C", true, 0, "")
	pdf.CellFormat(nameW, 7, "Employee", "1", 0, "L", true, 0, "")
	pdf.CellFormat(ssnW, 7, "SSN", "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "", 8.5)
	for i := range records {
		rec := &records[i]
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetX(marginL)
		pdf.CellFormat(rowW, 6.5, fmt.Sprint(rec.RowNumber), "1", 0, "C", true, 0, "")
		pdf.CellFormat(nameW, 6.5, tr(employeeName(rec)), "1", 0, "L", true, 0, "")
		pdf.CellFormat(ssnW, 6.5, formatSSN(slotValue(rec, "SSN")), "1", 1, "C", true, 0, "")
	}

	footer(pdf, run.Filename)
}

func drawRecordPage(pdf *fpdf.Fpdf, title string, rec *domain.EncodedRecord) {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := headerBar(pdf, title)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "EMPLOYEE", "LRT", 1, "L", true, 0, "")
	y += 5.5

	colHalf := contentW / 2
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colHalf, 6.5, tr(employeeName(rec)), "LB", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colHalf, 6.5, fmt.Sprintf("Row %d   SSN: %s", rec.RowNumber, formatSSN(slotValue(rec, "SSN"))), "RB", 1, "R", false, 0, "")
	y += 10

	idxW := contentW * 0.08
	nameW := contentW * 0.24
	expW := contentW * 0.12
	actW := contentW * 0.12
	valW := contentW - idxW - nameW - expW - actW

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(idxW, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(nameW, 7, "Field", "1", 0, "L", true, 0, "")
	pdf.CellFormat(expW, 7, "Expected", "1", 0, "C", true, 0, "")
	pdf.CellFormat(valW, 7, "Value", "1", 0, "L", true, 0, "")
	pdf.CellFormat(actW, 7, "Actual", "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	rowH := 6.2
	for i, f := range rec.Fields {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetX(marginL)
		pdf.SetFont("Helvetica", "", 8.5)
		pdf.CellFormat(idxW, rowH, fmt.Sprint(f.Index), "1", 0, "C", true, 0, "")
		pdf.CellFormat(nameW, rowH, f.Name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(expW, rowH, fmt.Sprint(f.ExpectedLength), "1", 0, "C", true, 0, "")
		pdf.SetFont("Courier", "", 8.5)
		pdf.CellFormat(valW, rowH, tr("["+f.Value+"]"), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 8.5)
		if f.ActualLength() != f.ExpectedLength {
			pdf.SetFillColor(240, 200, 200)
		}
		pdf.CellFormat(actW, rowH, fmt.Sprint(f.ActualLength()), "1", 1, "C", true, 0, "")
	}

	footer(pdf, fmt.Sprintf("%d characters", len([]rune(rec.Line))))
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func slotValue(rec *domain.EncodedRecord, name string) string {
	for _, f := range rec.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// employeeName rebuilds "PATERNAL MATERNAL, FIRST M" from the padded fields.
func employeeName(rec *domain.EncodedRecord) string {
	last := strings.Join(strings.Fields(slotValue(rec, "PaternalLastName")+" "+slotValue(rec, "MaternalLastName")), " ")
	first := strings.Join(strings.Fields(slotValue(rec, "FirstName")+" "+slotValue(rec, "MiddleInitial")), " ")
	if last == "" {
		return first
	}
	return last + ", " + first
}

func formatSSN(ssn string) string {
	digits := strings.ReplaceAll(ssn, "-", "")
	if len(digits) == 9 {
		return digits[:3] + "-" + digits[3:5] + "-" + digits[5:]
	}
	return ssn
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
