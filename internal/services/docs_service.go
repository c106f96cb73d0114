package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"dealerhub/internal/aggregate"
	"dealerhub/internal/utils"
)

// DocsService renders report pages as downloadable A4 PDFs.
type DocsService struct {
	Reports ReportsService
}

type pdfColumn struct {
	Title string
	Width float64
	Align string
}

// GenerateAgencyDebts exports every matching debt row, largest remaining first.
func (s DocsService) GenerateAgencyDebts(ctx context.Context, q DebtQuery) ([]byte, string, error) {
	q.All = true
	report := s.Reports.AgencyDebts(ctx, q)
	utils.LogEvent(s.Reports.Loader.RequestID, "docs", "export_agency_debts", fmt.Sprintf("rows=%d", len(report.Rows)))
	return buildDebtPDF(report)
}

// GenerateRegionalSales exports the regional sales ranking.
func (s DocsService) GenerateRegionalSales(ctx context.Context) ([]byte, string, error) {
	report := s.Reports.RegionalSales(ctx, Query{All: true})
	utils.LogEvent(s.Reports.Loader.RequestID, "docs", "export_regional_sales", fmt.Sprintf("rows=%d", len(report.Rows)))
	return buildRegionalPDF(report)
}

func buildDebtPDF(r Report[DebtRow, DebtSummary]) ([]byte, string, error) {
	pdf := newReportPDF("Cong no dai ly", r.GeneratedAt)

	summary := []string{
		fmt.Sprintf("Tong no        : %s", pdfVND(r.Summary.TotalDebt)),
		fmt.Sprintf("Da thanh toan  : %s (%d%%)", pdfVND(r.Summary.TotalPaid), r.Summary.OverallProgress),
		fmt.Sprintf("Con lai        : %s", pdfVND(r.Summary.TotalRemaining)),
		fmt.Sprintf("Qua han        : %d hop dong, %s", r.Summary.OverdueCount, pdfVND(r.Summary.OverdueAmount)),
		fmt.Sprintf("Uu tien        : cao %d, trung binh %d, thap %d",
			r.Summary.ByPriority[aggregate.PriorityHigh],
			r.Summary.ByPriority[aggregate.PriorityMedium],
			r.Summary.ByPriority[aggregate.PriorityLow]),
	}
	writeLines(pdf, summary)

	cols := []pdfColumn{
		{"Dai ly", 46, "L"},
		{"Hop dong", 18, "C"},
		{"Tong no", 32, "R"},
		{"Con lai", 32, "R"},
		{"Tien do", 16, "R"},
		{"Han", 22, "C"},
		{"Uu tien", 24, "C"},
	}
	writeHeader(pdf, cols)
	for _, row := range r.Rows {
		due := "-"
		if !row.DueDate.IsZero() {
			due = utils.FormatDate(row.DueDate.Time)
		}
		if row.IsOverdue {
			pdf.SetTextColor(180, 0, 0)
		}
		writeRow(pdf, cols, []string{
			row.AgencyName,
			fmt.Sprintf("%d", row.ContractID),
			pdfVND(row.DebtAmount),
			pdfVND(row.RemainingAmount),
			fmt.Sprintf("%d%%", row.PaymentProgress),
			due,
			string(row.Priority),
		})
		pdf.SetTextColor(0, 0, 0)
	}
	writeWarnings(pdf, r.Warnings)

	return outputPDF(pdf, "CONG_NO_DAI_LY", r.GeneratedAt)
}

func buildRegionalPDF(r Report[RegionRow, RegionSummary]) ([]byte, string, error) {
	pdf := newReportPDF("Doanh so theo khu vuc", r.GeneratedAt)

	writeLines(pdf, []string{
		fmt.Sprintf("Tong doanh thu : %s", pdfVND(r.Summary.TotalRevenue)),
		fmt.Sprintf("Don hang       : %d (ban: %d)", r.Summary.TotalOrders, r.Summary.TotalSales),
		fmt.Sprintf("Khu vuc dan dau: %s", utils.FirstNonEmpty(r.Summary.TopRegion, "-")),
	})

	cols := []pdfColumn{
		{"Khu vuc", 44, "L"},
		{"Dai ly", 18, "R"},
		{"Don", 18, "R"},
		{"Ban", 18, "R"},
		{"Doanh thu", 40, "R"},
		{"Ty trong", 20, "R"},
		{"TB/don", 32, "R"},
	}
	writeHeader(pdf, cols)
	for _, row := range r.Rows {
		writeRow(pdf, cols, []string{
			row.Region,
			fmt.Sprintf("%d", row.AgencyCount),
			fmt.Sprintf("%d", row.OrderCount),
			fmt.Sprintf("%d", row.SalesCount),
			pdfVND(row.Revenue),
			fmt.Sprintf("%d%%", row.RevenueShare),
			pdfVND(row.AvgOrderValue),
		})
	}

	if len(r.Summary.Monthly) > 0 {
		pdf.Ln(6)
		monthCols := []pdfColumn{{"Thang", 30, "C"}, {"Ban", 20, "R"}, {"Doanh thu", 45, "R"}}
		writeHeader(pdf, monthCols)
		for _, p := range r.Summary.Monthly {
			writeRow(pdf, monthCols, []string{p.Month, fmt.Sprintf("%d", p.Sales), pdfVND(p.Revenue)})
		}
	}
	writeWarnings(pdf, r.Warnings)

	return outputPDF(pdf, "DOANH_SO_KHU_VUC", r.GeneratedAt)
}

func newReportPDF(title string, generated time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, strings.ToUpper(title))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Ngay lap: "+utils.FormatDateTime(generated))
	pdf.Ln(9)
	return pdf
}

func writeLines(pdf *gofpdf.Fpdf, lines []string) {
	pdf.SetFont("Courier", "", 10)
	for _, l := range lines {
		pdf.Cell(0, 6, pdfText(l))
		pdf.Ln(6)
	}
	pdf.Ln(4)
}

func writeHeader(pdf *gofpdf.Fpdf, cols []pdfColumn) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.Width, 7, c.Title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func writeRow(pdf *gofpdf.Fpdf, cols []pdfColumn, values []string) {
	for i, c := range cols {
		v := ""
		if i < len(values) {
			v = fitText(pdf, pdfText(values[i]), c.Width-2)
		}
		pdf.CellFormat(c.Width, 6, v, "1", 0, c.Align, false, 0, "")
	}
	pdf.Ln(-1)
}

func writeWarnings(pdf *gofpdf.Fpdf, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 5, pdfText("Du lieu thieu: "+strings.Join(warnings, "; ")), "", "", false)
}

func outputPDF(pdf *gofpdf.Fpdf, prefix string, generated time.Time) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s_%s.pdf", prefix, utils.SafeFilenamePart(generated.Format("20060102_1504")))
	return buf.Bytes(), filename, nil
}

// fitText trims s until it fits in width mm at the current font.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > width {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}

// pdfText keeps the text inside the core fonts' cp1252 range.
func pdfText(s string) string {
	return utils.Unaccent(s)
}

func pdfVND(v decimal.Decimal) string {
	return strings.TrimSuffix(utils.FormatVND(v), " ₫") + " VND"
}
