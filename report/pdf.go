// Package report renders projections as printable documents.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"fund-projection/domain"
	"fund-projection/service"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// ProjectionReport renders one projection as an A4 PDF.
type ProjectionReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	money  MoneyFormatter
	params domain.SimulationParameters
	result domain.SimulationResult
	now    time.Time
}

// GenerateProjectionPDF builds the report: parameters, summary, year-end
// balances and the shock windows for the chosen tier.
func GenerateProjectionPDF(
	params domain.SimulationParameters,
	result domain.SimulationResult,
	money MoneyFormatter,
) ([]byte, error) {
	if len(result.Records) == 0 {
		return nil, errors.New("cannot render an empty projection")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	report := &ProjectionReport{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		money:  money,
		params: params,
		result: result,
		now:    time.Now(),
	}

	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Savings Projection", true)

	report.addOverviewPage()
	report.addYearEndTable()
	report.addShockWindows()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ProjectionReport) formatMoney(amount float64) string {
	return r.tr(r.money.Format(amount))
}

func (r *ProjectionReport) addOverviewPage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 24)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 14, "Savings Projection", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", r.now.Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.Ln(8)

	widths := []float64{100, 80}

	r.drawSectionHeader("Plan")
	r.drawTableHeader([]string{"Parameter", "Value"}, widths)
	r.drawTableRow([]string{"Monthly deposit", r.formatMoney(r.params.MonthlyDeposit)}, widths, false)
	r.drawTableRow([]string{"Investment period", fmt.Sprintf("%d years (%d months)", r.params.InvestmentPeriodYears, r.params.TotalMonths())}, widths, false)
	r.drawTableRow([]string{"Annual interest rate", fmt.Sprintf("%.2f%%", r.params.AnnualInterestRatePercent)}, widths, false)
	r.drawTableRow([]string{"Market variance", string(r.params.VarianceTier)}, widths, false)
	r.pdf.Ln(8)

	final, _ := r.result.Final()
	r.drawSectionHeader("Summary")
	r.drawTableHeader([]string{"Metric", "Value"}, widths)
	r.drawTableRow([]string{"Total deposits", r.formatMoney(final.AccumulatedDeposits)}, widths, false)
	r.drawTableRow([]string{"Final fund value", r.formatMoney(final.FundValue)}, widths, false)
	r.drawTableRow([]string{"Total interest earned", r.formatMoney(r.result.TotalInterestEarned)}, widths, false)
	r.drawTableRow([]string{"Average annual growth rate", fmt.Sprintf("%.2f%%", r.result.AverageAnnualGrowthRate)}, widths, true)

	r.pdf.Ln(6)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.MultiCell(contentWidth, 4,
		"The average annual growth rate annualizes total return over the whole period and does not weight "+
			"deposits by how long they were invested. Market events are scripted illustrations, not forecasts.",
		"", "C", false)
}

// yearEndRecords picks every twelfth month plus the final month.
func yearEndRecords(records []domain.MonthlyRecord) []domain.MonthlyRecord {
	var out []domain.MonthlyRecord
	for _, record := range records {
		if record.Month%12 == 0 {
			out = append(out, record)
		}
	}
	if last := records[len(records)-1]; len(out) == 0 || out[len(out)-1].Month != last.Month {
		out = append(out, last)
	}
	return out
}

func (r *ProjectionReport) addYearEndTable() {
	r.pdf.AddPage()
	r.drawSectionHeader("Year-End Balances")

	headers := []string{"Year", "Month", "Deposits", "Fund Value", "Gain", "Growth %"}
	widths := []float64{20, 20, 40, 40, 35, 25}
	r.drawTableHeader(headers, widths)

	for _, record := range yearEndRecords(r.result.Records) {
		r.drawTableRow([]string{
			fmt.Sprintf("%d", (record.Month+11)/12),
			fmt.Sprintf("%d", record.Month),
			r.formatMoney(record.AccumulatedDeposits),
			r.formatMoney(record.FundValue),
			r.formatMoney(record.InterestGainedThisMonth),
			fmt.Sprintf("%.2f", record.MonthlyGrowthPercent),
		}, widths, false)
	}
}

func (r *ProjectionReport) addShockWindows() {
	r.pdf.Ln(8)
	r.drawSectionHeader("Scripted Market Events")

	widths := []float64{45, 45, 45, 45}
	r.drawTableHeader([]string{"Event", "First Month", "Last Month", "Impact / Month"}, widths)

	for _, w := range service.ShockScheduleForTier(r.params.VarianceTier) {
		status := fmt.Sprintf("%+.2f%%", w.ImpactPercent)
		if w.FirstMonth > r.params.TotalMonths() {
			status += " (after plan)"
		}
		r.drawTableRow([]string{
			string(w.Event),
			fmt.Sprintf("%d", w.FirstMonth),
			fmt.Sprintf("%d", w.LastMonth),
			status,
		}, widths, false)
	}
}

func (r *ProjectionReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(4)
}

func (r *ProjectionReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *ProjectionReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
