package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	log "github.com/sirupsen/logrus"

	"github.com/user/lora_analyzer_go/internal/lora"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// ChartImage is a rendered chart to embed in the report.
type ChartImage struct {
	Key      string // unique image name, also the PNG file stem
	Title    string
	Caption  string
	PNG      []byte
	WidthIn  float64
	HeightIn float64
}

// MetricSummary is the aggregated table of one measured metric.
type MetricSummary struct {
	Title string
	Rows  []SummaryRow
}

// AirtimeRow is the analytic airtime, energy and lifetime of one
// configuration for a single-node packet.
type AirtimeRow struct {
	Configuration   string
	AirtimeMs       float64
	EnergyJ         float64
	LifetimeYears   float64
	WithinDutyCycle bool
}

// ReportInput collects everything the PDF report shows.
type ReportInput struct {
	RunID           string
	GeneratedAt     time.Time
	ResultsDir      string
	Battery         lora.Battery
	IntervalSeconds float64
	Airtime         []AirtimeRow
	Summaries       []MetricSummary
	Charts          []ChartImage
	Warnings        []string
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func() // map of style name to function that sets font, color etc.
	lineHeight  float64
	currentY    float64 // manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64 // top Y after margin
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() { // duty-cycle violations, warnings
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(float64(len(lines)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	if maxHeight := s.pageHeight - s.contentTopY - 2*s.lineHeight; height > maxHeight {
		width *= maxHeight / height
		height = maxHeight
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	x := pdfMargin + (pdfContentWidth-width)/2
	s.pdf.Image(imageName, x, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// table writes a header row and data rows. highlight marks rows drawn with
// the tableCellRed style.
func (s *pdfStyler) table(headers []string, colWidthsRel []float64, rows [][]string, highlight func(row int) bool) {
	colWidthsAbs := make([]float64, len(colWidthsRel))
	for i, rel := range colWidthsRel {
		colWidthsAbs[i] = rel * pdfContentWidth
	}

	header := func() {
		sX := pdfMargin
		s.applyStyle("tableHeader")
		for i, h := range headers {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	header()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			header()
		}
		style := "tableCell"
		if highlight != nil && highlight(r) {
			style = "tableCellRed"
		}
		s.applyStyle(style)
		sX := pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(sX, s.currentY)
			s.pdf.CellFormat(colWidthsAbs[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += colWidthsAbs[i]
		}
		s.currentY += s.lineHeight
	}
}

// BuildPDFReport writes the analysis report to filepath.
func BuildPDFReport(filepath string, in ReportInput) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle("LoRa Configuration Trade-off Report", true)
	pdf.SetCreator("lora_analyzer", true)
	pdf.AddPage()

	styler := newPDFStyler(pdf)
	writeOverview(styler, in)

	if len(in.Airtime) > 0 {
		styler.addSpacer(5)
		styler.writeParagraph("Analytic Airtime and Battery Life (N = 1)", "h2", "L")
		rows := make([][]string, len(in.Airtime))
		for i, a := range in.Airtime {
			within := "yes"
			if !a.WithinDutyCycle {
				within = "no"
			}
			rows[i] = []string{
				a.Configuration,
				fmt.Sprintf("%.3f", a.AirtimeMs),
				fmt.Sprintf("%.4f", a.EnergyJ),
				fmt.Sprintf("%.3f", a.LifetimeYears),
				within,
			}
		}
		styler.table(
			[]string{"Configuration", "Airtime (ms)", "Energy / packet (J)", "Battery life (years)", "Within duty cycle"},
			[]float64{0.25, 0.18, 0.2, 0.2, 0.17},
			rows,
			func(r int) bool { return !in.Airtime[r].WithinDutyCycle },
		)
	}

	for _, summary := range in.Summaries {
		styler.newPage()
		styler.writeParagraph(summary.Title, "h2", "L")
		if len(summary.Rows) == 0 {
			styler.writeParagraph(fmt.Sprintf("No data for %s.", summary.Title), "normal", "L")
			continue
		}
		rows := make([][]string, len(summary.Rows))
		for i, r := range summary.Rows {
			rows[i] = []string{
				r.Label,
				strconv.Itoa(r.Nodes),
				strconv.FormatFloat(r.Mean, 'g', 6, 64),
				strconv.FormatFloat(r.StdDev, 'g', 6, 64),
				strconv.Itoa(r.Samples),
				strconv.Itoa(r.Rank),
			}
		}
		styler.table(
			[]string{"Configuration", "Nodes", "Mean", "Std. Deviation", "Samples", "Rank"},
			[]float64{0.25, 0.1, 0.2, 0.2, 0.1, 0.15},
			rows,
			nil,
		)
	}

	if len(in.Charts) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(5)

		imgWidth := pdfContentWidth * 0.8
		for i, c := range in.Charts {
			if i > 0 {
				styler.newPage()
			}
			styler.writeParagraph(c.Title, "h2", "L")
			if len(c.PNG) == 0 {
				styler.writeParagraph(fmt.Sprintf("Plot for %s not available.", c.Title), "normal", "L")
				continue
			}
			aspect := 4.0 / 7.0
			if c.WidthIn > 0 && c.HeightIn > 0 {
				aspect = c.HeightIn / c.WidthIn
			}
			styler.addImage(c.PNG, c.Key, imgWidth, imgWidth*aspect, c.Caption)
		}
	}

	if err := pdf.OutputFileAndClose(filepath); err != nil {
		return fmt.Errorf("failed to write pdf report %s: %w", filepath, err)
	}
	log.WithFields(log.Fields{"path": filepath, "pages": pdf.PageNo()}).Debug("PDF report written")
	return nil
}

func writeOverview(s *pdfStyler, in ReportInput) {
	s.writeParagraph("LoRa Configuration Trade-off Report", "h1", "C")
	s.addSpacer(5)

	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	s.writeParagraph(fmt.Sprintf("Run ID: %s", in.RunID), "normal", "L")
	s.writeParagraph(fmt.Sprintf("Generated: %s", generated.Format(time.RFC1123)), "normal", "L")
	if in.ResultsDir != "" {
		s.writeParagraph(fmt.Sprintf("Simulation results: %s", in.ResultsDir), "normal", "L")
	}
	s.writeParagraph(fmt.Sprintf("Battery: %.2f Ah, %.2f V, cut-off %.2f V (%.0f J usable)",
		in.Battery.CapacityAh, in.Battery.Voltage, in.Battery.CutOffVoltage, in.Battery.EnergyBudgetJoules()), "normal", "L")
	if in.IntervalSeconds > 0 {
		s.writeParagraph(fmt.Sprintf("Reporting interval: %g s", in.IntervalSeconds), "normal", "L")
	}

	if len(in.Warnings) > 0 {
		s.addSpacer(3)
		s.writeParagraph("Data Warnings", "h2", "L")
		for _, w := range in.Warnings {
			s.writeParagraph(w, "tableCellRed", "L")
		}
	}
}
