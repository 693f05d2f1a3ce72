package printer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/utils"
)

// ReportConfig holds layout options for the job report
type ReportConfig struct {
	Title      string  // Header line, defaults to "Job Report"
	QRBaseURL  string  // Prefix encoded in the QR code before the job number
	QRSize     float64 // mm
	MarginLeft float64
	MarginTop  float64
}

// DefaultReportConfig returns the layout used by the HTTP endpoint
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Title:      "Job Report",
		QRSize:     30,
		MarginLeft: 15,
		MarginTop:  15,
	}
}

// GenerateJobReportPDF renders a job header with a QR code of the job number,
// one table per docket and the job's hours by role.
func GenerateJobReportPDF(cfg ReportConfig, job *models.Job, dockets []models.Docket) ([]byte, error) {
	if cfg.Title == "" {
		cfg.Title = "Job Report"
	}
	if cfg.QRSize == 0 {
		cfg.QRSize = 30
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(cfg.MarginLeft, cfg.MarginTop, cfg.MarginLeft)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentW := pageWidth - 2*cfg.MarginLeft

	// QR code top right
	qrPng, err := qrcode.Encode(cfg.QRBaseURL+job.JobNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr_job", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr_job", pageWidth-cfg.MarginLeft-cfg.QRSize, cfg.MarginTop, cfg.QRSize, cfg.QRSize, false, imgOptions, 0, "")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentW-cfg.QRSize, 9, cfg.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	headerLine := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(32, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(contentW-cfg.QRSize-32, 6, value, "", 1, "L", false, 0, "")
	}
	headerLine("Job number", job.JobNumber)
	headerLine("Client", job.ClientName)
	headerLine("Site", job.SiteLocation)
	headerLine("Status", string(job.Status))
	headerLine("Created", job.CreatedAt.UTC().Format("02-01-2006 15:04"))

	y := cfg.MarginTop + cfg.QRSize + 5
	if pdf.GetY() > y {
		y = pdf.GetY() + 5
	}
	pdf.SetY(y)

	colW := []float64{contentW * 0.45, contentW * 0.35, contentW * 0.20}

	for _, d := range dockets {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(contentW, 7, fmt.Sprintf("Docket %s  |  Supervisor: %s  |  %s h", utils.FormatDDMMYYYY(d.Date), d.SupervisorName, formatHours(d.TotalHours())), "B", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range []string{"Worker", "Role", "Hours"} {
			pdf.CellFormat(colW[i], 6, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, item := range d.LabourItems {
			pdf.CellFormat(colW[0], 6, item.WorkerName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(colW[1], 6, item.Role, "1", 0, "L", false, 0, "")
			pdf.CellFormat(colW[2], 6, formatHours(item.HoursWorked), "1", 1, "R", false, 0, "")
		}

		if d.Notes != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(contentW, 5, "Notes: "+d.Notes, "", "L", false)
		}
		pdf.Ln(4)
	}

	// Totals
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("Hours by role (%d dockets)", len(dockets)), "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	byRole := models.HoursByRole(dockets)
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		pdf.CellFormat(colW[0]+colW[1], 6, role, "", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 6, formatHours(byRole[role]), "", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d", int64(h))
	}
	return fmt.Sprintf("%.2f", h)
}
