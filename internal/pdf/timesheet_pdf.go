package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders timesheet exports (interface so handlers can be
// tested against a stub).
type Generator interface {
	GenerateTimesheet(data TimesheetData) (string, error)
}

// TimesheetRow is one by-user line of the export.
type TimesheetRow struct {
	UserName   string
	TotalHours float64
	TasksCount int
	Projects   string
}

type TimesheetData struct {
	PeriodLabel string
	GeneratedAt time.Time
	Rows        []TimesheetRow
	TotalHours  float64
	Filename    string // file name without path; generated when empty
}

// TimesheetGenerator writes PDFs under RootDir. An optional TTF gives
// full UTF-8 coverage; without one the built-in Helvetica is used.
type TimesheetGenerator struct {
	RootDir  string
	FontPath string
	fontName string
}

func NewTimesheetGenerator(rootDir, fontPath string) *TimesheetGenerator {
	g := &TimesheetGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "Helvetica",
	}
	if fontPath != "" {
		g.fontName = "Custom"
	}
	return g
}

func (g *TimesheetGenerator) GenerateTimesheet(data TimesheetData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("timesheet_%s.pdf", data.GeneratedAt.Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Timesheet report", false)
	doc.SetAuthor("ProjectPulse", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)

	if g.FontPath != "" {
		doc.AddUTF8Font(g.fontName, "", g.FontPath)
		doc.AddUTF8Font(g.fontName, "B", g.FontPath)
	}
	doc.AddPage()

	doc.SetFont(g.fontName, "B", 18)
	doc.CellFormat(0, 10, "TIMESHEET", "", 1, "C", false, 0, "")

	doc.SetFont(g.fontName, "", 11)
	doc.CellFormat(0, 7, data.PeriodLabel, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	g.hr(doc)

	doc.SetFont(g.fontName, "B", 11)
	doc.CellFormat(70, 8, "User", "B", 0, "L", false, 0, "")
	doc.CellFormat(30, 8, "Hours", "B", 0, "R", false, 0, "")
	doc.CellFormat(25, 8, "Tasks", "B", 0, "R", false, 0, "")
	doc.CellFormat(45, 8, "Projects", "B", 1, "L", false, 0, "")

	doc.SetFont(g.fontName, "", 11)
	for _, row := range data.Rows {
		doc.CellFormat(70, 8, row.UserName, "", 0, "L", false, 0, "")
		doc.CellFormat(30, 8, fmt.Sprintf("%.2f", row.TotalHours), "", 0, "R", false, 0, "")
		doc.CellFormat(25, 8, fmt.Sprintf("%d", row.TasksCount), "", 0, "R", false, 0, "")
		doc.CellFormat(45, 8, row.Projects, "", 1, "L", false, 0, "")
	}

	g.hr(doc)
	doc.SetFont(g.fontName, "B", 12)
	doc.CellFormat(70, 9, "Total", "", 0, "L", false, 0, "")
	doc.CellFormat(30, 9, fmt.Sprintf("%.2f", data.TotalHours), "", 1, "R", false, 0, "")

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return absPath, nil
}

func (g *TimesheetGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

func (g *TimesheetGenerator) hr(doc *gofpdf.Fpdf) {
	doc.Ln(2)
	x, y := doc.GetXY()
	pageW, _ := doc.GetPageSize()
	doc.Line(x, y, pageW-20, y)
	doc.Ln(4)
}
