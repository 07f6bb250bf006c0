package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/diillson/aws-anomaly-rca-go/internal/application/render"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// alertHeader são os campos do alerta original exibidos nos relatórios.
type alertHeader struct {
	AnomalyID          string `json:"anomalyId"`
	AccountID          string `json:"accountId"`
	AnomalyStartDate   string `json:"anomalyStartDate"`
	AnomalyEndDate     string `json:"anomalyEndDate"`
	AnomalyDetailsLink string `json:"anomalyDetailsLink"`
}

func headerOf(report entity.EnrichedAnomalyReport) alertHeader {
	var h alertHeader
	// alerta original não-objeto deixa o cabeçalho em branco
	_ = json.Unmarshal(report.OriginalAlert, &h)
	return h
}

var csvHeaders = []string{
	"Anomaly ID", "Anomaly Start", "Anomaly End", "Account ID", "Service", "Resource ID",
	"Current Cost", "Previous Cost", "Cost Increase", "% Growth",
}

// ExportToCSV escreve uma linha por recurso de cada relatório.
func (r *ExportRepositoryImpl) ExportToCSV(reports []entity.EnrichedAnomalyReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, report := range reports {
		h := headerOf(report)
		for _, a := range report.Anomalies {
			record := []string{
				h.AnomalyID,
				h.AnomalyStartDate,
				h.AnomalyEndDate,
				a.AccountID,
				a.ServiceName,
				a.ResourceID,
				a.CurrentPeriodCost.StringFixed(2),
				a.PriorPeriodCost.StringFixed(2),
				a.CostIncrease.StringFixed(2),
				a.PercentGrowth.StringFixed(2),
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// ExportToJSON grava os relatórios exatamente como são publicados no barramento.
func (r *ExportRepositoryImpl) ExportToJSON(reports []entity.EnrichedAnomalyReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	if reports == nil {
		reports = []entity.EnrichedAnomalyReport{}
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF gera uma página por relatório com o resumo e a tabela de recursos.
func (r *ExportRepositoryImpl) ExportToPDF(reports []entity.EnrichedAnomalyReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}
	colWidths := []float64{32, 70, 85, 30, 30, 30}

	if len(reports) == 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 10, "No enriched anomaly reports.")
	}

	for i, report := range reports {
		h := headerOf(report)
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		title := "  Cost Anomaly"
		if h.AnomalyID != "" {
			title += " " + h.AnomalyID
		}
		pdf.CellFormat(0, 12, tr(title), "", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Period: %s to %s | Resources: %d | Total increase: %s",
			h.AnomalyStartDate, h.AnomalyEndDate, report.AnomalyCount,
			render.Currency(entity.TotalCostIncrease(report.Anomalies)))), "", 1, "L", true, 0, "")
		pdf.Ln(6)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		for c, col := range render.Columns {
			pdf.CellFormat(colWidths[c], 7, tr(col), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, a := range report.Anomalies {
			cells := []string{
				a.AccountID, a.ServiceName, a.ResourceID,
				render.Currency(a.CurrentPeriodCost), render.Currency(a.PriorPeriodCost), render.Percent(a.PercentGrowth),
			}
			for c, cell := range cells {
				pdf.CellFormat(colWidths[c], 6, tr(truncate(pdf, cell, colWidths[c]-2)), "B", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}

		if h.AnomalyDetailsLink != "" {
			pdf.Ln(6)
			pdf.SetTextColor(0, 0, 192)
			pdf.CellFormat(0, 6, "Open the anomaly in the AWS console", "", 1, "L", false, 0, h.AnomalyDetailsLink)
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		}

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footerText := fmt.Sprintf("Generated by AWS Anomaly RCA (Go) | %s", r.now().Format("2006-01-02"))
		pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr("Page "+strconv.Itoa(i+1)), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// truncate corta s para caber em width, com reticências.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
