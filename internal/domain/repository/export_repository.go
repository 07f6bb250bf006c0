package repository

import (
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(reports []entity.EnrichedAnomalyReport, filename string, outputDir string) (string, error)
	ExportToJSON(reports []entity.EnrichedAnomalyReport, filename string, outputDir string) (string, error)
	ExportToPDF(reports []entity.EnrichedAnomalyReport, filename string, outputDir string) (string, error)
}
