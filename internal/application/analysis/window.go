// Package analysis builds the comparative CUR query for an anomaly and turns
// its tabular result into ranked root-cause records.
package analysis

import (
	"time"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

const day = 24 * time.Hour

// NewComparisonWindow derives the current, prior and scan windows for an alert.
// Both dates are truncated to the UTC day first so the two windows always have
// the same length and touch without overlapping.
func NewComparisonWindow(alert entity.AnomalyAlert) entity.ComparisonWindow {
	start := truncateDay(alert.AnomalyStartDate)
	end := truncateDay(alert.AnomalyEndDate)
	if end.Before(start) {
		end = start
	}

	days := int(end.Sub(start)/day) + 1
	shift := -days

	return entity.ComparisonWindow{
		Days:         days,
		CurrentStart: start,
		CurrentEnd:   end,
		PriorStart:   start.AddDate(0, 0, shift),
		PriorEnd:     end.AddDate(0, 0, shift),
		ScanStart:    start.AddDate(0, 0, shift),
		ScanEnd:      end.AddDate(0, 0, 1),
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
