package entity

import "time"

// ComparisonWindow holds the anomaly period, the equal-length period just before
// it, and the scan range that covers both plus one day.
type ComparisonWindow struct {
	Days         int       `json:"days"`
	CurrentStart time.Time `json:"current_start"`
	CurrentEnd   time.Time `json:"current_end"`
	PriorStart   time.Time `json:"prior_start"`
	PriorEnd     time.Time `json:"prior_end"`
	ScanStart    time.Time `json:"scan_start"`
	ScanEnd      time.Time `json:"scan_end"` // exclusive
}

// CurrentDays returns the inclusive number of days in the current window.
func (w ComparisonWindow) CurrentDays() int {
	return inclusiveDays(w.CurrentStart, w.CurrentEnd)
}

// PriorDays returns the inclusive number of days in the prior window.
func (w ComparisonWindow) PriorDays() int {
	return inclusiveDays(w.PriorStart, w.PriorEnd)
}

func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
