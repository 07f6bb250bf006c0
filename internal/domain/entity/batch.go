package entity

// RecordStatus is the outcome of one record in a batch.
type RecordStatus string

const (
	RecordPublished RecordStatus = "published"
	RecordFailed    RecordStatus = "failed"
)

// Pipeline stages, used to tell where a record failed.
const (
	StageIntake  = "intake"
	StageQuery   = "query"
	StageReduce  = "reduce"
	StagePublish = "publish"
)

// RecordResult is the per-record result collected into a BatchReport.
type RecordResult struct {
	Index        int          `json:"index"`
	MessageID    string       `json:"message_id,omitempty"`
	AnomalyID    string       `json:"anomaly_id,omitempty"`
	Status       RecordStatus `json:"status"`
	Stage        string       `json:"stage,omitempty"`
	Error        string       `json:"error,omitempty"`
	EventID      string       `json:"event_id,omitempty"`
	AnomalyCount int          `json:"anomaly_count"`

	Report *EnrichedAnomalyReport `json:"-"`
	Err    error                  `json:"-"`
}

// BatchReport aggregates the results of one batch invocation.
type BatchReport struct {
	Records   []RecordResult `json:"records"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// Add appends r and updates the counters.
func (b *BatchReport) Add(r RecordResult) {
	if r.Status == RecordPublished {
		b.Succeeded++
	} else {
		b.Failed++
	}
	b.Records = append(b.Records, r)
}

// Reports returns the enriched reports of every successful record.
func (b BatchReport) Reports() []EnrichedAnomalyReport {
	var out []EnrichedAnomalyReport
	for _, r := range b.Records {
		if r.Report != nil {
			out = append(out, *r.Report)
		}
	}
	return out
}
