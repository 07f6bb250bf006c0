package entity

import "encoding/json"

// EnrichedAnomalyReport is the document published to EventBridge once the root
// causes of an anomaly are known.
type EnrichedAnomalyReport struct {
	Anomalies     []RootCauseRecord `json:"anomalies"`
	AnomalyCount  int               `json:"anomaly_count"`
	EmailTable    string            `json:"email_table"`
	HTMLTable     string            `json:"email_table_html,omitempty"`
	OriginalAlert json.RawMessage   `json:"original_alert"`
}

// EmailMessage is a single outbound email.
type EmailMessage struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// UnverifiedRecipient is an intended recipient the email service cannot deliver to.
type UnverifiedRecipient struct {
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

// RecipientSet partitions the configured recipients by verification status.
type RecipientSet struct {
	Verified   []string              `json:"verified"`
	Unverified []UnverifiedRecipient `json:"unverified"`
}

// Empty reports whether neither set holds an address.
func (s RecipientSet) Empty() bool {
	return len(s.Verified) == 0 && len(s.Unverified) == 0
}
