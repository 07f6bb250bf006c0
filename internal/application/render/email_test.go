package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

func sampleData() EmailData {
	records := sampleRecords()
	report := entity.EnrichedAnomalyReport{Anomalies: records, AnomalyCount: len(records)}
	return NewEmailData(report, "2024-01-10", "2024-01-12", "https://example.com/anomaly?id=1&x=2")
}

func TestNewEmailData(t *testing.T) {
	data := sampleData()

	assert.Equal(t, 2, data.AnomalyCount)
	assert.Equal(t, "$70.50", data.TotalIncrease)
	assert.Equal(t, TextTable(sampleRecords()), data.TextTable)
	assert.Equal(t, HTMLTable(sampleRecords()), data.HTMLTable)
	require.Len(t, data.Anomalies, 2)
	assert.Equal(t, AnomalyLine{
		Index: 1, AccountID: "111", ResourceID: "i-1", ServiceName: "AmazonEC2",
		Current: "$150.50", Previous: "$100.00", Increase: "$50.50", Growth: "50.50%",
	}, data.Anomalies[0])
}

func TestTextBody(t *testing.T) {
	body, err := TextBody(sampleData())
	require.NoError(t, err)

	assert.Contains(t, body, "* Anomaly Start Date: 2024-01-10")
	assert.Contains(t, body, "* Resources identified: 2")
	assert.Contains(t, body, TextTable(sampleRecords()))
	assert.Contains(t, body, "1, 111, i-1, AmazonEC2, $150.50, $100.00, $50.50, 50.50%")
	assert.Contains(t, body, "total cost increase of $70.50")
	assert.Contains(t, body, "https://example.com/anomaly?id=1&x=2")
	assert.NotContains(t, body, "NOTICE")
}

func TestHTMLBody(t *testing.T) {
	body, err := HTMLBody(sampleData())
	require.NoError(t, err)

	assert.Contains(t, body, HTMLTable(sampleRecords()))
	assert.Contains(t, body, `href="https://example.com/anomaly?id=1&amp;x=2"`)
	assert.NotContains(t, body, "NOTICE")
}

func TestBodies_UnreachableNotice(t *testing.T) {
	data := sampleData()
	data.Unreachable = []entity.UnverifiedRecipient{{Address: "b@example.com", Reason: "address is not verified in Amazon SES"}}

	text, err := TextBody(data)
	require.NoError(t, err)
	assert.Contains(t, text, "NOTICE")
	assert.Contains(t, text, "b@example.com (address is not verified in Amazon SES)")

	htmlBody, err := HTMLBody(data)
	require.NoError(t, err)
	assert.Contains(t, htmlBody, "<li>b@example.com (address is not verified in Amazon SES)</li>")
}
