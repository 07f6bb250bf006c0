package render

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

// EmailData is everything the notification bodies embed.
type EmailData struct {
	StartDate     string
	EndDate       string
	AnomalyCount  int
	TotalIncrease string
	TextTable     string
	HTMLTable     string
	DetailsLink   string
	Anomalies     []AnomalyLine

	// Unreachable is set on the fallback copy sent to the sender; the bodies
	// then open with a notice naming each recipient and why it was skipped.
	Unreachable []entity.UnverifiedRecipient
}

// AnomalyLine is one numbered row of the summary list.
type AnomalyLine struct {
	Index       int
	AccountID   string
	ResourceID  string
	ServiceName string
	Current     string
	Previous    string
	Increase    string
	Growth      string
}

// NewEmailData assembles the body data for a report.
func NewEmailData(report entity.EnrichedAnomalyReport, startDate, endDate, detailsLink string) EmailData {
	htmlTable := report.HTMLTable
	if htmlTable == "" {
		htmlTable = HTMLTable(report.Anomalies)
	}
	textTable := report.EmailTable
	if textTable == "" {
		textTable = TextTable(report.Anomalies)
	}

	lines := make([]AnomalyLine, 0, len(report.Anomalies))
	for i, a := range report.Anomalies {
		lines = append(lines, AnomalyLine{
			Index:       i + 1,
			AccountID:   a.AccountID,
			ResourceID:  a.ResourceID,
			ServiceName: a.ServiceName,
			Current:     Currency(a.CurrentPeriodCost),
			Previous:    Currency(a.PriorPeriodCost),
			Increase:    Currency(a.CostIncrease),
			Growth:      Percent(a.PercentGrowth),
		})
	}

	return EmailData{
		StartDate:     startDate,
		EndDate:       endDate,
		AnomalyCount:  report.AnomalyCount,
		TotalIncrease: Currency(entity.TotalCostIncrease(report.Anomalies)),
		TextTable:     textTable,
		HTMLTable:     htmlTable,
		DetailsLink:   detailsLink,
		Anomalies:     lines,
	}
}

const textBody = `{{if .Unreachable}}NOTICE: this report could not be delivered to the following intended recipients:
{{range .Unreachable}}  - {{.Address}} ({{.Reason}})
{{end}}Verify these addresses in Amazon SES to have them receive future reports.

{{end}}Hello,

You are receiving this alert because AWS Cost Anomaly Detection has identified an unusual cost increase.
The anomaly has been validated and the root cause has been determined using the AWS Cost and Usage Report (CUR).

* Anomaly Start Date: {{.StartDate}}
* Anomaly End Date: {{.EndDate}}
* Resources identified: {{.AnomalyCount}}

Here is the list of the resources that triggered this cost anomaly:

{{.TextTable}}

Summary of the Alert:
{{range .Anomalies}}
{{.Index}}, {{.AccountID}}, {{.ResourceID}}, {{.ServiceName}}, {{.Current}}, {{.Previous}}, {{.Increase}}, {{.Growth}}{{end}}

The above anomalies caused a total cost increase of {{.TotalIncrease}}

Please verify if this cost increase is expected and, if necessary, make any adjustments.

To view the original anomaly report, please visit:
{{.DetailsLink}}

Thank you,
Anomaly Detection Agent
`

const htmlBody = `<html>
<body style="font-family:Arial,Helvetica,sans-serif">
{{if .Unreachable}}<div style="border:1px solid #c00;padding:8px;margin-bottom:12px;color:#c00">
<p><b>NOTICE:</b> this report could not be delivered to the following intended recipients:</p>
<ul>{{range .Unreachable}}<li>{{.Address}} ({{.Reason}})</li>{{end}}</ul>
<p>Verify these addresses in Amazon SES to have them receive future reports.</p>
</div>
{{end}}<p>Hello,</p>
<p>You are receiving this alert because AWS Cost Anomaly Detection has identified an unusual cost increase.
The anomaly has been validated and the root cause has been determined using the AWS Cost and Usage Report (CUR).</p>
<ul>
<li><b>Anomaly Start Date:</b> {{.StartDate}}</li>
<li><b>Anomaly End Date:</b> {{.EndDate}}</li>
<li><b>Resources identified:</b> {{.AnomalyCount}}</li>
</ul>
<p>Here is the list of the resources that triggered this cost anomaly:</p>
{{.Table}}
<p>The above anomalies caused a total cost increase of <b>{{.TotalIncrease}}</b>.</p>
<p>Please verify if this cost increase is expected and, if necessary, make any adjustments.</p>
<p>To view the original anomaly report, please click <a href="{{.DetailsLink}}">here</a>.</p>
<p>Thank you,<br>Anomaly Detection Agent</p>
</body>
</html>
`

var (
	textTmpl = template.Must(template.New("text").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

// TextBody renders the plain-text notification.
func TextBody(data EmailData) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering text body: %w", err)
	}
	return buf.String(), nil
}

// HTMLBody renders the HTML notification. The table was escaped when it
// was rendered, so it is embedded as-is.
func HTMLBody(data EmailData) (string, error) {
	view := struct {
		EmailData
		Table htmltemplate.HTML
	}{EmailData: data, Table: htmltemplate.HTML(data.HTMLTable)}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("error rendering HTML body: %w", err)
	}
	return buf.String(), nil
}
