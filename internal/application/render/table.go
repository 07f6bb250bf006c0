// Package render turns root-cause records into the tables and message bodies
// embedded in notifications.
package render

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
)

// Columns is the fixed display order shared by the text and HTML tables.
var Columns = []string{"Account ID", "Service", "Resource ID", "Current Cost", "Previous Cost", "% Growth"}

func textCells(r entity.RootCauseRecord) []string {
	return []string{
		r.AccountID,
		r.ServiceName,
		r.ResourceID,
		r.CurrentPeriodCost.String(),
		r.PriorPeriodCost.String(),
		r.PercentGrowth.String(),
	}
}

func htmlCells(r entity.RootCauseRecord) []string {
	return []string{
		r.AccountID,
		r.ServiceName,
		r.ResourceID,
		Currency(r.CurrentPeriodCost),
		Currency(r.PriorPeriodCost),
		Percent(r.PercentGrowth),
	}
}

// TextTable renders records as a left-aligned monospace ledger:
//
//	-----------------------
//	| Account ID | ...    |
//	-----------------------
//	| 111        | ...    |
//	-----------------------
func TextTable(records []entity.RootCauseRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, textCells(r))
	}

	widths := make([]int, len(Columns))
	for i, c := range Columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	total := 1
	for _, w := range widths {
		total += w + 3
	}
	separator := strings.Repeat("-", total)

	lines := make([]string, 0, len(rows)+4)
	lines = append(lines, separator, formatRow(Columns, widths), separator)
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths))
	}
	lines = append(lines, separator)

	return strings.Join(lines, "\n")
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

// HTMLTable renders records as an HTML table with a header row. Costs carry a
// "$" prefix and two decimals; growth carries two decimals and a "%" suffix.
func HTMLTable(records []entity.RootCauseRecord) string {
	var sb strings.Builder
	sb.WriteString(`<table border="1" cellpadding="4" cellspacing="0" style="border-collapse:collapse">`)
	sb.WriteString("\n<tr>")
	for _, c := range Columns {
		sb.WriteString("<th>" + html.EscapeString(c) + "</th>")
	}
	sb.WriteString("</tr>\n")

	for _, r := range records {
		sb.WriteString("<tr>")
		for _, cell := range htmlCells(r) {
			sb.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>")
	return sb.String()
}
