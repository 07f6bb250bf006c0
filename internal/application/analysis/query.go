package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

// CUR column names read and produced by the comparison query.
const (
	ColAccountID     = "line_item_usage_account_id"
	ColServiceName   = "product_servicename"
	ColResourceID    = "line_item_resource_id"
	ColUsageType     = "line_item_usage_type"
	ColCurrentCost   = "anomaly_period_cost"
	ColPreviousCost  = "previous_period_cost"
	ColCostIncrease  = "cost_increase"
	ColPercentGrowth = "percentage_increase"
)

const dateLayout = "2006-01-02"

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Query is a query text with positional "?" placeholders and the literal values
// bound to them, in order.
type Query struct {
	Text       string
	Parameters []string
	Window     entity.ComparisonWindow
}

// RootCauseFilter builds the OR of (account AND usage type) over every root
// cause, wrapped in an enclosing group.
func RootCauseFilter(causes []entity.RootCause) Predicate {
	or := make(Or, 0, len(causes))
	for _, c := range causes {
		or = append(or, And{
			Eq{Column: ColAccountID, Value: c.LinkedAccount},
			Eq{Column: ColUsageType, Value: c.UsageType},
		})
	}
	return And{or}
}

// QuoteTable validates a table name ("table" or "database.table") and returns
// it as a quoted identifier.
func QuoteTable(table string) (string, error) {
	if table == "" {
		return "", types.MissingConfig("athena.table")
	}
	if !identifierRegex.MatchString(table) {
		return "", &types.MissingConfigError{Key: "athena.table", Reason: fmt.Sprintf("%q is not a valid table identifier", table)}
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return strings.Join(parts, "."), nil
}

// BuildRootCauseQuery produces the comparison query that ranks resources by cost
// increase between the prior and current windows, keeping the top five.
func BuildRootCauseQuery(alert entity.AnomalyAlert, table string) (Query, error) {
	quoted, err := QuoteTable(table)
	if err != nil {
		return Query{}, err
	}
	if len(alert.RootCauses) == 0 {
		return Query{}, fmt.Errorf("%w: no root causes to filter on", types.ErrMalformedAlert)
	}

	window := NewComparisonWindow(alert)
	var w sqlWriter

	w.raw(`WITH daily_costs AS (
    SELECT
        line_item_resource_id,
        line_item_usage_account_id,
        product_servicename,
        DATE(line_item_usage_start_date) AS usage_date,
        SUM(line_item_unblended_cost) AS total_cost
    FROM ` + quoted + `
    WHERE `)
	RootCauseFilter(alert.RootCauses).render(&w)
	w.raw("\n        AND line_item_usage_start_date >= ")
	w.dateParam(window.ScanStart.Format(dateLayout))
	w.raw("\n        AND line_item_usage_start_date < ")
	w.dateParam(window.ScanEnd.Format(dateLayout))
	w.raw(`
    GROUP BY
        line_item_resource_id,
        line_item_usage_account_id,
        product_servicename,
        DATE(line_item_usage_start_date)
),
cost_summary AS (
    SELECT
        line_item_resource_id,
        line_item_usage_account_id,
        product_servicename,
        SUM(CASE WHEN usage_date BETWEEN `)
	w.dateParam(window.CurrentStart.Format(dateLayout))
	w.raw(" AND ")
	w.dateParam(window.CurrentEnd.Format(dateLayout))
	w.raw(` THEN total_cost ELSE 0 END) AS anomaly_period_cost,
        SUM(CASE WHEN usage_date BETWEEN `)
	w.dateParam(window.PriorStart.Format(dateLayout))
	w.raw(" AND ")
	w.dateParam(window.PriorEnd.Format(dateLayout))
	w.raw(` THEN total_cost ELSE 0 END) AS previous_period_cost
    FROM daily_costs
    GROUP BY
        line_item_resource_id,
        line_item_usage_account_id,
        product_servicename
),
cost_growth AS (
    SELECT
        line_item_usage_account_id,
        product_servicename,
        line_item_resource_id,
        anomaly_period_cost,
        previous_period_cost,
        (anomaly_period_cost - previous_period_cost) AS cost_increase,
        CASE
            WHEN previous_period_cost = 0 THEN 100
            ELSE ((anomaly_period_cost - previous_period_cost) / previous_period_cost) * 100
        END AS percentage_increase
    FROM cost_summary
)
SELECT
    line_item_usage_account_id,
    product_servicename,
    line_item_resource_id,
    anomaly_period_cost,
    previous_period_cost,
    cost_increase,
    percentage_increase
FROM cost_growth
WHERE cost_increase > 0
ORDER BY cost_increase DESC
`)
	w.raw(fmt.Sprintf("LIMIT %d", entity.MaxRootCauses))

	return Query{Text: w.sb.String(), Parameters: w.params, Window: window}, nil
}
