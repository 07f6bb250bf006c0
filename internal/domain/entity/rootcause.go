package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MaxRootCauses bounds the number of resources carried in a report.
const MaxRootCauses = 5

var hundred = decimal.NewFromInt(100)

// RootCauseRecord is one ranked resource whose cost grew during the anomaly.
// JSON names match the columns of the comparison query.
type RootCauseRecord struct {
	AccountID         string          `json:"line_item_usage_account_id"`
	ServiceName       string          `json:"product_servicename"`
	ResourceID        string          `json:"line_item_resource_id"`
	CurrentPeriodCost decimal.Decimal `json:"anomaly_period_cost"`
	PriorPeriodCost   decimal.Decimal `json:"previous_period_cost"`
	CostIncrease      decimal.Decimal `json:"cost_increase"`
	PercentGrowth     decimal.Decimal `json:"percentage_increase"`
}

// NewRootCauseRecord derives the increase and growth from the two period costs.
func NewRootCauseRecord(accountID, service, resourceID string, current, prior decimal.Decimal) RootCauseRecord {
	increase := current.Sub(prior)
	growth := hundred
	if !prior.IsZero() {
		growth = increase.Div(prior).Mul(hundred)
	}
	return RootCauseRecord{
		AccountID:         accountID,
		ServiceName:       service,
		ResourceID:        resourceID,
		CurrentPeriodCost: current,
		PriorPeriodCost:   prior,
		CostIncrease:      increase,
		PercentGrowth:     growth,
	}
}

// RankRootCauses keeps records with a positive increase, sorted by increase
// descending and capped at MaxRootCauses. The input slice is not modified.
func RankRootCauses(records []RootCauseRecord) []RootCauseRecord {
	ranked := make([]RootCauseRecord, 0, len(records))
	for _, r := range records {
		if r.CostIncrease.IsPositive() {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CostIncrease.GreaterThan(ranked[j].CostIncrease)
	})

	if len(ranked) > MaxRootCauses {
		ranked = ranked[:MaxRootCauses]
	}
	return ranked
}

// TotalCostIncrease sums the cost increase across records.
func TotalCostIncrease(records []RootCauseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.CostIncrease)
	}
	return total
}
