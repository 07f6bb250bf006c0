package analysis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

var requiredColumns = []string{ColAccountID, ColServiceName, ColResourceID, ColCurrentCost, ColPreviousCost}

// ReduceRows converts a raw result (row 0 = headers) into one RootCauseRecord
// per data row. Increase and growth are derived from the two period costs.
func ReduceRows(rows [][]string) ([]entity.RootCauseRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: result has no header row", types.ErrMalformedResult)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", types.ErrMalformedResult, col)
		}
	}

	records := make([]entity.RootCauseRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(col string) string {
			if i := index[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		current, err := parseDecimal(cell(ColCurrentCost))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d %s: %v", types.ErrMalformedResult, n+1, ColCurrentCost, err)
		}
		prior, err := parseDecimal(cell(ColPreviousCost))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d %s: %v", types.ErrMalformedResult, n+1, ColPreviousCost, err)
		}

		records = append(records, entity.NewRootCauseRecord(
			cell(ColAccountID), cell(ColServiceName), cell(ColResourceID), current, prior,
		))
	}
	return records, nil
}

// Athena returns SQL NULL as an empty cell.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
