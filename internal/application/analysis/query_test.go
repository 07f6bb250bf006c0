package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/shared/types"
)

func sampleAlert() entity.AnomalyAlert {
	return entity.AnomalyAlert{
		AnomalyStartDate: date(2024, 1, 10),
		AnomalyEndDate:   date(2024, 1, 12),
		RootCauses: []entity.RootCause{
			{LinkedAccount: "111", UsageType: "BoxUsage"},
			{LinkedAccount: "222", UsageType: "O'Reilly"},
		},
	}
}

func TestRenderPredicate(t *testing.T) {
	sql, params := RenderPredicate(RootCauseFilter(sampleAlert().RootCauses))

	assert.Equal(t,
		"(((line_item_usage_account_id = ? AND line_item_usage_type = ?) OR (line_item_usage_account_id = ? AND line_item_usage_type = ?)))",
		sql)
	assert.Equal(t, []string{"'111'", "'BoxUsage'", "'222'", "'O''Reilly'"}, params)
}

func TestBuildRootCauseQuery(t *testing.T) {
	q, err := BuildRootCauseQuery(sampleAlert(), "cur_db.cur_table")
	require.NoError(t, err)

	assert.Contains(t, q.Text, `FROM "cur_db"."cur_table"`)
	assert.NotContains(t, q.Text, "BoxUsage")
	assert.NotContains(t, q.Text, "O'Reilly")
	assert.True(t, strings.HasSuffix(q.Text, "LIMIT 5"))
	assert.Contains(t, q.Text, "WHERE cost_increase > 0")
	assert.Contains(t, q.Text, "ORDER BY cost_increase DESC")

	assert.Equal(t, strings.Count(q.Text, "?"), len(q.Parameters))
	assert.Equal(t, []string{
		"'111'", "'BoxUsage'", "'222'", "'O''Reilly'",
		"'2024-01-07'", "'2024-01-13'",
		"'2024-01-10'", "'2024-01-12'",
		"'2024-01-07'", "'2024-01-09'",
	}, q.Parameters)
	assert.Equal(t, 3, q.Window.Days)
}

func TestBuildRootCauseQuery_Errors(t *testing.T) {
	_, err := BuildRootCauseQuery(sampleAlert(), "")
	assert.ErrorIs(t, err, types.ErrMissingConfiguration)

	_, err = BuildRootCauseQuery(entity.AnomalyAlert{}, "cur")
	assert.ErrorIs(t, err, types.ErrMalformedAlert)
}

func TestQuoteTable(t *testing.T) {
	quoted, err := QuoteTable("cur")
	require.NoError(t, err)
	assert.Equal(t, `"cur"`, quoted)

	for _, bad := range []string{"cur; DROP TABLE x", `cur"`, "a.b.c", "1cur", "cur table"} {
		_, err := QuoteTable(bad)
		var mce *types.MissingConfigError
		require.ErrorAs(t, err, &mce, bad)
		assert.Equal(t, "athena.table", mce.Key)
		assert.NotEmpty(t, mce.Reason)
	}
}
