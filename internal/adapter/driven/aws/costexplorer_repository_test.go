package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCostExplorer struct {
	inputs []costexplorer.GetAnomaliesInput
	pages  []*costexplorer.GetAnomaliesOutput
	err    error
}

func (f *fakeCostExplorer) GetAnomalies(_ context.Context, in *costexplorer.GetAnomaliesInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetAnomaliesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, *in)
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func TestListAnomalies(t *testing.T) {
	fake := &fakeCostExplorer{pages: []*costexplorer.GetAnomaliesOutput{
		{
			Anomalies: []ceTypes.Anomaly{{
				AnomalyId:        aws.String("a-1"),
				AnomalyStartDate: aws.String("2024-01-10T00:00:00Z"),
				AnomalyEndDate:   aws.String("2024-01-12T00:00:00Z"),
				MonitorArn:       aws.String("arn:aws:ce::123456789012:anomalymonitor/mon-1"),
				Impact:           &ceTypes.Impact{TotalImpact: 42.5},
				RootCauses: []ceTypes.RootCause{{
					LinkedAccount: aws.String("111"),
					UsageType:     aws.String("BoxUsage"),
					Service:       aws.String("Amazon Elastic Compute Cloud - Compute"),
				}},
			}},
			NextPageToken: aws.String("page-2"),
		},
		{
			Anomalies: []ceTypes.Anomaly{{
				AnomalyId:        aws.String("a-2"),
				AnomalyStartDate: aws.String("2024-01-11"),
			}},
		},
	}}
	repo := &CostExplorerRepositoryImpl{api: fake}

	alerts, err := repo.ListAnomalies(context.Background(),
		time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	first := alerts[0]
	assert.Equal(t, "a-1", first.AnomalyID)
	assert.Equal(t, "111", first.AccountID)
	assert.Equal(t, 42.5, first.TotalImpact)
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), first.AnomalyEndDate)
	assert.Equal(t, "https://console.aws.amazon.com/cost-management/home#/anomaly-detection/monitors/mon-1/anomalies/a-1", first.AnomalyDetailsLink)
	require.Len(t, first.RootCauses, 1)
	assert.Equal(t, "BoxUsage", first.RootCauses[0].UsageType)

	assert.Equal(t, alerts[1].AnomalyStartDate, alerts[1].AnomalyEndDate)

	require.Len(t, fake.inputs, 2)
	assert.Equal(t, "2024-01-06", aws.ToString(fake.inputs[0].DateInterval.StartDate))
	assert.Equal(t, "2024-01-13", aws.ToString(fake.inputs[0].DateInterval.EndDate))
	assert.Nil(t, fake.inputs[0].MonitorArn)
	assert.Equal(t, "page-2", aws.ToString(fake.inputs[1].NextPageToken))
}

func TestListAnomalies_Errors(t *testing.T) {
	repo := &CostExplorerRepositoryImpl{api: &fakeCostExplorer{err: errors.New("access denied")}}
	_, err := repo.ListAnomalies(context.Background(), time.Now(), time.Now(), "arn")
	assert.ErrorContains(t, err, "access denied")

	repo = &CostExplorerRepositoryImpl{api: &fakeCostExplorer{pages: []*costexplorer.GetAnomaliesOutput{{
		Anomalies: []ceTypes.Anomaly{{AnomalyId: aws.String("bad"), AnomalyStartDate: aws.String("yesterday")}},
	}}}}
	_, err = repo.ListAnomalies(context.Background(), time.Now(), time.Now(), "")
	assert.ErrorContains(t, err, "anomaly bad start date")
}
