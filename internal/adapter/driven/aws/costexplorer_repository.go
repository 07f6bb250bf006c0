package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/diillson/aws-anomaly-rca-go/internal/domain/entity"
	"github.com/diillson/aws-anomaly-rca-go/internal/domain/repository"
)

const anomalyConsoleURL = "https://console.aws.amazon.com/cost-management/home#/anomaly-detection/monitors/%s/anomalies/%s"

type costExplorerAPI interface {
	GetAnomalies(ctx context.Context, params *costexplorer.GetAnomaliesInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetAnomaliesOutput, error)
}

// CostExplorerRepositoryImpl implementa o AnomalyRepository sobre o Cost Explorer.
type CostExplorerRepositoryImpl struct {
	clients *Clients
	api     costExplorerAPI
}

// NewCostExplorerRepository cria uma nova implementação do AnomalyRepository.
func NewCostExplorerRepository(clients *Clients) repository.AnomalyRepository {
	return &CostExplorerRepositoryImpl{clients: clients}
}

func (r *CostExplorerRepositoryImpl) client(ctx context.Context) (costExplorerAPI, error) {
	if r.api != nil {
		return r.api, nil
	}
	client, err := r.clients.getServiceClient(ctx, "costexplorer")
	if err != nil {
		return nil, err
	}
	return client.(*costexplorer.Client), nil
}

func (r *CostExplorerRepositoryImpl) ListAnomalies(ctx context.Context, start, end time.Time, monitorARN string) ([]entity.AnomalyAlert, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	input := &costexplorer.GetAnomaliesInput{
		DateInterval: &ceTypes.AnomalyDateInterval{
			StartDate: aws.String(start.Format("2006-01-02")),
			EndDate:   aws.String(end.Format("2006-01-02")),
		},
	}
	if monitorARN != "" {
		input.MonitorArn = aws.String(monitorARN)
	}

	var alerts []entity.AnomalyAlert
	for {
		output, err := client.GetAnomalies(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("error listing cost anomalies: %w", err)
		}
		for _, a := range output.Anomalies {
			alert, err := toAlert(a)
			if err != nil {
				return nil, err
			}
			alerts = append(alerts, alert)
		}
		if aws.ToString(output.NextPageToken) == "" {
			break
		}
		input.NextPageToken = output.NextPageToken
	}
	return alerts, nil
}

func toAlert(a ceTypes.Anomaly) (entity.AnomalyAlert, error) {
	id := aws.ToString(a.AnomalyId)
	start, err := parseAnomalyDate(aws.ToString(a.AnomalyStartDate))
	if err != nil {
		return entity.AnomalyAlert{}, fmt.Errorf("anomaly %s start date: %w", id, err)
	}
	end := start
	if s := aws.ToString(a.AnomalyEndDate); s != "" {
		if end, err = parseAnomalyDate(s); err != nil {
			return entity.AnomalyAlert{}, fmt.Errorf("anomaly %s end date: %w", id, err)
		}
	}

	alert := entity.AnomalyAlert{
		AnomalyID:        id,
		AnomalyStartDate: start,
		AnomalyEndDate:   end,
	}
	if a.Impact != nil {
		alert.TotalImpact = a.Impact.TotalImpact
	}
	if arn := aws.ToString(a.MonitorArn); arn != "" {
		alert.AnomalyDetailsLink = fmt.Sprintf(anomalyConsoleURL, arn[strings.LastIndex(arn, "/")+1:], id)
	}
	for _, rc := range a.RootCauses {
		alert.RootCauses = append(alert.RootCauses, entity.RootCause{
			LinkedAccount:     aws.ToString(rc.LinkedAccount),
			UsageType:         aws.ToString(rc.UsageType),
			Service:           aws.ToString(rc.Service),
			Region:            aws.ToString(rc.Region),
			LinkedAccountName: aws.ToString(rc.LinkedAccountName),
		})
	}
	if len(alert.RootCauses) > 0 {
		alert.AccountID = alert.RootCauses[0].LinkedAccount
	}
	return alert, nil
}

func parseAnomalyDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
