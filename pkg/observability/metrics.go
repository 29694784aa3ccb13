package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics handles application metrics and monitoring
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance. A nil client turns every
// Record call into a no-op.
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordCommandExecution records duration and count for a dispatched command
// or query
func (m *Metrics) RecordCommandExecution(ctx context.Context, commandName string, duration time.Duration, err error) {
	if m == nil || m.client == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}

	dimensions := []types.Dimension{
		{Name: aws.String("CommandName"), Value: aws.String(commandName)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}
	now := time.Now()

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("CommandExecution"),
			Dimensions: dimensions,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("CommandCount"),
			Dimensions: dimensions,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
	})
}

// RecordError records error occurrences
func (m *Metrics) RecordError(ctx context.Context, errorType string, operation string) {
	if m == nil || m.client == nil {
		return
	}

	m.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("Errors"),
			Dimensions: []types.Dimension{
				{Name: aws.String("ErrorType"), Value: aws.String(errorType)},
				{Name: aws.String("Operation"), Value: aws.String(operation)},
			},
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(time.Now()),
		},
	})
}

func (m *Metrics) put(ctx context.Context, data []types.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}

	// Metrics never fail the request that produced them
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("failed to send metrics", zap.Error(err))
	}
}
