package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits application metrics to CloudWatch. A nil client disables
// emission, so every call site can record unconditionally.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger
}

// NewMetrics creates a metrics instance.
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordLatency records the latency of a named operation.
func (m *Metrics) RecordLatency(ctx context.Context, operation string, latency time.Duration) {
	if m.client == nil {
		return
	}

	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("OperationLatency"),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(operation)},
		},
		Value:     aws.Float64(float64(latency.Milliseconds())),
		Unit:      types.StandardUnitMilliseconds,
		Timestamp: aws.Time(time.Now()),
	})
}

// RecordCount bumps a named counter.
func (m *Metrics) RecordCount(ctx context.Context, metric string, dimensions map[string]string) {
	if m.client == nil {
		return
	}

	dims := make([]types.Dimension, 0, len(dimensions))
	for name, value := range dimensions {
		dims = append(dims, types.Dimension{Name: aws.String(name), Value: aws.String(value)})
	}

	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: dims,
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	})
}

// RecordIndexFallback counts a secondary-index query that fell back to a
// table scan. A rising rate here usually means a missing or lagging GSI.
func (m *Metrics) RecordIndexFallback(ctx context.Context, indexName string) {
	m.RecordCount(ctx, "IndexFallbackScan", map[string]string{"Index": indexName})
}

func (m *Metrics) put(ctx context.Context, data ...types.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil && m.logger != nil {
		// Metric loss must never fail the operation being measured.
		m.logger.Warn("Failed to send metrics", zap.Error(err))
	}
}
