package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names.
const (
	MetricCertificationCount = "CertificationCount"
	MetricCacheHit           = "CacheHit"
	MetricStickerBalance     = "StickerBalance"
)

// Metrics puts certification metrics to CloudWatch under Namespace.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics bound to namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{CloudWatch: cw, Namespace: namespace, nowFunc: time.Now}
}

// CertificationCount records one certification of documentType.
func (m *Metrics) CertificationCount(ctx context.Context, documentType string) error {
	return m.put(ctx, MetricCertificationCount, 1, cwtypes.StandardUnitCount, documentType)
}

// CacheHit records one response served from the cache.
func (m *Metrics) CacheHit(ctx context.Context, documentType string) error {
	return m.put(ctx, MetricCacheHit, 1, cwtypes.StandardUnitCount, documentType)
}

// StickerBalance records the remaining sticker balance reported by the API.
func (m *Metrics) StickerBalance(ctx context.Context, balance int64) error {
	return m.put(ctx, MetricStickerBalance, float64(balance), cwtypes.StandardUnitNone, "")
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit cwtypes.StandardUnit, documentType string) error {
	now := m.nowFunc()
	datum := cwtypes.MetricDatum{
		MetricName: awsString(name),
		Value:      &value,
		Unit:       unit,
		Timestamp:  &now,
	}
	if documentType != "" {
		datum.Dimensions = []cwtypes.Dimension{
			{Name: awsString("DocumentType"), Value: awsString(documentType)},
		}
	}
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  awsString(m.Namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", name, err)
	}
	return nil
}
