package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("status", "new"),
		attribute.String("customer_id", "456"),
		attribute.String("entity", "order"),
	)
	require.Len(t, attrs, 2)

	keys := []attribute.Key{attrs[0].Key, attrs[1].Key}
	assert.Contains(t, keys, attribute.Key("status"))
	assert.Contains(t, keys, attribute.Key("entity"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	m.RecordOrderCreated(ctx, "new")
	m.RecordOrderTransition(ctx, "new", "pending")
	m.RecordOrderNumberRetry(ctx)
	m.RecordLabelDuplicated(ctx)
	m.RecordMutation(ctx, "order", "create")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "labelworks-test"}, noop.NewMeterProvider())
	require.NoError(t, err)

	m.RecordOrderCreated(context.Background(), "new")
	m.RecordMutation(context.Background(), "customer", "delete")
}
