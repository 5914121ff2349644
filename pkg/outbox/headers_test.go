package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/storefront-catalog/pkg/correlationid"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-123")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "corr-123", headers[correlationid.Header])

	restored := outbox.ExtractContextFromHeaders(context.Background(), headers)
	id, ok := correlationid.FromContext(restored)
	assert.True(t, ok)
	assert.Equal(t, "corr-123", id)
}

func TestBuildHeadersWithoutCorrelationID(t *testing.T) {
	headers := outbox.BuildHeaders(context.Background())
	_, ok := headers[correlationid.Header]
	assert.False(t, ok)
}

func TestRecordHeaders(t *testing.T) {
	rec := &kgo.Record{Headers: []kgo.RecordHeader{
		{Key: correlationid.Header, Value: []byte("a")},
		{Key: "traceparent", Value: []byte("00-abc")},
		{Key: correlationid.Header, Value: []byte("b")},
	}}

	headers := outbox.RecordHeaders(rec)
	assert.Equal(t, map[string]string{
		correlationid.Header: "b",
		"traceparent":        "00-abc",
	}, headers)
}
