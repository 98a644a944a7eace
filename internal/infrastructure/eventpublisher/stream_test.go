package eventpublisher

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iho/cashbook/internal/domain"
)

func TestStreamPublisherAppendsEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pub := NewStreamPublisher(client, "", 0)
	event := domain.NewOutboxEvent("evt-1", domain.AggregateTypePeriod, "cb-1",
		domain.EventTypePeriodLocked, map[string]any{"closing_balance": "50000"},
		time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC))

	ctx := context.Background()
	if err := pub.Publish(ctx, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	entries, err := client.XRange(ctx, DefaultStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}

	values := entries[0].Values
	if values["event_type"] != domain.EventTypePeriodLocked {
		t.Fatalf("unexpected event_type %v", values["event_type"])
	}
	if values["aggregate_id"] != "cb-1" {
		t.Fatalf("unexpected aggregate_id %v", values["aggregate_id"])
	}
	if values["payload"] != `{"closing_balance":"50000"}` {
		t.Fatalf("unexpected payload %v", values["payload"])
	}
}
