package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mindhaven/internal/model"
)

func TestOutboxRelayer_RetriesThenSends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, store, "alice")
	mustCommunity(t, store, "Hikers", owner.ID, false)

	fail := true
	var delivered []model.Outbox
	sender := func(_ context.Context, ob *model.Outbox) error {
		if fail {
			return errors.New("broker down")
		}
		delivered = append(delivered, *ob)
		return nil
	}
	r := NewOutboxRelayer(store, sender, 0, 10)

	if n := r.DrainOnce(ctx); n != 0 {
		t.Fatalf("DrainOnce with failing sender = %d, want 0", n)
	}
	var row model.Outbox
	if err := store.DB().First(&row).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if row.Status != model.OutboxFailed || row.Retry != 1 {
		t.Errorf("after failure status=%d retry=%d, want failed/1", row.Status, row.Retry)
	}

	fail = false
	if n := r.DrainOnce(ctx); n != 1 {
		t.Fatalf("DrainOnce = %d, want 1", n)
	}
	if n := r.DrainOnce(ctx); n != 0 {
		t.Errorf("second drain = %d, want 0", n)
	}

	if len(delivered) != 1 || delivered[0].EventType != model.EventCommunityCreated {
		t.Fatalf("delivered = %+v", delivered)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(delivered[0].Payload), &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["event_type"] != model.EventCommunityCreated {
		t.Errorf("payload event_type = %v", payload["event_type"])
	}
}

func TestOutboxRelayer_StopsAfterMaxRetry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, store, "alice")
	mustCommunity(t, store, "Hikers", owner.ID, false)

	calls := 0
	r := NewOutboxRelayer(store, func(context.Context, *model.Outbox) error {
		calls++
		return errors.New("broker down")
	}, 0, 10)

	for i := 0; i < DefaultOutboxMaxRetry+2; i++ {
		r.DrainOnce(ctx)
	}
	if calls != DefaultOutboxMaxRetry {
		t.Errorf("sender calls = %d, want %d", calls, DefaultOutboxMaxRetry)
	}
}
