package service

import (
	"context"
	"slices"
	"testing"
)

func TestMoodMessage(t *testing.T) {
	for label, list := range moodMessages {
		if got := MoodMessage(label); !slices.Contains(list, got) {
			t.Errorf("MoodMessage(%q) = %q, not in its list", label, got)
		}
	}
	if got := MoodMessage("  HAPPY "); !slices.Contains(moodMessages["happy"], got) {
		t.Errorf("MoodMessage should ignore case and spaces, got %q", got)
	}
	if got := MoodMessage("confused"); got != DefaultMoodMessage {
		t.Errorf("MoodMessage(unknown) = %q, want default", got)
	}
}

func TestMoodService_AddAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, store, "alice")
	svc := NewMoodService(store)

	_, _, err := svc.Add(ctx, alice.ID, "")
	assertKind(t, err, ErrValidation)
	_, _, err = svc.Add(ctx, 999, "sad")
	assertKind(t, err, ErrNotFound)

	for _, label := range []string{"sad", "tired"} {
		m, msg, err := svc.Add(ctx, alice.ID, label)
		if err != nil {
			t.Fatalf("Add %s: %v", label, err)
		}
		if m.EmotionLabel != label || msg == "" {
			t.Errorf("Add %s = %+v, %q", label, m, msg)
		}
	}

	list, err := svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].EmotionLabel != "tired" {
		t.Errorf("List = %+v, want newest first", list)
	}
}
