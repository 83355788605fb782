package service

import (
	"context"
	"errors"
	"testing"

	"mindhaven/internal/model"
)

func TestCommunityService_CreateAddsSingleOwnerMembership(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	svc := NewCommunityService(store)

	c, err := svc.Create(context.Background(), CreateCommunityInput{
		Name:        "Hikers",
		OwnerID:     owner.ID,
		Description: "trails",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == 0 || c.OwnerID != owner.ID || c.IsPrivate {
		t.Fatalf("unexpected community %+v", c)
	}

	members, err := store.Memberships.MembersOf(c.ID)
	if err != nil {
		t.Fatalf("MembersOf: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("members = %d, want 1", len(members))
	}
	if members[0].UserID != owner.ID || members[0].Role != model.MemberRoleOwner {
		t.Errorf("membership = %+v, want owner row for user %d", members[0], owner.ID)
	}
	if n := countEvents(t, store, model.EventCommunityCreated); n != 1 {
		t.Errorf("community.created events = %d, want 1", n)
	}
}

func TestCommunityService_CreateErrors(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	svc := NewCommunityService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCommunityInput{Name: "Hikers", OwnerID: owner.ID}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		in   CreateCommunityInput
		kind error
	}{
		{"missing name", CreateCommunityInput{OwnerID: owner.ID}, ErrValidation},
		{"blank name", CreateCommunityInput{Name: "   ", OwnerID: owner.ID}, ErrValidation},
		{"missing owner", CreateCommunityInput{Name: "Runners"}, ErrValidation},
		{"unknown owner", CreateCommunityInput{Name: "Runners", OwnerID: 999}, ErrNotFound},
		{"duplicate name", CreateCommunityInput{Name: "Hikers", OwnerID: owner.ID}, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assertKind(t, err, tt.kind)
		})
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("communities = %d, want 1 after failed creates", len(list))
	}
	var memberships int64
	store.DB().Model(&model.CommunityMembership{}).Count(&memberships)
	if memberships != 1 {
		t.Errorf("memberships = %d, want 1 after failed creates", memberships)
	}
}

func TestCommunityService_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	for _, name := range []string{"first", "second", "third"} {
		mustCommunity(t, store, name, owner.ID, false)
	}

	list, err := NewCommunityService(store).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	want := []string{"third", "second", "first"}
	for i, c := range list {
		if c.Name != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}

func TestCommunityService_ListEmpty(t *testing.T) {
	list, err := NewCommunityService(newTestStore(t)).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("list = %v, want empty non-nil slice", list)
	}
}

func TestCommunityService_Get(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	c := mustCommunity(t, store, "Hikers", owner.ID, false)
	svc := NewCommunityService(store)

	got, err := svc.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Hikers" {
		t.Errorf("Name = %q", got.Name)
	}
	_, err = svc.Get(context.Background(), c.ID+100)
	assertKind(t, err, ErrNotFound)
}

func TestCommunityService_DeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, store, "alice")
	member := mustUser(t, store, "bob")
	c := mustCommunity(t, store, "Hikers", owner.ID, false)

	if _, err := NewMembershipService(store).Join(ctx, c.ID, member.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := NewCommunityMessageService(store, nil).Post(ctx, c.ID, member.ID, "hello"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	svc := NewCommunityService(store)
	assertKind(t, svc.Delete(ctx, c.ID, member.ID), ErrPermission)
	assertKind(t, svc.Delete(ctx, c.ID, 0), ErrValidation)
	assertKind(t, svc.Delete(ctx, c.ID+100, owner.ID), ErrNotFound)

	if err := svc.Delete(ctx, c.ID, owner.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var memberships, messages int64
	store.DB().Model(&model.CommunityMembership{}).Where("community_id = ?", c.ID).Count(&memberships)
	store.DB().Model(&model.CommunityMessage{}).Where("community_id = ?", c.ID).Count(&messages)
	if memberships != 0 || messages != 0 {
		t.Errorf("after delete memberships=%d messages=%d, want 0", memberships, messages)
	}
	_, err := svc.Get(ctx, c.ID)
	assertKind(t, err, ErrNotFound)
	if n := countEvents(t, store, model.EventCommunityDeleted); n != 1 {
		t.Errorf("community.deleted events = %d, want 1", n)
	}
}

func TestCommunityService_CreateRollsBackOnLaterFailure(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	// 事件表缺失时，社区与 owner 成员写入之后的 outbox 写入失败
	if err := store.DB().Migrator().DropTable(&model.Outbox{}); err != nil {
		t.Fatalf("drop outbox: %v", err)
	}

	_, err := NewCommunityService(store).Create(context.Background(), CreateCommunityInput{Name: "Hikers", OwnerID: owner.ID})
	if err == nil {
		t.Fatal("Create succeeded without outbox table")
	}
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrPermission, ErrConflict} {
		if errors.Is(err, kind) {
			t.Fatalf("err = %v, want an unclassified storage error", err)
		}
	}

	var communities, memberships int64
	store.DB().Model(&model.Community{}).Count(&communities)
	store.DB().Model(&model.CommunityMembership{}).Count(&memberships)
	if communities != 0 || memberships != 0 {
		t.Errorf("after failed create communities=%d memberships=%d, want 0/0", communities, memberships)
	}
}
