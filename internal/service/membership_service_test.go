package service

import (
	"context"
	"testing"

	"mindhaven/internal/model"
	dbPkg "mindhaven/pkg/db"
)

func TestMembershipService_JoinAndLeave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	c := mustCommunity(t, store, "Hikers", owner.ID, false)
	svc := NewMembershipService(store)

	m, err := svc.Join(ctx, c.ID, bob.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if m.Role != model.MemberRoleMember {
		t.Errorf("Role = %q, want member", m.Role)
	}
	ok, err := svc.IsMember(ctx, c.ID, bob.ID)
	if err != nil || !ok {
		t.Fatalf("IsMember = %v, %v; want true", ok, err)
	}

	_, err = svc.Join(ctx, c.ID, bob.ID)
	assertKind(t, err, ErrConflict)

	if err := svc.Leave(ctx, c.ID, bob.ID); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	ok, _ = svc.IsMember(ctx, c.ID, bob.ID)
	if ok {
		t.Error("still a member after leave")
	}
	assertKind(t, svc.Leave(ctx, c.ID, bob.ID), ErrNotFound)

	if n := countEvents(t, store, model.EventCommunityJoined); n != 1 {
		t.Errorf("joined events = %d, want 1", n)
	}
	if n := countEvents(t, store, model.EventCommunityLeft); n != 1 {
		t.Errorf("left events = %d, want 1", n)
	}
}

func TestMembershipService_JoinErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	public := mustCommunity(t, store, "Hikers", owner.ID, false)
	private := mustCommunity(t, store, "Secret", owner.ID, true)
	svc := NewMembershipService(store)

	tests := []struct {
		name        string
		communityID uint
		userID      uint
		kind        error
	}{
		{"missing user", public.ID, 0, ErrValidation},
		{"unknown community", public.ID + 100, bob.ID, ErrNotFound},
		{"private community", private.ID, bob.ID, ErrPermission},
		{"unknown user", public.ID, 999, ErrNotFound},
		{"owner already member", public.ID, owner.ID, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Join(ctx, tt.communityID, tt.userID)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestMembershipService_OwnerCannotLeave(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	c := mustCommunity(t, store, "Hikers", owner.ID, false)
	svc := NewMembershipService(store)

	assertKind(t, svc.Leave(context.Background(), c.ID, owner.ID), ErrPermission)
	ok, _ := svc.IsMember(context.Background(), c.ID, owner.ID)
	if !ok {
		t.Error("owner membership removed")
	}
	assertKind(t, svc.Leave(context.Background(), c.ID, 0), ErrValidation)
}

func TestMembershipService_MembersOrderedByJoin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	carol := mustUser(t, store, "carol")
	c := mustCommunity(t, store, "Hikers", owner.ID, false)
	svc := NewMembershipService(store)

	for _, u := range []uint{bob.ID, carol.ID} {
		if _, err := svc.Join(ctx, c.ID, u); err != nil {
			t.Fatalf("Join %d: %v", u, err)
		}
	}
	members, err := svc.Members(ctx, c.ID)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	want := []uint{owner.ID, bob.ID, carol.ID}
	if len(members) != len(want) {
		t.Fatalf("members = %d, want %d", len(members), len(want))
	}
	for i, m := range members {
		if m.UserID != want[i] {
			t.Errorf("members[%d].UserID = %d, want %d", i, m.UserID, want[i])
		}
	}

	_, err = svc.Members(ctx, c.ID+100)
	assertKind(t, err, ErrNotFound)
}

func TestMembershipRepository_UniquePerUserAndCommunity(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	c1 := mustCommunity(t, store, "Hikers", owner.ID, false)
	c2 := mustCommunity(t, store, "Runners", owner.ID, false)

	// 同一用户可加入多个社区，同一社区可有多个用户
	if err := store.Memberships.Create(&model.CommunityMembership{UserID: bob.ID, CommunityID: c1.ID, Role: model.MemberRoleMember}); err != nil {
		t.Fatalf("bob->c1: %v", err)
	}
	if err := store.Memberships.Create(&model.CommunityMembership{UserID: bob.ID, CommunityID: c2.ID, Role: model.MemberRoleMember}); err != nil {
		t.Fatalf("bob->c2: %v", err)
	}

	err := store.Memberships.Create(&model.CommunityMembership{UserID: bob.ID, CommunityID: c1.ID, Role: model.MemberRoleMember})
	if !dbPkg.IsDuplicateKey(err) {
		t.Fatalf("duplicate membership err = %v, want unique violation", err)
	}
	assertKind(t, translateWrite(err, "Already a member", "加入社区失败"), ErrConflict)
}

func TestMembershipService_JoinRollsBackOnLaterFailure(t *testing.T) {
	store := newTestStore(t)
	owner := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	c := mustCommunity(t, store, "Hikers", owner.ID, false)
	if err := store.DB().Migrator().DropTable(&model.Outbox{}); err != nil {
		t.Fatalf("drop outbox: %v", err)
	}

	svc := NewMembershipService(store)
	if _, err := svc.Join(context.Background(), c.ID, bob.ID); err == nil {
		t.Fatal("Join succeeded without outbox table")
	}
	ok, err := svc.IsMember(context.Background(), c.ID, bob.ID)
	if err != nil {
		t.Fatalf("IsMember: %v", err)
	}
	if ok {
		t.Error("membership persisted after failed join")
	}
}
