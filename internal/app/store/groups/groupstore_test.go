package groupstore_test

import (
	"testing"
	"time"

	groupstore "github.com/impactcentre/churchhub/internal/app/store/groups"
	"github.com/impactcentre/churchhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_AddMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")

	if err := store.AddMember(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	g, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(g.Members) != 2 {
		t.Errorf("members: got %d, want 2", len(g.Members))
	}
	if len(g.MembersHistory) != 2 {
		t.Errorf("history: got %d intervals, want 2", len(g.MembersHistory))
	}

	// Re-adding a live member is rejected and opens no duplicate interval.
	if err := store.AddMember(ctx, group.ID, member.ID); err != groupstore.ErrAlreadyMember {
		t.Errorf("second AddMember: got %v, want ErrAlreadyMember", err)
	}
	g, err = store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(g.MembersHistory) != 2 {
		t.Errorf("history after rejected add: got %d intervals, want 2", len(g.MembersHistory))
	}
}

func TestStore_RemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")

	if err := store.AddMember(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Responsibles cannot leave as plain members.
	if err := store.RemoveMember(ctx, group.ID, leader.ID); err != groupstore.ErrResponsible {
		t.Fatalf("RemoveMember(responsible): got %v, want ErrResponsible", err)
	}

	if err := store.RemoveMember(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	g, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(g.Members) != 1 {
		t.Errorf("members after removal: got %d, want 1", len(g.Members))
	}
	// The stint is closed, not erased.
	if len(g.MembersHistory) != 2 {
		t.Fatalf("history after removal: got %d intervals, want 2", len(g.MembersHistory))
	}
	var closed int
	for _, iv := range g.MembersHistory {
		if iv.UserID == member.ID && iv.LeftAt != nil {
			closed++
		}
	}
	if closed != 1 {
		t.Errorf("closed intervals for removed member: got %d, want 1", closed)
	}
}

func TestStore_RemoveMember_NoOpenInterval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")

	// Corrupt state: in the live set without a ledger interval.
	_, err := db.Collection("groups").UpdateByID(ctx, group.ID, bson.M{
		"$addToSet": bson.M{"members": member.ID},
	})
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}

	if err := store.RemoveMember(ctx, group.ID, member.ID); err != groupstore.ErrNoOpenInterval {
		t.Fatalf("RemoveMember: got %v, want ErrNoOpenInterval", err)
	}

	// The member is removed anyway.
	g, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	for _, m := range g.Members {
		if m == member.ID {
			t.Error("member still in live set after repair removal")
		}
	}
}

func TestStore_EnsureMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	group := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	newResp := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")

	// Leader already enrolled; only the new responsible gets an interval.
	err := store.EnsureMembers(ctx, group.ID, append(group.Members, newResp.ID))
	if err != nil {
		t.Fatalf("EnsureMembers failed: %v", err)
	}

	g, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(g.Members) != 2 {
		t.Errorf("members: got %d, want 2", len(g.Members))
	}
	if len(g.MembersHistory) != 2 {
		t.Errorf("history: got %d intervals, want 2", len(g.MembersHistory))
	}

	// Idempotent: a second call changes nothing.
	if err := store.EnsureMembers(ctx, group.ID, g.Members); err != nil {
		t.Fatalf("second EnsureMembers failed: %v", err)
	}
	g2, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(g2.MembersHistory) != 2 {
		t.Errorf("history after repeat: got %d intervals, want 2", len(g2.MembersHistory))
	}
}

func TestStore_DistinctMemberIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeaderUser(ctx, "Marie Dupont", "marie@example.com")
	network := fixtures.CreateNetwork(ctx, "Réseau Nord", leader.ID)
	g1 := fixtures.CreateGroup(ctx, "GR Nord 1", network.ID, leader.ID)
	g2 := fixtures.CreateGroup(ctx, "GR Nord 2", network.ID, leader.ID)

	member := fixtures.CreateRegularUser(ctx, "Jean Petit", "jean@example.com")
	fixtures.AddGroupMember(ctx, g1.ID, member.ID, time.Now().UTC())
	fixtures.AddGroupMember(ctx, g2.ID, member.ID, time.Now().UTC())

	ids, err := store.DistinctMemberIDs(ctx)
	if err != nil {
		t.Fatalf("DistinctMemberIDs failed: %v", err)
	}
	// Leader leads both groups, Jean belongs to both: two distinct users.
	if len(ids) != 2 {
		t.Errorf("distinct member IDs: got %d, want 2", len(ids))
	}
}
