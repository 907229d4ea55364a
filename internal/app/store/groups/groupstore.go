// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/impactcentre/churchhub/internal/app/system/ledger"
	"github.com/impactcentre/churchhub/internal/app/system/normalize"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

var (
	// ErrAlreadyMember is returned when adding a user already in the live member set.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrResponsible is returned when removing a current responsible as a plain
	// member; responsibles must be reassigned first.
	ErrResponsible = errors.New("user is a responsible of this group and cannot be removed as a member")
	// ErrNoOpenInterval signals a ledger inconsistency: the member was in the
	// live set but had no open history interval to close. The removal still
	// happens; callers log this at warn level.
	ErrNoOpenInterval = errors.New("no open membership interval to close")
	// ErrDuplicateGroupName is returned when a group name collides inside a network.
	ErrDuplicateGroupName = errors.New("a group with this name already exists in the network")
)

// GetByID loads a group by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a group. Members must already include the responsibles and
// MembersHistory must carry one open interval per initial member; the
// groups feature assembles both before calling here.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.Name = normalize.Name(g.Name)
	g.NameCI = text.Fold(g.Name)
	if g.Members == nil {
		g.Members = []primitive.ObjectID{}
	}
	if g.MembersHistory == nil {
		g.MembersHistory = []models.MemberInterval{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateGroupName
		}
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo rewrites a group's name, network, and responsible slots. The
// caller is responsible for membership/qualification side effects (ensuring
// new responsibles are members, running the transition engine).
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, networkID primitive.ObjectID, resp1 primitive.ObjectID, resp2 *primitive.ObjectID) error {
	set := bson.M{
		"network_id":      networkID,
		"responsable1_id": resp1,
		"responsable2_id": resp2,
		"updated_at":      time.Now().UTC(),
	}
	if normalize.Name(name) != "" {
		set["name"] = normalize.Name(name)
		set["name_ci"] = text.Fold(name)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateGroupName
		}
		return err
	}
	return nil
}

// AddMember appends userID to the live member set and opens a new ledger
// interval. Fails with ErrAlreadyMember when the user is already in the
// live set; never reopens a closed interval.
func (s *Store) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	for _, m := range g.Members {
		if m == userID {
			return ErrAlreadyMember
		}
	}

	now := time.Now().UTC()
	_, err = s.c.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$push": bson.M{"members_history": models.MemberInterval{
			UserID:   userID,
			JoinedAt: now,
		}},
		"$set": bson.M{"updated_at": now},
	})
	return err
}

// RemoveMember pulls userID from the live member set and closes their most
// recent open ledger interval.
//
// Fails with ErrResponsible when the user holds a responsible slot. When
// the ledger has no open interval for the user (inconsistent data), the
// member is still removed and ErrNoOpenInterval is returned so the caller
// can log the repair gap; the ledger itself is left untouched.
func (s *Store) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g.IsResponsible(userID) {
		return ErrResponsible
	}

	now := time.Now().UTC()
	update := bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": now},
	}

	idx := ledger.OpenIntervalIndex(g.MembersHistory, userID)
	if idx >= 0 {
		update["$set"] = bson.M{
			"updated_at": now,
			fmt.Sprintf("members_history.%d.left_at", idx): now,
		}
	}

	if _, err := s.c.UpdateByID(ctx, groupID, update); err != nil {
		return err
	}
	if idx < 0 {
		return ErrNoOpenInterval
	}
	return nil
}

// EnsureMembers adds any of the given users that are not yet in the live
// member set, opening one ledger interval each. Used when responsibles are
// assigned: a responsible must always also be a member.
func (s *Store) EnsureMembers(ctx context.Context, groupID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	current := make(map[primitive.ObjectID]struct{}, len(g.Members))
	for _, m := range g.Members {
		current[m] = struct{}{}
	}

	now := time.Now().UTC()
	var missing []primitive.ObjectID
	var intervals []models.MemberInterval
	for _, id := range userIDs {
		if _, ok := current[id]; ok {
			continue
		}
		current[id] = struct{}{}
		missing = append(missing, id)
		intervals = append(intervals, models.MemberInterval{UserID: id, JoinedAt: now})
	}
	if len(missing) == 0 {
		return nil
	}

	_, err = s.c.UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"members": bson.M{"$each": missing}},
		"$push":     bson.M{"members_history": bson.M{"$each": intervals}},
		"$set":      bson.M{"updated_at": now},
	})
	return err
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByNetwork removes all groups belonging to a network.
// Returns the number of documents deleted.
func (s *Store) DeleteByNetwork(ctx context.Context, networkID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"network_id": networkID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all groups.
func (s *Store) List(ctx context.Context) ([]models.Group, error) {
	return s.find(ctx, bson.M{})
}

// ListByNetwork returns all groups in a network.
func (s *Store) ListByNetwork(ctx context.Context, networkID primitive.ObjectID) ([]models.Group, error) {
	return s.find(ctx, bson.M{"network_id": networkID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CountAll returns the total number of groups.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// DistinctMemberIDs returns the distinct user IDs present in any group's
// live member set. Used by the isolated-member statistic.
func (s *Store) DistinctMemberIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := s.c.Distinct(ctx, "members", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
