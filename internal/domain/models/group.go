// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberInterval is one stint of a user's membership in a group:
// a half-open range [JoinedAt, LeftAt). LeftAt == nil means the stint is
// still open (the user is currently a member).
type MemberInterval struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
	LeftAt   *time.Time         `bson:"left_at,omitempty" json:"left_at,omitempty"`
}

// Group is a small group inside a network.
//
// Invariants:
//   - Responsable1 (and Responsable2 when set) always appear in Members.
//   - For any user, at most one interval in MembersHistory has LeftAt == nil.
//     Re-adding a removed member appends a new interval; the old one is
//     never reopened.
//   - Members must agree with replaying MembersHistory at time.Now().
type Group struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Name         string               `bson:"name" json:"name"`
	NameCI       string               `bson:"name_ci" json:"name_ci"`
	NetworkID    primitive.ObjectID   `bson:"network_id" json:"network_id"`
	Responsable1 primitive.ObjectID   `bson:"responsable1_id" json:"responsable1_id"`
	Responsable2 *primitive.ObjectID  `bson:"responsable2_id,omitempty" json:"responsable2_id,omitempty"`
	Members      []primitive.ObjectID `bson:"members" json:"members"`

	// MembersHistory is the append-only membership ledger. Statistics
	// reconstruct past membership by replaying it; it is never rewritten,
	// only appended to or closed.
	MembersHistory []MemberInterval `bson:"members_history" json:"members_history"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Responsibles returns the set of current responsible user IDs (one or two).
func (g Group) Responsibles() []primitive.ObjectID {
	ids := []primitive.ObjectID{g.Responsable1}
	if g.Responsable2 != nil {
		ids = append(ids, *g.Responsable2)
	}
	return ids
}

// IsResponsible reports whether userID holds a responsible slot on the group.
func (g Group) IsResponsible(userID primitive.ObjectID) bool {
	if g.Responsable1 == userID {
		return true
	}
	return g.Responsable2 != nil && *g.Responsable2 == userID
}
