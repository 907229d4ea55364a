// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents any person tracked by the system: dashboard admins,
// network responsibles, group leaders, and plain members.
//
// NOTE:
//   - Role is the dashboard access level (admin | manager | member) and is
//     unrelated to Qualification, which is the person's rank inside the
//     church hierarchy.
//   - Qualification is derived state: the source of truth for "is this
//     person currently a leader" is the set of groups/networks where they
//     hold a responsible slot. The transition engine keeps the label in
//     sync when responsible assignments change.
type User struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName      string              `bson:"full_name" json:"full_name"`
	FullNameCI    string              `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email         string              `bson:"email" json:"email"`
	PasswordHash  string              `bson:"password_hash,omitempty" json:"-"`
	Role          string              `bson:"role" json:"role"` // admin | manager | member
	Qualification string              `bson:"qualification" json:"qualification"`
	ChurchID      *primitive.ObjectID `bson:"church_id,omitempty" json:"church_id,omitempty"`
	DepartmentID  *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`
	ResetToken    string              `bson:"reset_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
