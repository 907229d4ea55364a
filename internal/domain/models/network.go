// internal/domain/models/network.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Network is a collection of groups under one or two responsibles.
//
// NOTE:
//   - Groups are not embedded; they reference the network via network_id.
//     Deleting a network cascades deletion of its groups.
type Network struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	Name         string              `bson:"name" json:"name"`
	NameCI       string              `bson:"name_ci" json:"name_ci"`
	Responsable1 primitive.ObjectID  `bson:"responsable1_id" json:"responsable1_id"`
	Responsable2 *primitive.ObjectID `bson:"responsable2_id,omitempty" json:"responsable2_id,omitempty"`
	ChurchID     *primitive.ObjectID `bson:"church_id,omitempty" json:"church_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Responsibles returns the set of current responsible user IDs (one or two).
func (n Network) Responsibles() []primitive.ObjectID {
	ids := []primitive.ObjectID{n.Responsable1}
	if n.Responsable2 != nil {
		ids = append(ids, *n.Responsable2)
	}
	return ids
}
