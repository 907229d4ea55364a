// internal/app/store/networks/networkstore.go
package networkstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/impactcentre/churchhub/internal/app/system/normalize"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateNetworkName = errors.New("a network with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("networks")}
}

// GetByID loads a network by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Network, error) {
	var n models.Network
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return models.Network{}, err
	}
	return n, nil
}

// Create inserts a network.
func (s *Store) Create(ctx context.Context, n models.Network) (models.Network, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.Name = normalize.Name(n.Name)
	n.NameCI = text.Fold(n.Name)
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Network{}, ErrDuplicateNetworkName
		}
		return models.Network{}, err
	}
	return n, nil
}

// UpdateInfo rewrites a network's name and responsible slots. Qualification
// side effects are the caller's job.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name string, resp1 primitive.ObjectID, resp2 *primitive.ObjectID) error {
	set := bson.M{
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
			return ErrDuplicateNetworkName
		}
		return err
	}
	return nil
}

// Delete removes a network by ID. Group cascade is handled by the feature
// layer before this call. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all networks sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Network, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var networks []models.Network
	if err := cur.All(ctx, &networks); err != nil {
		return nil, err
	}
	return networks, nil
}

// CountAll returns the total number of networks.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
