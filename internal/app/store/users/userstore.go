// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/impactcentre/churchhub/internal/app/system/normalize"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"manager"|"member"`)
	// ErrBadQualification is returned when a label is outside the accepted set.
	ErrBadQualification = errors.New("unknown qualification label")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a user document with the given ID exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AllExist reports whether every ID resolves to a user document.
func (s *Store) AllExist(ctx context.Context, ids []primitive.ObjectID) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return false, err
	}
	return n == int64(len(distinctIDs(ids))), nil
}

// Create inserts a new user after normalizing and validating fields.
// The qualification label is normalized to canonical form; an empty label
// defaults to "En intégration".
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)

	switch u.Role {
	case "admin", "manager", "member":
		// ok
	default:
		return models.User{}, errBadRole
	}

	if u.Qualification == "" {
		u.Qualification = qualification.Integration
	} else {
		q, ok := qualification.Normalize(u.Qualification)
		if !ok {
			return models.User{}, ErrBadQualification
		}
		u.Qualification = q
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the fields an admin can edit directly. Nil pointers mean
// "leave unchanged"; qualification may be set to any accepted label,
// including categorical ones the transition engine never touches.
type Update struct {
	FullName      *string
	Email         *string
	Qualification *string
	ChurchID      **primitive.ObjectID
	DepartmentID  **primitive.ObjectID
}

// UpdateInfo applies an admin edit to a user.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Qualification != nil {
		q, ok := qualification.Normalize(*upd.Qualification)
		if !ok {
			return ErrBadQualification
		}
		set["qualification"] = q
	}
	if upd.ChurchID != nil {
		set["church_id"] = *upd.ChurchID
	}
	if upd.DepartmentID != nil {
		set["department_id"] = *upd.DepartmentID
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all users sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetQualificationMany sets the qualification of every listed user in one
// batched write. The transition engine's demote/promote phases are each one
// call to this method.
func (s *Store) SetQualificationMany(ctx context.Context, ids []primitive.ObjectID, label string) error {
	if len(ids) == 0 {
		return nil
	}
	q, ok := qualification.Normalize(label)
	if !ok {
		return ErrBadQualification
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"qualification": q, "updated_at": time.Now().UTC()}},
	)
	return err
}

// CountAll returns the total number of users.
func (s *Store) CountAll(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByQualification counts users whose qualification is any of the
// given canonical labels.
func (s *Store) CountByQualification(ctx context.Context, labels ...string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"qualification": bson.M{"$in": labels}})
}

// CountIsolated counts users that appear in none of the given member ID
// sets and do not hold an isolation-exempt qualification.
func (s *Store) CountIsolated(ctx context.Context, groupedMemberIDs []primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"_id":           bson.M{"$nin": groupedMemberIDs},
		"qualification": bson.M{"$nin": qualification.IsolationExempt},
	})
}

// DetachChurch clears the church reference on every dependent user.
// Called when a church is deleted.
func (s *Store) DetachChurch(ctx context.Context, churchID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"church_id": churchID},
		bson.M{"$set": bson.M{"church_id": nil, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DetachDepartment clears the department reference on every dependent user.
// Called when a department is deleted.
func (s *Store) DetachDepartment(ctx context.Context, departmentID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"department_id": departmentID},
		bson.M{"$set": bson.M{"department_id": nil, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetResetToken stores a password-reset token on the user.
func (s *Store) SetResetToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"reset_token": token, "updated_at": time.Now().UTC()}})
	return err
}

// GetByResetToken resolves a pending reset token to its user.
func (s *Store) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"reset_token": token}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPassword replaces the password hash and consumes any reset token.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"reset_token": ""},
	})
	return err
}

func distinctIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
