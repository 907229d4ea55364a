package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given qualification label.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, label string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:            primitive.NewObjectID(),
		FullName:      fullName,
		FullNameCI:    text.Fold(fullName),
		Email:         email,
		Role:          "member",
		Qualification: label,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateRegularUser creates a test user with the Régulier qualification.
func (f *Fixtures) CreateRegularUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, qualification.Regular)
}

// CreateLeaderUser creates a test user with the Leader qualification.
func (f *Fixtures) CreateLeaderUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, qualification.Leader)
}

// CreateNetwork creates a test network with the given responsible.
func (f *Fixtures) CreateNetwork(ctx context.Context, name string, resp1 primitive.ObjectID) models.Network {
	f.t.Helper()

	now := time.Now().UTC()
	network := models.Network{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Responsable1: resp1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("networks").InsertOne(ctx, network)
	if err != nil {
		f.t.Fatalf("failed to create test network: %v", err)
	}

	return network
}

// CreateGroup creates a test group in the given network, led by resp1.
// The responsible is enrolled as a member with an open ledger interval.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, networkID, resp1 primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		NetworkID:    networkID,
		Responsable1: resp1,
		Members:      []primitive.ObjectID{resp1},
		MembersHistory: []models.MemberInterval{
			{UserID: resp1, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return group
}

// AddGroupMember appends a user to the group's live member set and opens a
// ledger interval, bypassing the store layer.
func (f *Fixtures) AddGroupMember(ctx context.Context, groupID, userID primitive.ObjectID, joinedAt time.Time) {
	f.t.Helper()

	_, err := f.db.Collection("groups").UpdateByID(ctx, groupID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$push": bson.M{"members_history": models.MemberInterval{
			UserID:   userID,
			JoinedAt: joinedAt,
		}},
	})
	if err != nil {
		f.t.Fatalf("failed to add test group member: %v", err)
	}
}

// CreateChurch creates a test church.
func (f *Fixtures) CreateChurch(ctx context.Context, name, address string) models.Church {
	f.t.Helper()

	now := time.Now().UTC()
	church := models.Church{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("churches").InsertOne(ctx, church)
	if err != nil {
		f.t.Fatalf("failed to create test church: %v", err)
	}

	return church
}

// CreateDepartment creates a test department.
func (f *Fixtures) CreateDepartment(ctx context.Context, name string) models.Department {
	f.t.Helper()

	now := time.Now().UTC()
	dept := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("departments").InsertOne(ctx, dept)
	if err != nil {
		f.t.Fatalf("failed to create test department: %v", err)
	}

	return dept
}
