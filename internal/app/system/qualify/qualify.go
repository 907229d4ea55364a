// internal/app/system/qualify/qualify.go

// Package qualify is the transition engine that keeps User.Qualification in
// step with responsible assignments on groups and networks.
//
// The engine only ever moves users along the two-tier responsibility ladder
// (network responsible > group leader); categorical labels such as
// Gouvernance or Ecodim sit outside the ladder and are never touched by a
// demotion pass. Demotion always lands one rung down, never on whatever
// label the user held before their first promotion.
//
// All writes are best-effort side effects of a primary entity mutation:
// callers log returned errors at warn level and do not abort the mutation.
package qualify

import (
	"context"

	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/qualification"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Engine applies qualification transitions through the users store.
type Engine struct {
	users *userstore.Store
	log   *zap.Logger
}

// New constructs an Engine sharing the app's users store and logger.
func New(users *userstore.Store, logger *zap.Logger) *Engine {
	return &Engine{users: users, log: logger}
}

// OnGroupCreated promotes the group's responsibles to Leader.
func (e *Engine) OnGroupCreated(ctx context.Context, g models.Group) error {
	return e.promote(ctx, g.Responsibles(), qualification.Leader)
}

// OnGroupResponsiblesChanged demotes users that lost a responsible slot and
// (re-)promotes the current responsibles, in that order. Both target
// Leader, so a responsable1/responsable2 swap within one group converges to
// Leader regardless of phase order.
func (e *Engine) OnGroupResponsiblesChanged(ctx context.Context, old, new []primitive.ObjectID) error {
	if err := e.promote(ctx, diff(old, new), qualification.Leader); err != nil {
		return err
	}
	return e.promote(ctx, new, qualification.Leader)
}

// OnGroupDeleted sets all former responsibles to Leader. Deleting one group
// does not erase leadership earned elsewhere, so they keep leader status
// rather than reverting further.
func (e *Engine) OnGroupDeleted(ctx context.Context, g models.Group) error {
	return e.promote(ctx, g.Responsibles(), qualification.Leader)
}

// OnNetworkResponsiblesChanged mirrors the group case one rung up: users
// that lost a network slot fall back to Leader, current responsibles become
// Responsable réseau. Demotion runs first.
func (e *Engine) OnNetworkResponsiblesChanged(ctx context.Context, old, new []primitive.ObjectID) error {
	if err := e.promote(ctx, diff(old, new), qualification.Leader); err != nil {
		return err
	}
	return e.promote(ctx, new, qualification.NetworkResponsible)
}

// OnNetworkDeleted demotes the network's responsibles to Leader.
func (e *Engine) OnNetworkDeleted(ctx context.Context, n models.Network) error {
	return e.promote(ctx, n.Responsibles(), qualification.Leader)
}

func (e *Engine) promote(ctx context.Context, ids []primitive.ObjectID, label string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := e.users.SetQualificationMany(ctx, ids, label); err != nil {
		e.log.Warn("qualification transition failed",
			zap.String("label", label),
			zap.Int("users", len(ids)),
			zap.Error(err))
		return err
	}
	return nil
}

// diff returns the members of old that are absent from new.
func diff(old, new []primitive.ObjectID) []primitive.ObjectID {
	keep := make(map[primitive.ObjectID]struct{}, len(new))
	for _, id := range new {
		keep[id] = struct{}{}
	}
	var out []primitive.ObjectID
	for _, id := range old {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
