// internal/app/features/groups/handler.go
package groups

import (
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/qualify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
// It holds the Mongo database, the qualification transition engine, and
// the logger so the various handlers (CRUD, membership) share one set of
// core dependencies.
type Handler struct {
	DB      *mongo.Database
	Qualify *qualify.Engine
	ErrLog  *apierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a groups Handler. It is typically called from the
// bootstrap BuildHandler function, where the application's DB and logger
// are already initialized.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Qualify: qualify.New(userstore.New(db), logger),
		ErrLog:  errLog,
		Log:     logger,
	}
}
