// internal/app/features/users/handler.go
package users

import (
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the users feature.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}
