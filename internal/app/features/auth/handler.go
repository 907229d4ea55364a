// internal/app/features/auth/handler.go
package auth

import (
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	sysauth "github.com/impactcentre/churchhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the auth feature.
type Handler struct {
	Users    *userstore.Store
	Sessions *sysauth.SessionManager
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs an auth Handler.
func NewHandler(db *mongo.Database, sessions *sysauth.SessionManager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Sessions: sessions,
		ErrLog:   errLog,
		Log:      logger,
	}
}
