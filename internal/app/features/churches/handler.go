// internal/app/features/churches/handler.go
package churches

import (
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	churchstore "github.com/impactcentre/churchhub/internal/app/store/churches"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the churches feature.
type Handler struct {
	Churches *churchstore.Store
	Users    *userstore.Store
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a churches Handler.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Churches: churchstore.New(db),
		Users:    userstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}
