// internal/app/features/networks/handler.go
package networks

import (
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/app/system/qualify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the networks feature.
type Handler struct {
	DB      *mongo.Database
	Qualify *qualify.Engine
	ErrLog  *apierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a networks Handler.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Qualify: qualify.New(userstore.New(db), logger),
		ErrLog:  errLog,
		Log:     logger,
	}
}
